package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"blog-api/internal/domain"
)

// translate 把 gorm / 驱动错误收敛成 domain 错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return domain.ErrConflict
	}
	return err
}

// isDupKey 兜底：部分驱动未实现 ErrorTranslator
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint failed")
}
