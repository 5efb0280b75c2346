package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CRUD 通用单表仓储，主键为 int 的 id 列
type CRUD[T any] struct {
	db *gorm.DB
}

func NewCRUD[T any](db *gorm.DB) *CRUD[T] { return &CRUD[T]{db: db} }

func (r *CRUD[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *CRUD[T]) Get(ctx context.Context, id int) (*T, error) {
	var v T
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *CRUD[T]) Create(ctx context.Context, v *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error)
}

func (r *CRUD[T]) Update(ctx context.Context, v *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error)
}

// Delete 返回被删除的行
func (r *CRUD[T]) Delete(ctx context.Context, id int) (*T, error) {
	v, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(v).Error; err != nil {
		return nil, translate(err)
	}
	return v, nil
}
