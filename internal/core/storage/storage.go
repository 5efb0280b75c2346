package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blog-api/internal/core/config"
)

var ErrInvalidName = errors.New("storage: invalid object name")

// Store 保存对象并返回可访问的 URL
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

func FromConfig(ctx context.Context, c config.Storage) (Store, error) {
	switch c.Driver {
	case "s3":
		return NewS3(ctx, c.S3)
	case "local", "":
		return NewLocal(c.Local.Dir, c.Local.BaseURL)
	}
	return nil, fmt.Errorf("storage: unsupported driver %q", c.Driver)
}

type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func validName(name string) bool {
	return name != "" && name == filepath.Base(name) && name != "." && name != ".."
}

func (l *Local) Put(ctx context.Context, name, _ string, data []byte) (string, error) {
	if !validName(name) {
		return "", ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(l.Dir, name), data, 0o644); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + name, nil
}
