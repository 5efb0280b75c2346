package ez

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/internal/domain"
	resp "blog-api/internal/transport/http/response"
)

// Store CRUD 需要的最小仓储接口，repo.CRUD[T] 直接满足
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int) (*T, error)
	Create(ctx context.Context, v *T) error
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id int) (*T, error)
}

// CrudConfig T 为模型，I 为写操作的入参（带 binding 校验）
type CrudConfig[T any, I any] struct {
	Group *gin.RouterGroup // 为空则用 e 的分组
	Path  string
	Store Store[T]
	Name  string // 出错信息里的资源名，如 "category"

	// Apply 把入参写进模型；Update 时 m 为已存在的记录
	Apply func(in *I, m *T)

	// WriteGuards 只作用于 POST/PUT/DELETE
	WriteGuards []gin.HandlerFunc

	ReadOnly bool
}

// StoreErr 仓储错误到 AErr 的通用映射
func StoreErr(name string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(name + " not found")
	case errors.Is(err, domain.ErrConflict):
		return Coded(http.StatusBadRequest, resp.ErrCodeConflict, name+" already exists")
	}
	return Internal("", err)
}

// Crud 一次注册 list/get/create/update/delete
func Crud[T any, I any](e EZ, cfg CrudConfig[T, I]) {
	g := e
	if cfg.Group != nil {
		g = New(cfg.Group, e.log)
	}
	name := cfg.Name
	if name == "" {
		name = "record"
	}

	RegisterAction(g, Action[struct{}, []T]{
		Method: http.MethodGet, Path: cfg.Path, Binder: BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]T, error) {
			list, err := cfg.Store.List(c.Request.Context())
			if err != nil {
				return nil, StoreErr(name, err)
			}
			if list == nil {
				list = []T{}
			}
			return list, nil
		},
	})

	RegisterAction(g, Action[struct{}, *T]{
		Method: http.MethodGet, Path: cfg.Path + "/:id", Binder: BindNone, PathID: true,
		Handler: func(c *gin.Context, _ *struct{}) (*T, error) {
			v, err := cfg.Store.Get(c.Request.Context(), ID(c))
			if err != nil {
				return nil, StoreErr(name, err)
			}
			return v, nil
		},
	})

	if cfg.ReadOnly {
		return
	}

	RegisterAction(g, Action[I, *T]{
		Method: http.MethodPost, Path: cfg.Path, Binder: BindJSON, Status: http.StatusCreated,
		Guards: cfg.WriteGuards,
		Handler: func(c *gin.Context, in *I) (*T, error) {
			m := new(T)
			cfg.Apply(in, m)
			if err := cfg.Store.Create(c.Request.Context(), m); err != nil {
				return nil, StoreErr(name, err)
			}
			return m, nil
		},
	})

	RegisterAction(g, Action[I, *T]{
		Method: http.MethodPut, Path: cfg.Path + "/:id", Binder: BindJSON, PathID: true,
		Guards: cfg.WriteGuards,
		Handler: func(c *gin.Context, in *I) (*T, error) {
			ctx := c.Request.Context()
			m, err := cfg.Store.Get(ctx, ID(c))
			if err != nil {
				return nil, StoreErr(name, err)
			}
			cfg.Apply(in, m)
			if err := cfg.Store.Update(ctx, m); err != nil {
				return nil, StoreErr(name, err)
			}
			return m, nil
		},
	})

	RegisterAction(g, Action[struct{}, *T]{
		Method: http.MethodDelete, Path: cfg.Path + "/:id", Binder: BindNone, PathID: true,
		Guards: cfg.WriteGuards,
		Handler: func(c *gin.Context, _ *struct{}) (*T, error) {
			v, err := cfg.Store.Delete(c.Request.Context(), ID(c))
			if err != nil {
				return nil, StoreErr(name, err)
			}
			return v, nil
		},
	})
}
