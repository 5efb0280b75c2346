package service

import (
	"context"
	"time"

	"blog-api/internal/core/cache"
	"blog-api/internal/core/metrics"
	"blog-api/internal/domain"
)

const categoriesKey = "categories"

type categoryStore interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int) (*domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int) (*domain.Category, error)
}

// CachedCategories 列表走缓存，任何写操作后删除缓存项
type CachedCategories struct {
	repo  categoryStore
	cache *cache.Cache
	ttl   time.Duration
}

func NewCachedCategories(repo categoryStore, c *cache.Cache, ttl time.Duration) *CachedCategories {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedCategories{repo: repo, cache: c, ttl: ttl}
}

func (s *CachedCategories) List(ctx context.Context) ([]domain.Category, error) {
	out, src, err := cache.FetchJSON(s.cache, ctx, categoriesKey, s.ttl, func(ctx context.Context) (*[]domain.Category, error) {
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		return &list, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.CacheLookups.WithLabelValues(categoriesKey, src.String()).Inc()
	if out == nil {
		return []domain.Category{}, nil
	}
	return *out, nil
}

func (s *CachedCategories) Get(ctx context.Context, id int) (*domain.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *CachedCategories) invalidate(ctx context.Context, err error) error {
	if err == nil {
		_ = s.cache.Invalidate(ctx, categoriesKey)
	}
	return err
}

func (s *CachedCategories) Create(ctx context.Context, c *domain.Category) error {
	return s.invalidate(ctx, s.repo.Create(ctx, c))
}

func (s *CachedCategories) Update(ctx context.Context, c *domain.Category) error {
	return s.invalidate(ctx, s.repo.Update(ctx, c))
}

func (s *CachedCategories) Delete(ctx context.Context, id int) (*domain.Category, error) {
	c, err := s.repo.Delete(ctx, id)
	return c, s.invalidate(ctx, err)
}
