package cache

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var ErrMiss = errors.New("cache: miss")

// Store 后端存储：Redis 或进程内
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Cache struct {
	store Store
	sf    singleflight.Group
}

func NewWithStore(s Store) *Cache { return &Cache{store: s} }

// New addr 为空时退回进程内缓存
func New(addr, pass string, db int) *Cache {
	if addr == "" {
		return NewWithStore(NewMemoryStore())
	}
	return NewWithStore(&RedisStore{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	})
}

// Close 后端是 Redis 时关闭连接
func (c *Cache) Close() error {
	if cl, ok := c.store.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Source 标记一次读取的数据来源
type Source int

const (
	FromStore  Source = iota // 缓存命中
	FromLoad                 // 本次调用回源
	FromShared               // 等待同 key 的另一次回源
)

func (s Source) String() string {
	switch s {
	case FromStore:
		return "hit"
	case FromLoad:
		return "miss"
	default:
		return "shared"
	}
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	b, _, err := c.Fetch(ctx, key, ttl, load)
	return b, err
}

// Fetch 同 GetOrLoad，另外返回数据来源
func (c *Cache) Fetch(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, Source, error) {
	// 先读缓存
	if b, err := c.store.Get(ctx, key); err == nil {
		return b, FromStore, nil
	}
	// single flight 合并回源；只有执行 load 的调用算作 miss
	ran := false
	v, err, _ := c.sf.Do(key, func() (any, error) {
		ran = true
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.store.Set(ctx, key, b, ttl)
		return b, nil
	})
	src := FromShared
	if ran {
		src = FromLoad
	}
	if err != nil {
		return nil, src, err
	}
	return v.([]byte), src, nil
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

type RedisStore struct {
	RDB *redis.Client
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.RDB.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return s.RDB.Set(ctx, key, val, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.RDB.Del(ctx, key).Err()
}

func (s *RedisStore) Close() error { return s.RDB.Close() }
