package cache

import (
	"context"
	"encoding/json"
	"time"
)

func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	v, _, err := FetchJSON(c, ctx, key, ttl, load)
	return v, err
}

func FetchJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, Source, error) {
	b, src, err := c.Fetch(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return nil, src, err
	}
	if string(b) == "null" {
		return nil, src, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		// 脏数据直接丢弃，下次回源
		_ = c.Invalidate(ctx, key)
		return nil, src, e
	}
	return &out, src, nil
}
