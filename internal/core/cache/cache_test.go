package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	b, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	_, err = s.Get(ctx, "forever")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "forever"))
	_, err = s.Get(ctx, "forever")
	require.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStoreKeepsRefreshedEntry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	clock := time.Now()
	s.now = func() time.Time { return clock }
	require.NoError(t, s.Set(ctx, "k", []byte("old"), time.Minute))
	clock = clock.Add(2 * time.Minute)

	// 过期判断与删除之间插入一次 Set
	refreshed := false
	s.now = func() time.Time {
		if !refreshed {
			refreshed = true
			require.NoError(t, s.Set(ctx, "k", []byte("fresh"), time.Hour))
		}
		return clock
	}
	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)

	b, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(b))
}

func TestFetchReportsSource(t *testing.T) {
	c := New("", "", 0)
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("loaded"), nil
	}

	const n = 8
	srcs := make(chan Source, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, src, err := c.Fetch(context.Background(), "k", time.Hour, load)
			assert.NoError(t, err)
			srcs <- src
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(srcs)

	counts := map[Source]int{}
	for s := range srcs {
		counts[s]++
	}
	assert.Equal(t, int(atomic.LoadInt32(&calls)), counts[FromLoad])
	assert.Equal(t, n, counts[FromLoad]+counts[FromShared]+counts[FromStore])
	assert.Positive(t, counts[FromShared])

	_, src, err := c.Fetch(context.Background(), "k", time.Hour, load)
	require.NoError(t, err)
	assert.Equal(t, FromStore, src)
	assert.Equal(t, "hit", src.String())
}

func TestGetOrLoadCollapsesMisses(t *testing.T) {
	c := New("", "", 0)
	var calls int32
	release := make(chan struct{})

	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("loaded"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := c.GetOrLoad(context.Background(), "k", time.Hour, load)
			assert.NoError(t, err)
			assert.Equal(t, "loaded", string(b))
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	// 命中后不再回源
	_, err := c.GetOrLoad(context.Background(), "k", time.Hour, load)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	c := New("", "", 0)
	boom := errors.New("boom")
	_, err := c.GetOrLoad(context.Background(), "k", time.Hour, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	b, err := c.GetOrLoad(context.Background(), "k", time.Hour, func(context.Context) ([]byte, error) {
		return []byte("ok"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(b))
}

type item struct {
	Name string `json:"name"`
}

func TestGetOrLoadJSONAndInvalidate(t *testing.T) {
	ctx := context.Background()
	c := New("", "", 0)
	n := 0
	load := func(context.Context) (*[]item, error) {
		n++
		out := []item{{Name: "go"}}
		return &out, nil
	}

	v, err := GetOrLoadJSON(c, ctx, "categories", time.Hour, load)
	require.NoError(t, err)
	assert.Equal(t, []item{{Name: "go"}}, *v)

	_, err = GetOrLoadJSON(c, ctx, "categories", time.Hour, load)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Invalidate(ctx, "categories"))
	_, err = GetOrLoadJSON(c, ctx, "categories", time.Hour, load)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
