package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"blog-api/internal/core/config"
	mdw "blog-api/internal/transport/http/middleware"
)

type Options struct {
	Production bool
	Gzip       bool
	CORS       *cors.Config // 为空用 cors.Default()
}

// NewRouter 公共基础：gin 模式、恢复、CORS、压缩
func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	if o.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(mdw.Recovery(l))
	if o.CORS != nil {
		r.Use(cors.New(*o.CORS))
	} else {
		r.Use(cors.Default())
	}
	if o.Gzip {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	return r
}

// Chain 按配置组装的通用中间件
func Chain(l *zap.Logger, h config.HTTP, apiKeyName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.RateLimit(rateOf(h.RateLimitRPS), h.RateLimitBurst),
		mdw.ConcurrencyLimit(h.MaxConcurrent),
		mdw.MaxBodyBytes(h.MaxBodyBytes),
		mdw.Timeout(time.Duration(h.RequestTimeoutSec) * time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l, apiKeyName),
	}
}

// rateOf 未配置时不限速
func rateOf(rps float64) rate.Limit {
	if rps <= 0 {
		return rate.Inf
	}
	return rate.Limit(rps)
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Run 启动并阻塞到 ctx 结束，然后优雅关闭
func Run(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	l.Info("http stopped gracefully", zap.String("addr", srv.Addr))
	return nil
}
