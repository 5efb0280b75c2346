package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/core/auth"
	"blog-api/internal/core/config"
	"blog-api/internal/core/metrics"
	"blog-api/internal/core/server"
	"blog-api/internal/service"
	"blog-api/internal/transport/http/ez"
	mdw "blog-api/internal/transport/http/middleware"
)

type AdminDeps struct {
	Cfg   *config.Config
	Log   *zap.Logger
	JWT   *auth.JWTer
	Admin *service.AdminService
}

func NewAdminEngine(d AdminDeps) *gin.Engine {
	ez.RegisterValidators()

	r := server.NewRouter(d.Log, server.Options{Production: d.Cfg.IsProduction()})
	r.Use(server.Chain(d.Log, d.Cfg.App.HTTP, d.Cfg.APIKey.Name)...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 管理端 v1：先 token(admin)，再 API key
	admin := r.Group("/admin/v1")
	admin.Use(mdw.Guards(
		mdw.JWTGuard(d.JWT, "admin"),
		mdw.APIKeyGuard(d.Cfg.APIKey),
	))

	reg := &Registry{}
	reg.Register(&usersAdminModule{svc: d.Admin, log: d.Log})
	reg.MountAdmin(admin)

	return r
}
