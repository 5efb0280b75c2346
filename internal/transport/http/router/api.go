package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "blog-api/docs"
	"blog-api/internal/core/auth"
	"blog-api/internal/core/config"
	"blog-api/internal/core/metrics"
	"blog-api/internal/core/server"
	"blog-api/internal/domain"
	"blog-api/internal/service"
	"blog-api/internal/transport/http/ez"
	mdw "blog-api/internal/transport/http/middleware"
	resp "blog-api/internal/transport/http/response"
)

// Deps 用户端引擎的全部依赖，由 main 组装
type Deps struct {
	Cfg        *config.Config
	Log        *zap.Logger
	JWT        *auth.JWTer
	Accounts   *service.AccountService
	Posts      *service.PostService
	Categories *service.CachedCategories
	Tags       ez.Store[domain.Tag]
	Roles      ez.Store[domain.Role]
}

func NewAPIEngine(d Deps) *gin.Engine {
	ez.RegisterValidators()

	r := server.NewRouter(d.Log, server.Options{Production: d.Cfg.IsProduction(), Gzip: true})
	r.Use(server.Chain(d.Log, d.Cfg.App.HTTP, d.Cfg.APIKey.Name)...)

	mountHome(r, d.Cfg)
	if d.Cfg.App.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if d.Cfg.Storage.Driver == "local" && d.Cfg.Storage.Local.BaseURL != "" {
		r.Static(d.Cfg.Storage.Local.BaseURL, d.Cfg.Storage.Local.Dir)
	}

	// 写接口统一走 API key
	apiKey := mdw.APIKey(d.Cfg.APIKey)

	reg := &Registry{}
	reg.Register(
		&accountsModule{svc: d.Accounts, jwt: d.JWT, log: d.Log},
		&postsModule{svc: d.Posts, apiKey: apiKey, log: d.Log},
		&taxonomyModule{categories: d.Categories, tags: d.Tags, roles: d.Roles, apiKey: apiKey, log: d.Log},
	)
	reg.MountAPI(r.Group("/v1"))
	return r
}

func mountHome(r *gin.Engine, cfg *config.Config) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{"environment": cfg.App.Env, "message": "API Online"}))
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
