package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"blog-api/internal/core/auth"
	"blog-api/internal/core/cache"
	"blog-api/internal/core/config"
	"blog-api/internal/core/database"
	"blog-api/internal/core/logger"
	"blog-api/internal/core/notify"
	"blog-api/internal/core/server"
	"blog-api/internal/core/storage"
	"blog-api/internal/domain"
	"blog-api/internal/repo"
	"blog-api/internal/service"
	"blog-api/internal/transport/http/router"
)

// @title       Blog API
// @version     1.0
// @description 博客后端：账号、文章、分类、标签、角色
// @BasePath    /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @securityDefinitions.apikey ApiKey
// @in query
// @name api_key
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	// 签名密钥缺失在 config.Load 已经退出，这里兜底
	jwter, err := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		log.Fatal("jwt init", zap.Error(err))
	}

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = c.Close() }()

	store, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("storage init", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	notifier, err := notify.FromConfig(cfg.SMTP, log)
	if err != nil {
		log.Fatal("notifier init", zap.Error(err))
	}

	// 依赖
	users := repo.NewUserRepo(db)
	categories := repo.NewCategoryRepo(db)
	r := router.NewAPIEngine(router.Deps{
		Cfg:        cfg,
		Log:        log,
		JWT:        jwter,
		Accounts:   service.NewAccountService(users, jwter, store, notifier, log),
		Posts:      service.NewPostService(repo.NewPostRepo(db), categories, users),
		Categories: service.NewCachedCategories(categories, c, cfg.Cache.CategoriesTTL()),
		Tags:       repo.NewCRUD[domain.Tag](db),
		Roles:      repo.NewRoleRepo(db),
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("blog api starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/v1"),
		zap.Bool("swagger", cfg.App.Swagger),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("blog api stopped with error", zap.Error(err))
	}

	// 等待队列里的邮件发完
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := notifier.Close(sctx); err != nil {
		log.Warn("notifier close", zap.Error(err))
	}
	log.Info("blog api stopped")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
	if err != nil {
		l.Fatal("db open", zap.Error(err), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	}
	return db
}
