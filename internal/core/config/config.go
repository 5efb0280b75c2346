package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	MaxBodyBytes      int64
	RequestTimeoutSec int
	RateLimitRPS      float64
	RateLimitBurst    int
	MaxConcurrent     int64
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name    string
	Env     string
	HTTP    HTTP
	Admin   AdminHTTP
	Swagger bool
}

type FileRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileRotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

// APIKey 请求网关使用的查询参数名与共享密钥
type APIKey struct {
	Name  string
	Value string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Cache struct {
	CategoriesTTLMin int
}

func (c Cache) CategoriesTTL() time.Duration {
	return time.Duration(c.CategoriesTTLMin) * time.Minute
}

type SMTP struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Workers   int
	QueueSize int
}

type LocalStorage struct {
	Dir     string
	BaseURL string
}

type S3Storage struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

type Storage struct {
	Driver string // local / s3
	Local  LocalStorage
	S3     S3Storage
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	APIKey  APIKey `mapstructure:"apikey"`
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Cache   Cache
	SMTP    SMTP
	Storage Storage
}

var ErrMissingJWTSecret = errors.New("config: jwt.secret is required")

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return ErrMissingJWTSecret
	}
	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("config: unsupported storage.driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "s3" && c.Storage.S3.Bucket == "" {
		return errors.New("config: storage.s3.bucket is required")
	}
	return nil
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.App.Env, "production") }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blog-api")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 15)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.maxbodybytes", 4<<20)
	v.SetDefault("app.http.requesttimeoutsec", 10)
	v.SetDefault("app.http.ratelimitrps", 200)
	v.SetDefault("app.http.ratelimitburst", 400)
	v.SetDefault("app.http.maxconcurrent", 512)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.swagger", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "blog-api")
	v.SetDefault("jwt.accesstokenttlmin", 480)

	v.SetDefault("apikey.name", "api_key")
	v.SetDefault("apikey.value", "")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.categoriesttlmin", 60)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "no-reply@blog.local")
	v.SetDefault("smtp.workers", 2)
	v.SetDefault("smtp.queuesize", 64)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.dir", "./uploads")
	v.SetDefault("storage.local.baseurl", "/uploads")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.accesskey", "")
	v.SetDefault("storage.s3.secretkey", "")
	v.SetDefault("storage.s3.publicurl", "")
}

// load 文件不存在时只用默认值 + 环境变量
func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	c, err := load(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
