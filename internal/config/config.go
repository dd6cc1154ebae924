package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreBackendSQLite = "sqlite"
	StoreBackendMongo  = "mongo"

	UploadBackendLocal  = "local"
	UploadBackendPreset = "preset"
	UploadBackendMinio  = "minio"
)

// AppConfig 汇总运行服务所需的基础配置。
// 涉及密钥与外部服务地址的配置项没有默认值，缺失时 Load 直接报错。
type AppConfig struct {
	ListenAddr    string        `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabasePath  string        `env:"DATABASE_PATH" envDefault:"artfolio.db"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`
	GinMode       string        `env:"GIN_MODE" envDefault:"release"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"json"`

	StoreBackend  string `env:"STORE_BACKEND" envDefault:"sqlite"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"artfolio"`

	UploadBackend  string `env:"UPLOAD_BACKEND" envDefault:"local"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"web/static/uploads"`
	UploadURLPath  string `env:"UPLOAD_URL_PATH" envDefault:"/static/uploads"`
	UploadEndpoint string `env:"UPLOAD_ENDPOINT"`
	UploadPreset   string `env:"UPLOAD_PRESET"`
	UploadMaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"20971520"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"artfolio"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"true"`
	MinioPublicURL string `env:"MINIO_PUBLIC_URL"`

	ArtworkWritesRequireAuth bool     `env:"ARTWORK_WRITES_REQUIRE_AUTH" envDefault:"true"`
	DefaultUserRole          string   `env:"DEFAULT_USER_ROLE" envDefault:"member"`
	AllowedOrigins           []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Load 从环境变量读取应用配置并校验必填项。
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// LoadStorage 只读取存储相关配置，供不需要会话密钥的命令行工具使用。
func LoadStorage() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.validateStore(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.SessionSecret = strings.TrimSpace(c.SessionSecret)
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.UploadBackend = strings.ToLower(strings.TrimSpace(c.UploadBackend))
	c.DefaultUserRole = strings.ToLower(strings.TrimSpace(c.DefaultUserRole))
	c.UploadURLPath = "/" + strings.Trim(strings.TrimSpace(c.UploadURLPath), "/")

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.AllowedOrigins = origins
}

// Validate 检查按后端类型必须提供的配置项。
func (c AppConfig) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.DefaultUserRole != "admin" && c.DefaultUserRole != "member" {
		return fmt.Errorf("DEFAULT_USER_ROLE must be admin or member, got %q", c.DefaultUserRole)
	}
	if err := c.validateStore(); err != nil {
		return err
	}

	switch c.UploadBackend {
	case UploadBackendLocal:
		if strings.TrimSpace(c.UploadDir) == "" {
			return errors.New("UPLOAD_DIR is required for the local upload backend")
		}
	case UploadBackendPreset:
		if strings.TrimSpace(c.UploadEndpoint) == "" {
			return errors.New("UPLOAD_ENDPOINT is required for the preset upload backend")
		}
		if strings.TrimSpace(c.UploadPreset) == "" {
			return errors.New("UPLOAD_PRESET is required for the preset upload backend")
		}
	case UploadBackendMinio:
		if strings.TrimSpace(c.MinioEndpoint) == "" {
			return errors.New("MINIO_ENDPOINT is required for the minio upload backend")
		}
		if strings.TrimSpace(c.MinioAccessKey) == "" || strings.TrimSpace(c.MinioSecretKey) == "" {
			return errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio upload backend")
		}
		if strings.TrimSpace(c.MinioPublicURL) == "" {
			return errors.New("MINIO_PUBLIC_URL is required for the minio upload backend")
		}
	default:
		return fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.UploadBackend)
	}

	return nil
}

func (c AppConfig) validateStore() error {
	switch c.StoreBackend {
	case StoreBackendSQLite:
		return nil
	case StoreBackendMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("MONGO_URI is required for the mongo store backend")
		}
		return nil
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", c.StoreBackend)
	}
}
