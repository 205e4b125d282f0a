package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Email    EmailConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	FrontendURL string
	CORSOrigins []string
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

type AuthConfig struct {
	BcryptCost    int
	RegisterRoles []string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type StorageConfig struct {
	Driver      string
	UploadDir   string
	URLPrefix   string
	MaxBytes    int64
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	StorageLocal = "local"
	StorageS3    = "s3"
)

// LoadConfig reads path (an env-format file, usually ".env") and the process
// environment. The file is optional; environment variables always win.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "course-platform")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("APP_FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_ISSUER", "course-platform")
	v.SetDefault("JWT_SESSION_TTL", "168h")
	v.SetDefault("JWT_RESET_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("AUTH_REGISTER_ROLES", "student,instructor")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("STORAGE_DRIVER", StorageLocal)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("S3_REGION", "us-east-1")

	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	v.AutomaticEnv()

	frontendURL := strings.TrimRight(v.GetString("APP_FRONTEND_URL"), "/")
	origins := splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{frontendURL}
	}

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			FrontendURL: frontendURL,
			CORSOrigins: origins,
		},
		Server: ServerConfig{
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("DB_DRIVER")),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Issuer:     v.GetString("JWT_ISSUER"),
			SessionTTL: v.GetDuration("JWT_SESSION_TTL"),
			ResetTTL:   v.GetDuration("JWT_RESET_TTL"),
		},
		Auth: AuthConfig{
			BcryptCost:    v.GetInt("BCRYPT_COST"),
			RegisterRoles: splitList(v.GetString("AUTH_REGISTER_ROLES")),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
			UploadDir:   v.GetString("UPLOAD_DIR"),
			URLPrefix:   strings.TrimRight(v.GetString("UPLOAD_URL_PREFIX"), "/"),
			MaxBytes:    v.GetInt64("UPLOAD_MAX_BYTES"),
			S3Bucket:    v.GetString("S3_BUCKET"),
			S3Region:    v.GetString("S3_REGION"),
			S3Endpoint:  v.GetString("S3_ENDPOINT"),
			S3AccessKey: v.GetString("S3_ACCESS_KEY"),
			S3SecretKey: v.GetString("S3_SECRET_KEY"),
			S3PublicURL: strings.TrimRight(v.GetString("S3_PUBLIC_URL"), "/"),
		},
	}

	return config, nil
}

// Validate reports the first misconfiguration that must stop the process.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.SessionTTL <= 0 || c.JWT.ResetTTL <= 0 {
		return errors.New("JWT_SESSION_TTL and JWT_RESET_TTL must be positive")
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if len(c.Auth.RegisterRoles) == 0 {
		return errors.New("AUTH_REGISTER_ROLES must list at least one role")
	}
	for _, role := range c.Auth.RegisterRoles {
		if role != "student" && role != "instructor" {
			return fmt.Errorf("AUTH_REGISTER_ROLES contains unknown role %q", role)
		}
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
