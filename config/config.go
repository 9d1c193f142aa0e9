// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"bitwise74/resource-api/util"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configDir = pflag.String("config", ".", "Directory containing config.toml")
	envFile   = pflag.String("env-file", ".env", "Optional .env file loaded before anything else")

	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"database", "s3"}
	validDBTypes      = []string{"sqlite", "postgres", "memory"}
	validCacheTypes   = []string{"memory", "redis"}
)

var ErrNoJWTSecret = errors.New("no jwt secret provided")

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s, %w", *envFile, err)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(*configDir)

	v.AutomaticEnv()

	bindEnvs()
	setDefaults()

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if err := makeLogger(v.GetString("app.log_level")); err != nil {
		return err
	}

	err := validate()
	if errors.Is(err, ErrNoJWTSecret) {
		secret, _ := util.GenerateToken(64)
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + secret + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}
	if err != nil {
		return err
	}

	if len(v.GetStringSlice("upload.allowed_types")) == 0 {
		zap.L().Warn("No upload.allowed_types specified, any file type will be accepted")
	}

	if !v.GetBool("turnstile.enabled") {
		zap.L().Warn("Cloudflare's turnstile is disabled. Register and login won't be guarded against bots")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

func bindEnvs() {
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors_origins", "HOST_CORS_ORIGINS")
	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH")

	v.BindEnv("db.type", "DB_TYPE")
	v.BindEnv("db.path", "DB_PATH")
	v.BindEnv("db.dsn", "DB_DSN")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.ttl", "JWT_TTL")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")

	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")
	v.BindEnv("upload.allowed_types", "UPLOAD_ALLOWED_TYPES")

	v.BindEnv("storage.type", "STORAGE_TYPE")

	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")

	v.BindEnv("cache.type", "CACHE_TYPE")
	v.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	v.BindEnv("cache.redis_password", "CACHE_REDIS_PASSWORD")

	v.BindEnv("turnstile.enabled", "TURNSTILE_ENABLED")
	v.BindEnv("turnstile.secret_token", "TURNSTILE_SECRET_TOKEN")
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.type", "sqlite")
	v.SetDefault("db.path", "database.db")

	v.SetDefault("jwt.ttl", "720h")

	v.SetDefault("security.rate_limit", 20)

	v.SetDefault("upload.max_size", 10)
	v.SetDefault("upload.allowed_types", []string{})

	v.SetDefault("storage.type", "database")
	v.SetDefault("s3.region", "auto")

	v.SetDefault("cache.type", "memory")

	v.SetDefault("turnstile.enabled", false)
}

// validate checks the loaded values. It doesn't touch anything outside of
// viper so it can run in tests.
func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if v.GetString("jwt.secret") == "" {
		return ErrNoJWTSecret
	}

	if v.GetDuration("jwt.ttl") <= 0 {
		return errors.New("jwt.ttl must be a positive duration")
	}

	if v.GetInt("security.rate_limit") < 0 {
		return errors.New("security.rate_limit can't be negative")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	switch dbType := v.GetString("db.type"); {
	case !slices.Contains(validDBTypes, dbType):
		return errors.New("invalid database type provided")
	case dbType == "postgres" && v.GetString("db.dsn") == "":
		return errors.New("db.dsn is required for postgres")
	case dbType == "sqlite" && v.GetString("db.path") == "":
		return errors.New("db.path is required for sqlite")
	}

	storageType := v.GetString("storage.type")
	if !slices.Contains(validStorageTypes, storageType) {
		return errors.New("invalid storage type provided")
	}

	if storageType == "s3" {
		if v.GetString("s3.access_key_id") == "" {
			return errors.New("access key id can't be empty")
		}
		if v.GetString("s3.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("s3.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
	}

	cacheType := v.GetString("cache.type")
	if !slices.Contains(validCacheTypes, cacheType) {
		return errors.New("invalid cache type provided")
	}

	if cacheType == "redis" && v.GetString("cache.redis_addr") == "" {
		return errors.New("cache.redis_addr is required for the redis cache")
	}

	if v.GetBool("turnstile.enabled") && v.GetString("turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}
