// Package api contains all endpoints available
package api

import (
	"bitwise74/resource-api/db"
	"bitwise74/resource-api/middleware"
	"bitwise74/resource-api/repository"
	"bitwise74/resource-api/security"
	"bitwise74/resource-api/service"
	"bitwise74/resource-api/storage"
	"context"
	"fmt"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const jsonBodyLimit = 1 << 20

// Config holds everything the router needs besides the database
type Config struct {
	JWTSecret       string
	JWTTTL          time.Duration
	MaxUploadSize   int64
	AllowedTypes    []string
	RateLimit       int
	CORSOrigins     []string
	SecureCookies   bool
	Turnstile       bool
	TurnstileSecret string
	// Defaults to an in-memory store
	Cache persist.CacheStore
	// Defaults to argon2id with the production parameters
	Hasher service.Hasher
}

type API struct {
	DB         *gorm.DB
	Router     *gin.Engine
	Auth       *service.Auth
	Resources  *service.Resources
	Categories *service.Categories
	Tags       *service.Tags
	Files      *service.Files

	cache         persist.CacheStore
	maxUploadSize int64
	secureCookies bool
}

// NewRouter wires the API from the loaded viper config
func NewRouter() (*API, error) {
	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	// Left nil for the database backend, the file service then stores bytes inline
	var blobs service.BlobStore
	if viper.GetString("storage.type") == "s3" {
		s3, err := storage.NewS3(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		blobs = s3
	}

	store, err := newCacheStore()
	if err != nil {
		return nil, err
	}

	return New(conn, blobs, Config{
		JWTSecret:       viper.GetString("jwt.secret"),
		JWTTTL:          viper.GetDuration("jwt.ttl"),
		MaxUploadSize:   viper.GetInt64("upload.max_size"),
		AllowedTypes:    viper.GetStringSlice("upload.allowed_types"),
		RateLimit:       viper.GetInt("security.rate_limit"),
		CORSOrigins:     viper.GetStringSlice("host.cors_origins"),
		SecureCookies:   viper.GetBool("host.ssl.enabled"),
		Turnstile:       viper.GetBool("turnstile.enabled"),
		TurnstileSecret: viper.GetString("turnstile.secret_token"),
		Cache:           store,
	}), nil
}

func newCacheStore() (persist.CacheStore, error) {
	if viper.GetString("cache.type") != "redis" {
		return persist.NewMemoryStore(time.Minute), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("cache.redis_addr"),
		Password: viper.GetString("cache.redis_password"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis, %w", err)
	}

	return persist.NewRedisStore(client), nil
}

// New builds the services on top of conn and registers every route
func New(conn *gorm.DB, blobs service.BlobStore, cfg Config) *API {
	users := repository.NewUsers(conn)
	categories := repository.NewCategories(conn)
	tags := repository.NewTags(conn)
	resources := repository.NewResources(conn)
	files := repository.NewFiles(conn)

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = security.NewArgon2id()
	}

	a := &API{
		DB:            conn,
		Auth:          service.NewAuth(users, hasher, security.NewTokens(cfg.JWTSecret, cfg.JWTTTL)),
		Resources:     service.NewResources(resources, categories, tags, files),
		Categories:    service.NewCategories(categories),
		Tags:          service.NewTags(tags),
		Files:         service.NewFiles(files, blobs, cfg.MaxUploadSize, cfg.AllowedTypes),
		cache:         cfg.Cache,
		maxUploadSize: cfg.MaxUploadSize,
		secureCookies: cfg.SecureCookies,
	}

	if a.cache == nil {
		a.cache = persist.NewMemoryStore(time.Minute)
	}

	a.routes(cfg)
	return a
}

func (a *API) routes(cfg Config) {
	useFieldTags()

	router := gin.New()
	a.Router = router

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// No configured origins means same-origin only
	if len(cfg.CORSOrigins) == 0 {
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}

	router.Use(
		cors.New(corsConfig),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 8 << 20

	jwt := middleware.NewJWTMiddleware(a.Auth)
	turnstile := middleware.NewTurnstileMiddleware(cfg.Turnstile, cfg.TurnstileSecret)
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit,
		Burst:             cfg.RateLimit * 2,
	})
	jsonBody := middleware.BodySizeLimiter(jsonBodyLimit)

	main := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
		main.GET("/heartbeat", a.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		main.GET("/validate", jwt, a.Validate)

		// GET /api/resource-types	-> Lists resource types and their content fields
		main.GET("/resource-types", jwt, cacheFor(a.cache, 60*60), a.ResourceTypes)
	}

	auth := main.Group("/auth", jsonBody)
	{
		// POST /api/auth/register	-> Registers a new user and returns a token
		auth.POST("/register", turnstile, a.AuthRegister)

		// POST /api/auth/login		-> Logs in a user and returns a token
		auth.POST("/login", turnstile, a.AuthLogin)

		// GET /api/auth/me		-> Returns the profile of the caller
		auth.GET("/me", jwt, a.AuthMe)
	}

	users := main.Group("/users", jwt, jsonBody)
	{
		// PATCH /api/users/me		-> Updates the caller's email, password or name
		users.PATCH("/me", a.UserUpdate)
	}

	categories := main.Group("/categories", jwt, jsonBody)
	{
		categories.GET("", a.CategoryList)
		categories.POST("", a.CategoryCreate)
		categories.GET("/:id", a.CategoryFetch)
		categories.PUT("/:id", a.CategoryEdit)
		categories.DELETE("/:id", a.CategoryDelete)
	}

	tags := main.Group("/tags", jwt, jsonBody)
	{
		// GET /api/tags?search=	-> Lists tags, optionally filtered by name
		tags.GET("", a.TagList)
		tags.POST("", a.TagCreate)
		tags.GET("/:id", a.TagFetch)
		tags.DELETE("/:id", a.TagDelete)
	}

	resources := main.Group("/resources", jwt, jsonBody)
	{
		// GET /api/resources		-> Filtered, sorted and paginated list
		resources.GET("", a.ResourceList)
		resources.POST("", a.ResourceCreate)
		resources.GET("/:id", a.ResourceFetch)
		resources.PUT("/:id", a.ResourceEdit)
		resources.DELETE("/:id", a.ResourceDelete)

		// PATCH /api/resources/:id/favorite	-> Flips the favorite flag
		resources.PATCH("/:id/favorite", a.ResourceFavorite)
	}

	files := main.Group("/files", jwt)
	{
		// POST /api/files         	-> Uploads a file, identical bytes return the existing one
		files.POST("", middleware.BodySizeLimiter(a.maxUploadSize+jsonBodyLimit), a.FileUpload)

		// GET /api/files/:id		-> Serves the raw file
		files.GET("/:id", a.FileFetch)

		// GET /api/files/:id/meta	-> Returns the metadata of a file
		files.GET("/:id/meta", a.FileMeta)

		// DELETE /api/files/:id	-> Deletes a file owned by a user
		files.DELETE("/:id", a.FileDelete)
	}
}

func cacheFor(store persist.CacheStore, sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
