package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/workhub-app/workhub-api/config"
	"github.com/workhub-app/workhub-api/controllers"
	"github.com/workhub-app/workhub-api/middleware"
	"github.com/workhub-app/workhub-api/services"
	"github.com/workhub-app/workhub-api/store"
	"go.mongodb.org/mongo-driver/bson"
)

// shutdownTimeout bounds how long in-flight requests may finish on shutdown
const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting WorkHub API server...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server stopped")
}

// run wires the application and serves until ctx is cancelled. Connections
// opened here are closed before it returns.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SetConfig(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	cache := openWorkerCache(ctx, cfg)

	events, err := services.InitEventPublisher(cfg.RabbitMQURL, cfg.OrderEventsExchange)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Printf("Failed to close event publisher: %v", err)
		}
	}()

	s3Service, err := services.InitS3Service(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize S3: %w", err)
	}
	images := services.InitImageService(s3Service)

	services.InitUserInfoProvider(cfg)
	initServices(cfg, st, images, cache, events)

	router := setupRouter(middleware.EnsureValidToken(cfg), cfg.CORSAllowedOrigins)

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err)
	}
	log.Printf("Server is running on http://localhost:%s", cfg.Port)
	return serve(ctx, &http.Server{Handler: router}, ln)
}

// serve runs srv on ln until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	log.Println("[SHUTDOWN] Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// openStore connects the configured backend and prepares its schema
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseDriver == config.DriverMongo {
		if err := config.ConnectMongo(ctx, cfg); err != nil {
			return nil, err
		}
		mongoStore := store.NewMongoStore(config.GetMongoDB())
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		log.Println("MongoDB indexes ensured")
		return mongoStore, nil
	}

	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := store.AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Println("Database migration completed successfully")
	return store.NewGormStore(db), nil
}

// openWorkerCache returns the Redis directory cache, or nil to read the
// store directly
func openWorkerCache(ctx context.Context, cfg *config.Config) services.WorkerCache {
	if cfg.RedisURL == "" {
		return nil
	}

	client, err := services.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("[CACHE] Redis unavailable, worker directory is uncached: %v", err)
		return nil
	}
	log.Printf("[CACHE] Caching worker directory for %s", cfg.WorkerCacheTTL)
	return services.NewRedisWorkerCache(client, cfg.WorkerCacheTTL)
}

// initServices installs the global services used by the controllers
func initServices(cfg *config.Config, st store.Store, images services.ImageService, cache services.WorkerCache, events services.EventPublisher) {
	services.InitBookingService(st, st, events)
	services.InitWorkerOrderService(st, st, events)
	services.InitUserOrderService(st, events, cfg.MarkReviewedOnRating)
	services.InitAccountService(st, images, cache)
	services.InitWorkerDirectoryService(st, st, images, cache)
	services.InitPostService(st, st, images)
}

// setupRouter builds the engine. auth guards every route except health,
// database status and metrics.
func setupRouter(auth gin.HandlerFunc, allowedOrigins []string) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(corsConfig(allowedOrigins)))
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	controllers.RegisterRoutes(v1.Group("", auth))
	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "WorkHub API is running",
	})
}

// databaseStatus checks database connectivity and returns table or
// collection names
func databaseStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if mongoDB := config.GetMongoDB(); mongoDB != nil && config.GetDB() == nil {
		if err := mongoDB.Client().Ping(ctx, nil); err != nil {
			databaseError(c, "DATABASE_CONNECTION_ERROR", "Database connection failed")
			return
		}
		collections, err := mongoDB.ListCollectionNames(ctx, bson.D{})
		if err != nil {
			databaseError(c, "DATABASE_QUERY_ERROR", "Failed to query collections")
			return
		}
		databaseConnected(c, collections)
		return
	}

	db := config.GetDB()
	if db == nil {
		databaseError(c, "DATABASE_ERROR", "Database is not configured")
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		databaseError(c, "DATABASE_ERROR", "Failed to get database instance")
		return
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		databaseError(c, "DATABASE_CONNECTION_ERROR", "Database connection failed")
		return
	}

	tables, err := db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		databaseError(c, "DATABASE_QUERY_ERROR", "Failed to query tables")
		return
	}

	databaseConnected(c, tables)
}

func databaseConnected(c *gin.Context, tables []string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}

func databaseError(c *gin.Context, code, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
