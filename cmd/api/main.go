package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/jeopardy-api/internal/config"
	"github.com/yourusername/jeopardy-api/internal/handler"
	"github.com/yourusername/jeopardy-api/internal/metrics"
	"github.com/yourusername/jeopardy-api/internal/middleware"
	"github.com/yourusername/jeopardy-api/internal/questionbank"
	pgRepo "github.com/yourusername/jeopardy-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/jeopardy-api/internal/repository/redis"
	"github.com/yourusername/jeopardy-api/internal/service"
	ws "github.com/yourusername/jeopardy-api/internal/websocket"
	"github.com/yourusername/jeopardy-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// PostgreSQL: архив завершенных игр
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.Database.LogLevel)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Redis: кеш снимков, маркеры архивирования, rate limit
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient, cfg.Redis.KeyPrefix)
	if err != nil {
		log.Printf("Failed to initialize cache repository: %v", err)
		os.Exit(1)
	}
	resultRepo := pgRepo.NewGameResultRepo(db)

	appMetrics := metrics.NewMetrics()

	// WebSocket: одна комната на игру
	wsHub := ws.NewHub(cfg.WebSocket.Buffers.BroadcastBuffer, appMetrics)
	go wsHub.Run()
	wsManager := ws.NewManager(wsHub)

	// Сервисы
	gameConfig := cfg.Game.ManagerConfig()
	gameService := service.NewGameService(gameConfig, service.GameServiceDeps{
		CacheRepo:   cacheRepo,
		ResultRepo:  resultRepo,
		Broadcaster: wsManager,
		Metrics:     appMetrics,
		SnapshotTTL: time.Duration(cfg.Game.SnapshotTTLMin) * time.Minute,
		MaxSessions: cfg.Game.MaxSessions,
	})
	resultService := service.NewResultService(resultRepo)

	// Обработчики
	ladders := questionbank.Ladders{
		Jeopardy:       gameConfig.JeopardyValues,
		DoubleJeopardy: gameConfig.DoubleJeopardyValues,
	}
	clientConfig := ws.ClientConfig{
		BufferSize:     cfg.WebSocket.Buffers.ClientSendBuffer,
		PingInterval:   time.Duration(cfg.WebSocket.Ping.Interval) * time.Second,
		PongWait:       time.Duration(cfg.WebSocket.Ping.Timeout) * time.Second,
		WriteWait:      time.Duration(cfg.WebSocket.Limits.WriteWait) * time.Second,
		MaxMessageSize: int64(cfg.WebSocket.Limits.MaxMessageSize),
	}
	routes := handler.Routes{
		Game:   handler.NewGameHandler(gameService),
		Board:  handler.NewBoardHandler(gameService, ladders, cfg.Server.MaxUploadMB),
		Result: handler.NewResultHandler(resultService),
		WS:     handler.NewWSHandler(wsHub, wsManager, gameService, clientConfig, cfg.Server.AllowedOrigins),
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(redisClient)
		window := time.Duration(cfg.RateLimit.WindowSec) * time.Second
		routes.CommandMiddleware = []gin.HandlerFunc{
			limiter.LimitByIP(middleware.CommandRateLimitConfig(cfg.RateLimit.Requests, window)),
		}
		routes.UploadMiddleware = []gin.HandlerFunc{
			limiter.Limit(middleware.UploadRateLimitConfig()),
		}
	}

	// Роутер
	isProduction := os.Getenv("GIN_MODE") == "release"
	router := gin.Default()

	// В production не доверяем прокси-заголовкам, в разработке доверяем localhost
	trustedProxies := []string{"127.0.0.1", "::1"}
	if isProduction {
		trustedProxies = nil
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", handler.HostKeyHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Metrics.Enabled {
		router.Use(appMetrics.GinMiddleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(appMetrics.Handler()))
	}

	routes.Register(router)
	router.GET("/ws/health", gin.WrapF(ws.HealthCheckHandler(wsManager)))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"active_sessions": gameService.ActiveSessions(),
		})
	})

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Сначала таймеры игр, затем хаб
	gameService.Shutdown()
	wsHub.Stop()

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
	if sqlDB, err := database.GetSQLDB(db); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	log.Println("Server exited properly")
}
