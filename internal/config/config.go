package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
	"github.com/yourusername/jeopardy-api/internal/domain/entity"
	"github.com/yourusername/jeopardy-api/internal/service/gamemanager"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	WebSocket WebSocketConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Game      GameConfig
	Metrics   MetricsConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	// LogLevel — уровень логирования GORM: silent, error, warn, info
	LogLevel string `mapstructure:"log_level"`
	// MigrationsPath — источник миграций для golang-migrate
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс

	// KeyPrefix добавляется ко всем ключам кеша
	KeyPrefix string `mapstructure:"key_prefix"`
}

// WebSocketConfig содержит настройки WebSocket-подсистемы
type WebSocketConfig struct {
	Buffers BuffersConfig
	Ping    PingConfig
	Limits  LimitsConfig
}

// BuffersConfig содержит настройки буферов
type BuffersConfig struct {
	ClientSendBuffer int `mapstructure:"client_send_buffer"`
	BroadcastBuffer  int `mapstructure:"broadcast_buffer"`
}

// PingConfig содержит настройки пингов (в секундах)
type PingConfig struct {
	Interval int
	Timeout  int
}

// LimitsConfig содержит настройки ограничений
type LimitsConfig struct {
	MaxMessageSize int `mapstructure:"max_message_size"`
	WriteWait      int `mapstructure:"write_wait"`
}

// RateLimitConfig — ограничение частоты командных запросов на IP
type RateLimitConfig struct {
	Enabled   bool
	Requests  int
	WindowSec int `mapstructure:"window_sec"`
}

// TeamConfig — команда состава по умолчанию
type TeamConfig struct {
	Name  string
	Color string
}

// GameConfig содержит правила игры и параметры сессий
type GameConfig struct {
	JeopardyValues             []int        `mapstructure:"jeopardy_values"`
	DoubleJeopardyValues       []int        `mapstructure:"double_jeopardy_values"`
	JeopardyWagerFloor         int          `mapstructure:"jeopardy_wager_floor"`
	DoubleJeopardyWagerFloor   int          `mapstructure:"double_jeopardy_wager_floor"`
	JeopardyDailyDoubles       int          `mapstructure:"jeopardy_daily_doubles"`
	DoubleJeopardyDailyDoubles int          `mapstructure:"double_jeopardy_daily_doubles"`
	QuestionTimerSec           int          `mapstructure:"question_timer_sec"`
	FinalTimerSec              int          `mapstructure:"final_timer_sec"`
	DefaultTeams               []TeamConfig `mapstructure:"default_teams"`
	SnapshotTTLMin             int          `mapstructure:"snapshot_ttl_min"`
	MaxSessions                int          `mapstructure:"max_sessions"`
}

// MetricsConfig — настройки Prometheus
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// ManagerConfig переводит настройки игры в конфигурацию gamemanager.
// Незаданные значения берутся из gamemanager.DefaultConfig.
func (g GameConfig) ManagerConfig() gamemanager.Config {
	cfg := gamemanager.DefaultConfig()
	if len(g.JeopardyValues) > 0 {
		cfg.JeopardyValues = append([]int(nil), g.JeopardyValues...)
	}
	if len(g.DoubleJeopardyValues) > 0 {
		cfg.DoubleJeopardyValues = append([]int(nil), g.DoubleJeopardyValues...)
	}
	if g.JeopardyWagerFloor > 0 {
		cfg.JeopardyWagerFloor = g.JeopardyWagerFloor
	}
	if g.DoubleJeopardyWagerFloor > 0 {
		cfg.DoubleJeopardyWagerFloor = g.DoubleJeopardyWagerFloor
	}
	if g.JeopardyDailyDoubles >= 0 {
		cfg.JeopardyDailyDoubles = g.JeopardyDailyDoubles
	}
	if g.DoubleJeopardyDailyDoubles >= 0 {
		cfg.DoubleJeopardyDailyDoubles = g.DoubleJeopardyDailyDoubles
	}
	if g.QuestionTimerSec > 0 {
		cfg.QuestionTimer = time.Duration(g.QuestionTimerSec) * time.Second
	}
	if g.FinalTimerSec > 0 {
		cfg.FinalTimer = time.Duration(g.FinalTimerSec) * time.Second
	}
	if len(g.DefaultTeams) > 0 {
		cfg.DefaultTeams = make([]entity.Team, 0, len(g.DefaultTeams))
		for _, t := range g.DefaultTeams {
			cfg.DefaultTeams = append(cfg.DefaultTeams, entity.Team{Name: t.Name, Color: t.Color})
		}
	}
	return cfg
}

// setDefaults задаёт значения, при которых сервер запускается без файла конфигурации
func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	vip.SetDefault("server.max_upload_mb", 10)

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.log_level", "warn")
	vip.SetDefault("database.migrations_path", "file://migrations")

	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")
	vip.SetDefault("redis.key_prefix", "jeopardy:")

	vip.SetDefault("websocket.buffers.client_send_buffer", 64)
	vip.SetDefault("websocket.buffers.broadcast_buffer", 256)
	vip.SetDefault("websocket.ping.interval", 30)
	vip.SetDefault("websocket.ping.timeout", 60)
	vip.SetDefault("websocket.limits.max_message_size", 4096)
	vip.SetDefault("websocket.limits.write_wait", 10)

	vip.SetDefault("rate_limit.enabled", true)
	vip.SetDefault("rate_limit.requests", 120)
	vip.SetDefault("rate_limit.window_sec", 60)

	vip.SetDefault("game.jeopardy_daily_doubles", 1)
	vip.SetDefault("game.double_jeopardy_daily_doubles", 2)
	vip.SetDefault("game.snapshot_ttl_min", 360)
	vip.SetDefault("game.max_sessions", 100)

	vip.SetDefault("metrics.enabled", true)
	vip.SetDefault("metrics.path", "/metrics")
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	setDefaults(vip)

	// Привязываем переменные окружения ЯВНО
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	vip.BindEnv("database.log_level", "DATABASE_LOG_LEVEL")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	vip.BindEnv("metrics.enabled", "METRICS_ENABLED")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файл не обязателен: значения могут прийти из окружения и умолчаний
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else if os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не существует, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Rate Limit: %t (%d/%ds)", cfg.RateLimit.Enabled, cfg.RateLimit.Requests, cfg.RateLimit.WindowSec)
		log.Printf("-----------------------------------------")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	for _, v := range append(append([]int(nil), c.Game.JeopardyValues...), c.Game.DoubleJeopardyValues...) {
		if v <= 0 {
			return fmt.Errorf("game values must be positive, got %d", v)
		}
	}
	if c.Game.JeopardyDailyDoubles < 0 || c.Game.DoubleJeopardyDailyDoubles < 0 {
		return fmt.Errorf("daily double counts must not be negative")
	}
	for i, t := range c.Game.DefaultTeams {
		if t.Name == "" {
			return fmt.Errorf("default team #%d has an empty name", i+1)
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.WindowSec <= 0) {
		return fmt.Errorf("rate limit requests and window must be positive when enabled")
	}
	return nil
}
