package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultMigrationsSource — папка migrations в рабочем каталоге приложения
const DefaultMigrationsSource = "file://migrations"

// ParseLogLevel переводит уровень из конфигурации в уровень логгера GORM.
// Неизвестное значение дает Warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// NewPostgresDB создает новое подключение к PostgreSQL
func NewPostgresDB(dsn string, logLevel string) (*gorm.DB, error) {
	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(ParseLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// NewMigrator создает экземпляр migrate поверх открытого соединения
func NewMigrator(sqlDB *sql.DB, source string) (*migrateV4.Migrate, error) {
	if source == "" {
		source = DefaultMigrationsSource
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("не удалось проверить подключение к БД перед миграцией: %w", err)
	}

	driver, err := migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер postgres для migrate: %w", err)
	}

	m, err := migrateV4.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр migrate: %w", err)
	}
	return m, nil
}

// MigrateDB применяет SQL-миграции из source (по умолчанию file://migrations)
func MigrateDB(db *gorm.DB, source string) error {
	log.Println("[Database] Применение миграций...")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("не удалось получить *sql.DB из *gorm.DB: %w", err)
	}

	m, err := NewMigrator(sqlDB, source)
	if err != nil {
		return err
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Println("[Database] Изменений в миграциях нет, схема актуальна")
	case err != nil:
		return fmt.Errorf("ошибка применения миграций 'up': %w", err)
	default:
		log.Println("[Database] Миграции успешно применены")
	}
	return nil
}

// GetSQLDB возвращает базовый *sql.DB из *gorm.DB
func GetSQLDB(gormDB *gorm.DB) (*sql.DB, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB, nil
}
