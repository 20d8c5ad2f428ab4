package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"

	"github.com/yourusername/jeopardy-api/internal/config"
	"github.com/yourusername/jeopardy-api/pkg/database"
)

// Обслуживание схемы архива игр вне сервера:
//
//	migrate -action up
//	migrate -action down -steps 1
//	migrate -action force -version 1   (снять dirty-состояние после сбоя)
//	migrate -action version
func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "config/config.yaml"), "путь к файлу конфигурации")
	action := flag.String("action", "up", "up | down | force | version")
	steps := flag.Int("steps", 0, "количество шагов для down (0: все)")
	version := flag.Int("version", -1, "версия для force")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	m, err := database.NewMigrator(db, cfg.Database.MigrationsPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(m, *action, *steps, *version); err != nil {
		log.Fatalf("Migration %s failed: %v", *action, err)
	}
}

func run(m *migrate.Migrate, action string, steps, version int) error {
	switch action {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		if steps > 0 {
			return ignoreNoChange(m.Steps(-steps))
		}
		return ignoreNoChange(m.Down())
	case "force":
		if version < 0 {
			return fmt.Errorf("-version is required for force")
		}
		fmt.Printf("Forcing migration version to %d...\n", version)
		return m.Force(version)
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("No migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Version: %d (dirty: %t)\n", v, dirty)
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No change")
		return nil
	}
	if err == nil {
		fmt.Println("Success")
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
