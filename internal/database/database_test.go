package database

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"

	"moneybot/internal/config"
	"moneybot/internal/models"
)

func sqliteConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "ledger.db")}
}

func TestNewConfig(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		cfg, err := NewConfig(&config.Config{
			DBDriver: "postgres", DBHost: "db", DBPort: "5432",
			DBUser: "bot", DBPassword: "p@ss word", DBName: "ledger", DBSSLMode: "disable",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := "host=db port=5432 user=bot password=p@ss word dbname=ledger sslmode=disable"; cfg.DSN() != want {
			t.Errorf("DSN = %q, want %q", cfg.DSN(), want)
		}
		if want := "postgres://bot:p%40ss%20word@db:5432/ledger?sslmode=disable"; cfg.URL() != want {
			t.Errorf("URL = %q, want %q", cfg.URL(), want)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg, err := NewConfig(&config.Config{DBDriver: "sqlite", SQLitePath: "/tmp/x.db"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(cfg.DSN(), "/tmp/x.db?") {
			t.Errorf("unexpected DSN %q", cfg.DSN())
		}
	})

	t.Run("unknown_driver", func(t *testing.T) {
		if _, err := NewConfig(&config.Config{DBDriver: "oracle"}); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestRunMigrations(t *testing.T) {
	t.Run("creates_schema_and_seeds_currencies", func(t *testing.T) {
		m, err := NewManager(sqliteConfig(t))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer m.Close()

		if err := m.RunMigrations(); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		if err := m.RunMigrations(); err != nil {
			t.Fatalf("second migrate should be a no-op: %v", err)
		}

		var count int64
		if err := m.DB().Model(&models.Currency{}).Count(&count).Error; err != nil {
			t.Fatalf("count currencies: %v", err)
		}
		if count == 0 {
			t.Fatal("expected seeded currencies")
		}

		var usd models.Currency
		if err := m.DB().Where("iso_code = ?", "USD").First(&usd).Error; err != nil {
			t.Fatalf("expected USD to be seeded: %v", err)
		}

		user := &models.User{Name: "ann", ChatID: 1}
		if err := m.DB().Create(user).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
		dup := &models.User{Name: "bob", ChatID: 1}
		if err := m.DB().Create(dup).Error; err == nil {
			t.Error("expected unique chat_id to be enforced")
		}
	})

	t.Run("down_removes_schema", func(t *testing.T) {
		cfg := sqliteConfig(t)

		mig, err := NewMigrator(cfg)
		if err != nil {
			t.Fatalf("migrator: %v", err)
		}
		defer CloseMigrator(mig)

		if err := mig.Up(); err != nil {
			t.Fatalf("up: %v", err)
		}
		version, dirty, err := mig.Version()
		if err != nil || dirty || version != 2 {
			t.Fatalf("expected clean version 2, got %d dirty=%v err=%v", version, dirty, err)
		}

		if err := mig.Down(); err != nil {
			t.Fatalf("down: %v", err)
		}
		if _, _, err := mig.Version(); !errors.Is(err, migrate.ErrNilVersion) {
			t.Errorf("expected no version after down, got %v", err)
		}
	})
}
