package config

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q", cfg.Server.Port)
	}
	if cfg.Auth.OwnerUsername != "owner" || cfg.Auth.StaffUsername != "staff" {
		t.Errorf("Auth = %+v", cfg.Auth)
	}
	if !cfg.Auth.UsesDefaults() {
		t.Error("UsesDefaults() = false with default passwords")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_LIFETIME", "15m")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("OWNER_PASSWORD", "s3cret")
	t.Setenv("STAFF_PASSWORD", "an0ther")
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DB.Host != "db.internal" || cfg.DB.MaxOpenConns != 7 {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.DB.ConnMaxLifetime != 15*time.Minute {
		t.Errorf("ConnMaxLifetime = %v", cfg.DB.ConnMaxLifetime)
	}
	if cfg.DB.LogLevel != logger.Silent {
		t.Errorf("LogLevel = %v", cfg.DB.LogLevel)
	}
	if cfg.JWT.ExpirationHours != 12 {
		t.Errorf("ExpirationHours = %d, want default on parse failure", cfg.JWT.ExpirationHours)
	}
	if cfg.Auth.UsesDefaults() {
		t.Error("UsesDefaults() = true with overridden passwords")
	}
}

func TestLoadRejectsDefaultKeyInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "billingsecretkey")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted the default signing key in production")
	}
}

func TestGetDSN(t *testing.T) {
	c := DBConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	want := "host=h port=5432 user=u password=p dbname=d sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
