package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type nestedConf struct {
	DSN  string `env:"TEST_ENVCONF_DSN"`
	Pool int    `env:"TEST_ENVCONF_POOL,optional"`
}

type testConf struct {
	Port     uint16        `env:"TEST_ENVCONF_PORT"`
	Level    slog.Level    `env:"TEST_ENVCONF_LEVEL"`
	Timeout  time.Duration `env:"TEST_ENVCONF_TIMEOUT"`
	Debug    bool          `env:"TEST_ENVCONF_DEBUG,optional"`
	Nested   nestedConf
	Untagged string
}

func TestLoad_FullConfig(t *testing.T) {
	t.Setenv("TEST_ENVCONF_PORT", "8080")
	t.Setenv("TEST_ENVCONF_LEVEL", "WARN")
	t.Setenv("TEST_ENVCONF_TIMEOUT", "1m30s")
	t.Setenv("TEST_ENVCONF_DEBUG", "true")
	t.Setenv("TEST_ENVCONF_DSN", "postgres://localhost/db")
	t.Setenv("TEST_ENVCONF_POOL", "12")

	cfg := new(testConf)
	if err := Load(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port: want 8080, got %d", cfg.Port)
	}
	if cfg.Level != slog.LevelWarn {
		t.Errorf("level: want WARN, got %v", cfg.Level)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("timeout: want 90s, got %v", cfg.Timeout)
	}
	if !cfg.Debug {
		t.Error("debug: want true")
	}
	if cfg.Nested.DSN != "postgres://localhost/db" || cfg.Nested.Pool != 12 {
		t.Errorf("nested mismatch: %+v", cfg.Nested)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("TEST_ENVCONF_LEVEL", "INFO")
	t.Setenv("TEST_ENVCONF_TIMEOUT", "5s")
	t.Setenv("TEST_ENVCONF_DSN", "x")
	// TEST_ENVCONF_PORT unset on purpose

	err := Load(new(testConf))
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("want ErrMissingRequired, got %v", err)
	}
}

func TestLoad_OptionalKeepsZeroValue(t *testing.T) {
	t.Setenv("TEST_ENVCONF_PORT", "8080")
	t.Setenv("TEST_ENVCONF_LEVEL", "INFO")
	t.Setenv("TEST_ENVCONF_TIMEOUT", "5s")
	t.Setenv("TEST_ENVCONF_DSN", "x")
	// TEST_ENVCONF_DEBUG and TEST_ENVCONF_POOL unset

	cfg := new(testConf)
	if err := Load(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Debug {
		t.Error("debug: want zero value false")
	}
	if cfg.Nested.Pool != 0 {
		t.Errorf("pool: want zero value, got %d", cfg.Nested.Pool)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("TEST_ENVCONF_PORT", "not-a-number")
	t.Setenv("TEST_ENVCONF_LEVEL", "INFO")
	t.Setenv("TEST_ENVCONF_TIMEOUT", "5s")
	t.Setenv("TEST_ENVCONF_DSN", "x")

	if err := Load(new(testConf)); err == nil {
		t.Fatal("want parse error, got nil")
	}
}
