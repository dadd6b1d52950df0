package main

import (
	"log/slog"
	"time"

	"github.com/pokerloft/chipledger/internal/config"
)

type apiConfig struct {
	HTTPPort        uint16        `env:"APP_HTTP_PORT"`
	GRPCPort        uint16        `env:"APP_GRPC_PORT"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL,optional"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT,optional"`

	Postgres config.PostgresConfig
	Redis    config.RedisConfig
	Wallet   config.WalletConfig
}

func (c *apiConfig) shutdownTimeout() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return 15 * time.Second
	}

	return c.ShutdownTimeout
}
