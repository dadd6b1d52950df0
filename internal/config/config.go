package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS,optional"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS,optional"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME,optional"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME,optional"`
}

// RedisConfig is optional infrastructure: an empty Addr disables the
// idempotency fast-path cache and the service runs on Postgres alone.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,optional"`
	Password string `env:"REDIS_PASSWORD,optional"`
	DB       int    `env:"REDIS_DB,optional"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// WalletConfig tunables fall back to the service defaults when unset.
type WalletConfig struct {
	ReservationDefaultTimeout time.Duration `env:"APP_RESERVATION_DEFAULT_TIMEOUT,optional"`
	IdempotencyRetention      time.Duration `env:"APP_IDEMPOTENCY_RETENTION,optional"`
	SweepInterval             time.Duration `env:"APP_SWEEP_INTERVAL,optional"`
}
