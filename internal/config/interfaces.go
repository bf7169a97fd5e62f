package config

import "time"

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	MigrationDirectory() string
	DSN() string
}

type Source interface {
	BaseURL() string
	Token() string
	PageSize() int
	Timeout() time.Duration
}

type Sync interface {
	Secret() string
	DefaultCurrency() string
}
