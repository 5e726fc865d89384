package store

import "time"

// Config selects and configures the result stores
type Config struct {
	// AppName identifies the service to postgres
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	// SlowQueryMs marks traced statements as slow, zero disables
	SlowQueryMs int

	// boot guard: ping attempts and per attempt timeout, zero means defaults
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}
