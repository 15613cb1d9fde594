package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const ServiceName = "pizza-shop"

type Config struct {
	Env             string
	Port            int
	DiagPort        int
	DBDriver        string
	DBDSN           string
	LogJSON         bool
	OtelEndpoint    string
	TraceStdout     bool
	ShutdownTimeout time.Duration
}

func Default() Config {
	return Config{
		Env:             "dev",
		Port:            8000,
		DiagPort:        9090,
		DBDriver:        "sqlite",
		DBDSN:           "pizza_shop.db",
		LogJSON:         true,
		OtelEndpoint:    "",
		TraceStdout:     false,
		ShutdownTimeout: 10 * time.Second,
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

// Validate reports the first setting the process cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unknown db driver %q", c.DBDriver)
	}
	if c.DBDriver != "memory" && c.DBDSN == "" {
		return fmt.Errorf("db dsn required for driver %q", c.DBDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DiagPort < 0 || c.DiagPort > 65535 {
		return fmt.Errorf("invalid diag port %d", c.DiagPort)
	}
	if c.DiagPort == c.Port {
		return fmt.Errorf("diag port must differ from port %d", c.Port)
	}
	return nil
}

func fromEnv(c Config) Config {
	if v := os.Getenv("PIZZA_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("PIZZA_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("PIZZA_DIAG_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.DiagPort = p
		}
	}
	if v := os.Getenv("PIZZA_DB_DRIVER"); v != "" {
		c.DBDriver = v
	}
	if v := os.Getenv("PIZZA_DB_DSN"); v != "" {
		c.DBDSN = v
	}
	if v := os.Getenv("PIZZA_LOG_JSON"); v != "" {
		c.LogJSON = parseBool(v, c.LogJSON)
	}
	if v := os.Getenv("PIZZA_OTEL_ENDPOINT"); v != "" {
		c.OtelEndpoint = v
	}
	if v := os.Getenv("PIZZA_TRACE_STDOUT"); v != "" {
		c.TraceStdout = parseBool(v, c.TraceStdout)
	}
	if v := os.Getenv("PIZZA_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.ShutdownTimeout = d
		}
	}
	return c
}

func parseBool(v string, fallback bool) bool {
	switch v {
	case "1", "true", "TRUE":
		return true
	case "0", "false", "FALSE":
		return false
	}
	return fallback
}
