// Package config provides runtime configuration values for the binaries.
package config

import (
	"os"
	"strconv"
	"time"
)

const DefaultSpannerDatabase = "projects/test-project/instances/emulator-instance/databases/test-db"

// Config holds configuration knobs for the store server and the console.
type Config struct {
	GRPCAddr            string
	RemoteAddr          string
	StoreProvider       string
	SpannerDatabase     string
	SpannerPollInterval time.Duration
	ProductsCollection  string
	WriteTimeout        time.Duration
	ReconnectDelay      time.Duration
	ShutdownTimeout     time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		GRPCAddr:            getenv("GRPC_ADDR", ":50051"),
		RemoteAddr:          getenv("REMOTE_ADDR", "localhost:50051"),
		StoreProvider:       getenv("STORE_PROVIDER", "memory"),
		SpannerDatabase:     getenv("SPANNER_DATABASE", DefaultSpannerDatabase),
		SpannerPollInterval: durenvms("SPANNER_POLL_INTERVAL_MS", 1000),
		ProductsCollection:  getenv("PRODUCTS_COLLECTION", "products"),
		WriteTimeout:        durenvms("WRITE_TIMEOUT_MS", 10000),
		ReconnectDelay:      durenvms("RECONNECT_DELAY_MS", 2000),
		ShutdownTimeout:     durenvs("SHUTDOWN_TIMEOUT", 5),
	}
}
