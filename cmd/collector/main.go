// Command collector runs the UDP log collector daemon. Its own CLI
// surface is intentionally thin (spec's Non-goals exclude flag parsing,
// TLS, and multi-tenancy): configuration comes from an optional YAML file
// path plus environment variable overrides, in the style of the example
// pack's daemon entry points.
package main

import (
	"fmt"
	"os"

	"github.com/quadgate-labs/logcollector/pkg/collector"
	"github.com/quadgate-labs/logcollector/pkg/config"
	"github.com/quadgate-labs/logcollector/pkg/log"
)

// Exit codes per spec §6: 0 clean shutdown, 1 fatal runtime error, 2
// configuration error.
const (
	exitOK   = 0
	exitFail = 1
	exitBad  = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := log.NewDefault()

	cfg, err := loadConfig()
	if err != nil {
		logger.Errorf("config: %v", err)
		return exitBad
	}

	c, err := collector.New(logger, cfg)
	if err != nil {
		logger.Errorf("startup: %v", err)
		return exitFail
	}

	if err := c.Run(); err != nil {
		logger.Errorf("run: %v", err)
		return exitFail
	}

	return exitOK
}

// loadConfig builds a Config from COLLECTOR_CONFIG (a YAML file path) if
// set, falling back to spec §6 defaults, then applies individual
// COLLECTOR_* environment overrides on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if path := os.Getenv("COLLECTOR_CONFIG"); path != "" {
		loaded, err := config.LoadYAML(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load %s: %w", path, err)
		}
		cfg = loaded
	}

	cfg.UDPPort = getEnvAsInt("COLLECTOR_UDP_PORT", cfg.UDPPort)
	cfg.MetricsPort = getEnvAsInt("COLLECTOR_METRICS_PORT", cfg.MetricsPort)
	cfg.BindIP = getEnv("COLLECTOR_BIND_IP", cfg.BindIP)
	cfg.Out = getEnv("COLLECTOR_OUT", cfg.Out)
	cfg.Queue = getEnvAsInt("COLLECTOR_QUEUE", cfg.Queue)
	cfg.Batch = getEnvAsInt("COLLECTOR_BATCH", cfg.Batch)
	cfg.FlushMS = getEnvAsInt("COLLECTOR_FLUSH_MS", cfg.FlushMS)
	cfg.RotateMB = getEnvAsInt("COLLECTOR_ROTATE_MB", cfg.RotateMB)
	cfg.RotateFiles = getEnvAsInt("COLLECTOR_ROTATE_FILES", cfg.RotateFiles)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var result int
		if _, err := fmt.Sscanf(v, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
