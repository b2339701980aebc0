// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs at startup.
type Config struct {
	// HTTPAddr is the listen address of the HTTP server.
	HTTPAddr string

	// SubmitTimeout bounds how long a caller waits for the ledger lane.
	SubmitTimeout time.Duration

	// QueueDepth is the ledger lane admission queue capacity.
	QueueDepth int

	// KafkaBrokers enables the Kafka transfer sink when non-empty.
	KafkaBrokers []string

	// KafkaTopic is the topic transfer events are published to.
	KafkaTopic string

	// ArchiveDSN enables the Postgres transfer archive when non-empty.
	ArchiveDSN string
}

// Load reads configuration from a .env file (if present) and the
// environment. Defaults match the original service: port 8080, one second
// submission timeout.
func Load() (Config, error) {
	// A missing .env is fine; deployed environments set real variables.
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:      ":8080",
		SubmitTimeout: time.Second,
		QueueDepth:    64,
		KafkaTopic:    "transfers_committed",
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}

	if raw := os.Getenv("SUBMIT_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SUBMIT_TIMEOUT: %w", err)
		}
		if timeout <= 0 {
			return Config{}, fmt.Errorf("SUBMIT_TIMEOUT must be positive, got %s", timeout)
		}
		cfg.SubmitTimeout = timeout
	}

	if raw := os.Getenv("QUEUE_DEPTH"); raw != "" {
		depth, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse QUEUE_DEPTH: %w", err)
		}
		if depth <= 0 {
			return Config{}, fmt.Errorf("QUEUE_DEPTH must be positive, got %d", depth)
		}
		cfg.QueueDepth = depth
	}

	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if topic := os.Getenv("KAFKA_TOPIC"); topic != "" {
		cfg.KafkaTopic = topic
	}

	cfg.ArchiveDSN = os.Getenv("ARCHIVE_DSN")

	return cfg, nil
}
