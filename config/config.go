package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/BEAUVILLE/abos/logging"
	"github.com/caarlos0/env/v6"
)

type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	StorageBaseURL string        `env:"STORAGE_BASE_URL"`
	StorageKey     string        `env:"STORAGE_KEY"`
	StorageBucket  string        `env:"STORAGE_BUCKET"`
	ProofFolder    string        `env:"PROOF_FOLDER"`
	WaitPagePath   string        `env:"WAIT_PAGE_PATH"`
	DatabaseURI    string        `env:"DATABASE_URI"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	OrphanAge      time.Duration `env:"ORPHAN_AGE"`
}

func GetConfig() *Config {
	logger := logging.GetSugaredLogger()
	defer logger.Sync()

	config := &Config{}

	flag.StringVar(&config.RunAddress, "a", "localhost:8080", "RunAddress")
	flag.StringVar(&config.StorageBaseURL, "s", "", "StorageBaseURL")
	flag.StringVar(&config.StorageKey, "k", "", "StorageKey")
	flag.StringVar(&config.StorageBucket, "b", "pay-proofs", "StorageBucket")
	flag.StringVar(&config.ProofFolder, "f", "proofs", "ProofFolder")
	flag.StringVar(&config.WaitPagePath, "w", "/abos/wait.html", "WaitPagePath")
	flag.StringVar(&config.DatabaseURI, "d", "", "DatabaseURI")
	flag.DurationVar(&config.RequestTimeout, "t", 10*time.Second, "RequestTimeout")
	flag.DurationVar(&config.OrphanAge, "o", 30*time.Minute, "OrphanAge")
	flag.Parse()

	err := env.Parse(config)
	if err != nil {
		logger.Debug("failed to parse environment variables:", err)
	}

	return config
}

// FromEnv builds a Config from environment variables only, for callers
// that manage their own command-line flags.
func FromEnv() (*Config, error) {
	config := &Config{
		RunAddress:     "localhost:8080",
		StorageBucket:  "pay-proofs",
		ProofFolder:    "proofs",
		WaitPagePath:   "/abos/wait.html",
		RequestTimeout: 10 * time.Second,
		OrphanAge:      30 * time.Minute,
	}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return config, nil
}

// Validate checks the fields the service cannot start without.
func (c *Config) Validate() error {
	if c.RunAddress == "" {
		return fmt.Errorf("run address is required")
	}
	if c.StorageBaseURL == "" {
		return fmt.Errorf("storage base URL is required")
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage key is required")
	}
	if c.StorageBucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if c.WaitPagePath == "" {
		return fmt.Errorf("wait page path is required")
	}
	return nil
}
