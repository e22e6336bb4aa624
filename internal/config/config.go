// Package config loads server settings from PDFCHUNK_ environment
// variables. The CLI does not use it; flags cover the one-shot commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pagesmith/pdfchunk/chunker"
)

type Config struct {
	// HTTP listener
	Addr string

	// Auth. Empty disables authentication.
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// HTTP timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Chunking defaults applied to every request
	MaxTokens      int
	MinTokens      int
	OverlapTokens  int
	Threads        int
	BatchSize      int
	EnrichHeadings bool
	ExactTokens    bool
}

func Load() Config {
	cfg := Config{
		Addr: envOr("PDFCHUNK_ADDR", ":8090"),

		APIKey: os.Getenv("PDFCHUNK_API_KEY"),

		MaxUploadBytes: envInt64("PDFCHUNK_MAX_UPLOAD_BYTES", 52428800), // 50MB

		ReadTimeout:     envDuration("PDFCHUNK_READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    envDuration("PDFCHUNK_WRITE_TIMEOUT", 5*time.Minute),
		IdleTimeout:     envDuration("PDFCHUNK_IDLE_TIMEOUT", 2*time.Minute),
		ShutdownTimeout: envDuration("PDFCHUNK_SHUTDOWN_TIMEOUT", 15*time.Second),

		MaxTokens:      envInt("PDFCHUNK_MAX_TOKENS", chunker.DefaultMaxTokens),
		MinTokens:      envInt("PDFCHUNK_MIN_TOKENS", chunker.DefaultMinTokens),
		OverlapTokens:  envInt("PDFCHUNK_OVERLAP_TOKENS", 0),
		Threads:        envInt("PDFCHUNK_THREADS", 0),
		BatchSize:      envInt("PDFCHUNK_BATCH_SIZE", 0),
		EnrichHeadings: envBool("PDFCHUNK_ENRICH_HEADINGS", false),
		ExactTokens:    envBool("PDFCHUNK_EXACT_TOKENS", false),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	return cfg
}

// ChunkOptions maps the chunking fields onto chunker options.
func (c Config) ChunkOptions() chunker.Options {
	return chunker.Options{
		MaxTokens:      c.MaxTokens,
		MinTokens:      c.MinTokens,
		OverlapTokens:  c.OverlapTokens,
		Threads:        c.Threads,
		BatchSize:      c.BatchSize,
		EnrichHeadings: c.EnrichHeadings,
		ExactTokens:    c.ExactTokens,
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("PDFCHUNK_ADDR must not be empty")
	}
	if err := c.ChunkOptions().Validate(); err != nil {
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
