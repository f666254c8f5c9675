// Package config assembles a ready-to-use media pipeline service from
// declarative configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-media/pkg/simplemedia"
	"github.com/tendant/simple-media/pkg/simplemedia/audit"
	"github.com/tendant/simple-media/pkg/simplemedia/imageproc"
	memoryrepo "github.com/tendant/simple-media/pkg/simplemedia/repo/memory"
	postgresrepo "github.com/tendant/simple-media/pkg/simplemedia/repo/postgres"
	fsstorage "github.com/tendant/simple-media/pkg/simplemedia/storage/fs"
	memorystorage "github.com/tendant/simple-media/pkg/simplemedia/storage/memory"
	s3storage "github.com/tendant/simple-media/pkg/simplemedia/storage/s3"
	"github.com/tendant/simple-media/pkg/simplemedia/transcode"
)

// ServerConfig represents server configuration for the media pipeline
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// Registry configuration
	RegistryType string `env:"REGISTRY_TYPE" env-default:"memory"` // "memory", "postgres"
	DatabaseURL  string `env:"DATABASE_URL"`

	// Storage configuration
	StorageType string `env:"STORAGE_TYPE" env-default:"memory"` // "memory", "fs", "s3"
	FSBaseDir   string `env:"FS_BASE_DIR" env-default:"./data/blobs"`
	S3Region    string `env:"S3_REGION"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	CDNBaseURL  string `env:"CDN_BASE_URL"`

	// Transcoder configuration
	FFmpegPath  string `env:"FFMPEG_PATH" env-default:"ffmpeg"`
	FFprobePath string `env:"FFPROBE_PATH" env-default:"ffprobe"`

	// Pipeline options
	ProcessingTimeout time.Duration `env:"PROCESSING_TIMEOUT" env-default:"15m"`
	EnableAuditLog    bool          `env:"ENABLE_AUDIT_LOG" env-default:"true"`
}

// Option applies configuration on top of defaults
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:              "8080",
		Environment:       "development",
		RegistryType:      "memory",
		StorageType:       "memory",
		FSBaseDir:         "./data/blobs",
		FFmpegPath:        "ffmpeg",
		FFprobePath:       "ffprobe",
		ProcessingTimeout: 15 * time.Minute,
		EnableAuditLog:    true,
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.RegistryType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return errors.New("registry_type must be 'memory' or 'postgres'")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return errors.New("fs_base_dir is required when using fs storage")
		}
		if c.CDNBaseURL == "" {
			return errors.New("cdn_base_url is required when using fs storage")
		}
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("s3_bucket is required when using s3 storage")
		}
	default:
		return errors.New("storage_type must be 'memory', 'fs' or 's3'")
	}

	if c.ProcessingTimeout <= 0 {
		return errors.New("processing_timeout must be positive")
	}

	return nil
}

// BuildService wires registry, storage, transform engines and audit sink
// into a ready Service.
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (simplemedia.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	registry, err := c.buildRegistry(ctx)
	if err != nil {
		return nil, err
	}

	store, err := c.buildStorage()
	if err != nil {
		return nil, err
	}

	options := []simplemedia.Option{
		simplemedia.WithRegistry(registry),
		simplemedia.WithBlobStore(store),
		simplemedia.WithImageEngine(imageproc.New()),
		simplemedia.WithEncoder(transcode.New(
			transcode.WithBinary(c.FFmpegPath),
			transcode.WithProbeBinary(c.FFprobePath),
		)),
		simplemedia.WithLogger(logger),
		simplemedia.WithProcessingTimeout(c.ProcessingTimeout),
	}

	if c.EnableAuditLog {
		options = append(options, simplemedia.WithAuditSink(audit.NewSlogSink(logger)))
	}

	return simplemedia.New(options...)
}

func (c *ServerConfig) buildRegistry(ctx context.Context) (simplemedia.Registry, error) {
	switch c.RegistryType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return postgresrepo.NewWithPool(pool), nil
	default:
		return memoryrepo.New(), nil
	}
}

func (c *ServerConfig) buildStorage() (simplemedia.BlobStore, error) {
	switch c.StorageType {
	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   c.FSBaseDir,
			URLPrefix: c.CDNBaseURL,
		})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:     c.S3Region,
			Bucket:     c.S3Bucket,
			Endpoint:   c.S3Endpoint,
			CDNBaseURL: c.CDNBaseURL,
		})
	default:
		return memorystorage.New(), nil
	}
}
