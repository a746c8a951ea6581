package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/rkdevtool-grabber/internal/logger"
	"github.com/oshokin/rkdevtool-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// URL is the address of the archive to download.
	URL string `mapstructure:"url_3"`
	// Headers are sent with the download request.
	// They are decoded separately with yaml.v3 because viper lowercases map keys.
	Headers map[string]string `mapstructure:"-"`
	// ArchiveFilename is the name of the downloaded archive inside OutputPath.
	ArchiveFilename string `mapstructure:"archive_filename"`
	// OutputPath is the directory that receives the archive and its extracted contents.
	OutputPath string `mapstructure:"output_path"`
	// ChunkSize is the number of bytes read from the response body per write.
	ChunkSize int64 `mapstructure:"chunk_size"`
	// DownloadSpeedLimit sets the maximum download speed (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// RequestTimeout limits the whole request including the body transfer (e.g., "10m").
	// Empty string disables the timeout.
	RequestTimeout string `mapstructure:"request_timeout"`
	// UserAgent is sent when Headers has no User-Agent of its own.
	UserAgent string `mapstructure:"user_agent"`
	// RemoveArchive indicates whether to delete the archive after a successful extraction.
	RemoveArchive bool `mapstructure:"remove_archive"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// DryRun indicates whether to only report what would be downloaded.
	DryRun bool
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes per second.
	ParsedDownloadSpeedLimit int64
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
}

const (
	// DefaultConfigFilename is the default path of the configuration file, relative to the working directory.
	DefaultConfigFilename = "getResource/config.yaml"

	// DefaultArchiveFilename is the default name of the downloaded archive.
	DefaultArchiveFilename = "RKDevTool.zip"

	// DefaultOutputPath is the default directory for the archive and the extracted files.
	DefaultOutputPath = "."

	// DefaultChunkSize is the default number of bytes copied per write.
	DefaultChunkSize = 1024

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultMaxLogLength is the default maximum size (in bytes) for logged HTTP dumps.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// URLKey is the configuration key holding the download URL.
	URLKey = "url_3"

	// HeadersKey is the configuration key holding the request headers.
	HeadersKey = "headers_2"
)

// Static error definitions for better error handling.
var (
	// ErrEmptyURL indicates that the download URL is missing.
	ErrEmptyURL = errors.New(URLKey + " cannot be empty")
	// ErrInvalidURL indicates that the download URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid " + URLKey)
	// ErrInvalidHeaderName indicates that a header in headers_2 has an empty name.
	ErrInvalidHeaderName = errors.New(HeadersKey + " contains an empty header name")
	// ErrInvalidArchiveFilename indicates that the archive name is not a plain file name.
	ErrInvalidArchiveFilename = errors.New("archive_filename must be a plain file name")
	// ErrInvalidChunkSize indicates that the chunk size is not positive.
	ErrInvalidChunkSize = errors.New("chunk_size must be a positive integer")
	// ErrInvalidRequestTimeout indicates that the request timeout is negative.
	ErrInvalidRequestTimeout = errors.New("request_timeout cannot be negative")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
)

// headersDocument mirrors the part of the configuration file that holds request headers.
type headersDocument struct {
	Headers map[string]string `yaml:"headers_2"`
}

// LoadConfig loads configuration settings from a YAML file.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = filepath.FromSlash(DefaultConfigFilename)
	}

	content, err := os.ReadFile(filepath.Clean(configFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("archive_filename", DefaultArchiveFilename)
	v.SetDefault("output_path", DefaultOutputPath)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("log_level", DefaultLogLevel)

	if err = v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	var cfg Config
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var doc headersDocument
	if err = yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", HeadersKey, err)
	}

	// A missing headers_2 means the request goes out without extra headers.
	// Downloads that need no authentication are configured with url_3 alone.
	cfg.Headers = doc.Headers

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var (
		downloadSpeedLimit       = strings.TrimSpace(cfg.DownloadSpeedLimit)
		requestTimeout           = strings.TrimSpace(cfg.RequestTimeout)
		parsedDownloadSpeedLimit uint64
		err                      error
	)

	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		return ErrEmptyURL
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return fmt.Errorf("%w: '%s' must be an absolute http(s) URL", ErrInvalidURL, cfg.URL)
	}

	for name := range cfg.Headers {
		if strings.TrimSpace(name) == "" {
			return ErrInvalidHeaderName
		}
	}

	if cfg.ArchiveFilename == "" {
		cfg.ArchiveFilename = DefaultArchiveFilename
	}

	if filepath.Base(cfg.ArchiveFilename) != cfg.ArchiveFilename ||
		cfg.ArchiveFilename == "." || cfg.ArchiveFilename == ".." {
		return fmt.Errorf("%w: '%s'", ErrInvalidArchiveFilename, cfg.ArchiveFilename)
	}

	if strings.TrimSpace(cfg.OutputPath) == "" {
		cfg.OutputPath = DefaultOutputPath
	}

	if cfg.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if downloadSpeedLimit != "" && downloadSpeedLimit != "0" {
		parsedDownloadSpeedLimit, err = humanize.ParseBytes(downloadSpeedLimit)
		if err != nil {
			return fmt.Errorf("failed to parse download speed limit: %w", err)
		}
	}

	// io.LimitReader takes an int64 limit.
	cfg.ParsedDownloadSpeedLimit = utils.SafeUint64ToInt64(parsedDownloadSpeedLimit)

	cfg.ParsedRequestTimeout = 0

	if requestTimeout != "" {
		cfg.ParsedRequestTimeout, err = time.ParseDuration(requestTimeout)
		if err != nil {
			return fmt.Errorf("failed to parse request timeout: %w", err)
		}

		if cfg.ParsedRequestTimeout < 0 {
			return ErrInvalidRequestTimeout
		}
	}

	return nil
}

// ArchivePath returns the full path of the downloaded archive.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.OutputPath, c.ArchiveFilename)
}
