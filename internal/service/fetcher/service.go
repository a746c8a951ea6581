package fetcher

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/oshokin/rkdevtool-grabber/internal/archive"
	"github.com/oshokin/rkdevtool-grabber/internal/client/fetch"
	"github.com/oshokin/rkdevtool-grabber/internal/config"
	"github.com/oshokin/rkdevtool-grabber/internal/constants"
	"github.com/oshokin/rkdevtool-grabber/internal/logger"
	"github.com/oshokin/rkdevtool-grabber/internal/utils"
)

// Service downloads the configured archive and extracts it.
type Service interface {
	// Run performs the whole download and extraction once.
	Run(ctx context.Context) (*Result, error)
	// PrintSummary logs a formatted summary of a finished run.
	PrintSummary(ctx context.Context, result *Result)
}

// ServiceImpl implements Service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client opens the download stream.
	client fetch.Client
	// extractor unpacks the downloaded archive.
	extractor archive.Extractor
	// progressOutput receives the progress bar; nil disables it.
	progressOutput io.Writer
}

// Option customizes ServiceImpl.
type Option func(*ServiceImpl)

// WithProgressOutput redirects the progress bar, nil disables it.
func WithProgressOutput(w io.Writer) Option {
	return func(s *ServiceImpl) {
		s.progressOutput = w
	}
}

// NewService creates a fetcher service instance with dependency-injected components.
// The progress bar is written to stderr unless an option says otherwise.
func NewService(cfg *config.Config, client fetch.Client, extractor archive.Extractor, options ...Option) Service {
	s := &ServiceImpl{
		cfg:            cfg,
		client:         client,
		extractor:      extractor,
		progressOutput: os.Stderr,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Run downloads the archive to ArchivePath and extracts it into OutputPath.
// The archive is fully written and closed before extraction starts.
func (s *ServiceImpl) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		URL:         redactURL(s.cfg.URL),
		ArchivePath: s.cfg.ArchivePath(),
		DryRun:      s.cfg.DryRun,
		StartTime:   time.Now(),
	}

	logger.Infof(ctx, "Get %s from %s", s.cfg.ArchiveFilename, result.URL)

	if s.cfg.DryRun {
		return s.dryRun(ctx, result)
	}

	if err := os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
		return nil, fmt.Errorf("failed to create output path: %w", err)
	}

	if exists, _ := utils.IsFileExist(result.ArchivePath); exists {
		logger.Infof(ctx, "'%s' already exists and will be overwritten", result.ArchivePath)
	}

	download, err := s.downloadArchive(ctx, result.ArchivePath)
	if err != nil {
		return nil, err
	}

	result.BytesDownloaded = download.bytesWritten
	result.ExpectedBytes = download.expectedBytes

	logger.Infof(ctx, "Extracting %s into %s", result.ArchivePath, s.cfg.OutputPath)

	result.Extracted, err = s.extractor.Extract(ctx, result.ArchivePath, s.cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract archive: %w", err)
	}

	if s.cfg.RemoveArchive {
		if removeErr := os.Remove(result.ArchivePath); removeErr != nil {
			logger.Warnf(ctx, "Failed to remove archive '%s': %v", result.ArchivePath, removeErr)
		} else {
			result.ArchiveRemoved = true
		}
	}

	result.EndTime = time.Now()

	return result, nil
}

// dryRun opens the download to learn its size and writes nothing.
func (s *ServiceImpl) dryRun(ctx context.Context, result *Result) (*Result, error) {
	fetchResult, err := s.client.FetchArchive(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archive: %w", err)
	}

	// Close immediately without reading.
	_ = fetchResult.Body.Close()

	result.ExpectedBytes = fetchResult.TotalBytes
	result.EndTime = time.Now()

	logger.Infof(ctx, "[DRY-RUN] Would download %s to '%s' and extract it into '%s'",
		formatSize(fetchResult.TotalBytes), result.ArchivePath, s.cfg.OutputPath)

	return result, nil
}

// redactURL hides credentials embedded in the URL before it is logged.
func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	return parsed.Redacted()
}
