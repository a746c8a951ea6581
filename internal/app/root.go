package app

import (
	"context"

	"github.com/oshokin/rkdevtool-grabber/internal/archive"
	"github.com/oshokin/rkdevtool-grabber/internal/client/fetch"
	"github.com/oshokin/rkdevtool-grabber/internal/config"
	"github.com/oshokin/rkdevtool-grabber/internal/logger"
	"github.com/oshokin/rkdevtool-grabber/internal/service/fetcher"
)

// ExecuteRootCommand is the entry point for the application.
// Any failure is fatal, so the process exits with a non-zero status.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config) {
	if _, err := Run(ctx, cfg); err != nil {
		logger.Fatalf(ctx, "Failed to get %s: %v", cfg.ArchiveFilename, err)
	}
}

// Run wires the HTTP client, the extractor and the fetcher service, then performs one run.
func Run(ctx context.Context, cfg *config.Config, options ...fetcher.Option) (*fetcher.Result, error) {
	fetchClient := fetch.NewClient(cfg)
	extractor := archive.NewZipExtractor()

	s := fetcher.NewService(cfg, fetchClient, extractor, options...)

	return runService(ctx, s)
}

// runService runs the service and prints the summary of a successful run.
func runService(ctx context.Context, s fetcher.Service) (*fetcher.Result, error) {
	result, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}

	s.PrintSummary(ctx, result)

	return result, nil
}
