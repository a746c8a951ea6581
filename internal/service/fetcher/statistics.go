package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/rkdevtool-grabber/internal/archive"
	"github.com/oshokin/rkdevtool-grabber/internal/logger"
)

// Result describes one finished run.
type Result struct {
	// URL is the download URL with credentials redacted.
	URL string
	// ArchivePath is where the archive was written.
	ArchivePath string
	// BytesDownloaded is the number of bytes written to the archive.
	BytesDownloaded int64
	// ExpectedBytes is the size announced by the server, or fetch.UnknownSize.
	ExpectedBytes int64
	// Extracted describes the extracted files; nil in dry-run mode.
	Extracted *archive.ExtractResult
	// ArchiveRemoved reports whether the archive was deleted after extraction.
	ArchiveRemoved bool
	// DryRun indicates that nothing was written.
	DryRun bool
	// StartTime is when the run started.
	StartTime time.Time
	// EndTime is when the run finished.
	EndTime time.Time
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return 0
	}

	return r.EndTime.Sub(r.StartTime)
}

// PrintSummary logs a formatted summary of a finished run.
func (s *ServiceImpl) PrintSummary(ctx context.Context, result *Result) {
	if result == nil {
		return
	}

	logger.Info(ctx, "")

	if result.DryRun {
		logger.Info(ctx, "Dry-run summary")
		logger.Infof(ctx, "Source:           %s", result.URL)
		logger.Infof(ctx, "Estimated Size:   %s", formatSize(result.ExpectedBytes))

		return
	}

	logger.Info(ctx, "Download summary")
	logger.Infof(ctx, "Source:           %s", result.URL)
	logger.Infof(ctx, "Archive:          %s", result.ArchivePath)
	logger.Infof(ctx, "Data Downloaded:  %s", formatSize(result.BytesDownloaded))

	duration := result.Duration()

	// Only show if duration is meaningful (> 100ms).
	if duration > 100*time.Millisecond {
		logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

		if result.BytesDownloaded > 0 {
			bytesPerSecond := float64(result.BytesDownloaded) / duration.Seconds()
			//nolint:gosec // BytesDownloaded is positive here, no overflow risk.
			logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
		}
	}

	if result.Extracted != nil {
		logger.Infof(ctx, "Extracted Files:  %d (%s)",
			len(result.Extracted.Files), formatSize(result.Extracted.TotalBytes))

		if result.Extracted.Directories > 0 {
			logger.Infof(ctx, "Directories:      %d", result.Extracted.Directories)
		}

		if len(result.Extracted.SkippedEntries) > 0 {
			logger.Infof(ctx, "Skipped Entries:  %d", len(result.Extracted.SkippedEntries))
		}
	}

	if result.ArchiveRemoved {
		logger.Info(ctx, "Archive was removed after extraction")
	}
}

// formatSize formats a byte count, keeping fetch.UnknownSize readable.
func formatSize(size int64) string {
	if size < 0 {
		return "unknown size"
	}

	return humanize.Bytes(uint64(size)) //nolint:gosec // Negative sizes are handled above.
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}
