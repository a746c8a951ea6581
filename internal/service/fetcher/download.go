package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/oshokin/rkdevtool-grabber/internal/client/fetch"
	"github.com/oshokin/rkdevtool-grabber/internal/constants"
	"github.com/oshokin/rkdevtool-grabber/internal/logger"
)

// File options for overwriting an existing file.
const overwriteFileOptions = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

// downloadResult holds the byte counters of a finished download.
type downloadResult struct {
	bytesWritten  int64
	expectedBytes int64
}

// downloadArchive streams the archive into archivePath.
// The body goes to a .part file first, which is renamed over archivePath only after a complete write.
func (s *ServiceImpl) downloadArchive(ctx context.Context, archivePath string) (*downloadResult, error) {
	fetchResult, err := s.client.FetchArchive(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archive: %w", err)
	}

	defer fetchResult.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if !fetchResult.IsSizeKnown() {
		logger.Warn(ctx, "Server did not report the archive size, progress total is unknown")
	}

	tempFilePath := archivePath + constants.ExtensionPart

	// Always overwrite .part files, they are leftovers of failed runs.
	f, err := os.OpenFile(filepath.Clean(tempFilePath), overwriteFileOptions, constants.ArchiveFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	var downloadSucceeded bool

	defer func() {
		// A second Close after the explicit one below only returns os.ErrClosed.
		closeErr := f.Close()

		if downloadSucceeded {
			return
		}

		if removeErr := os.Remove(tempFilePath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warnf(ctx, "Failed to clean up temporary file '%s': %v (close error: %v)",
				tempFilePath, removeErr, closeErr)
		}
	}()

	writer := io.Writer(f)

	bar := s.newProgressBar(fetchResult)
	if bar != nil {
		writer = io.MultiWriter(f, bar)
	}

	bytesWritten, err := s.copyBody(ctx, writer, fetchResult.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	if bar != nil {
		_ = bar.Finish()
	}

	if err = f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	// Verify that we downloaded the expected number of bytes.
	if fetchResult.IsSizeKnown() && bytesWritten != fetchResult.TotalBytes {
		return nil, fmt.Errorf(
			"%w: wrote %d bytes, expected %d bytes",
			ErrIncompleteDownload,
			bytesWritten,
			fetchResult.TotalBytes,
		)
	}

	if err = os.Rename(tempFilePath, archivePath); err != nil {
		return nil, fmt.Errorf("failed to move '%s' to '%s': %w", tempFilePath, archivePath, err)
	}

	downloadSucceeded = true

	logger.Infof(ctx, "Saved %s to '%s'", formatSize(bytesWritten), archivePath)

	return &downloadResult{
		bytesWritten:  bytesWritten,
		expectedBytes: fetchResult.TotalBytes,
	}, nil
}

// newProgressBar returns a byte progress bar, or nil when progress output is disabled.
// An unknown total turns the bar into a spinner.
func (s *ServiceImpl) newProgressBar(fetchResult *fetch.FetchResult) *progressbar.ProgressBar {
	if s.progressOutput == nil || logger.Level() > zap.InfoLevel {
		return nil
	}

	return progressbar.NewOptions64(
		fetchResult.TotalBytes,
		progressbar.OptionSetDescription(s.cfg.ArchiveFilename),
		progressbar.OptionSetWriter(s.progressOutput),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(s.progressOutput, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// copyBody copies the body in chunks, honoring the configured speed limit.
func (s *ServiceImpl) copyBody(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	limit := s.cfg.ParsedDownloadSpeedLimit
	if limit <= 0 {
		return copyInChunks(ctx, dst, src, s.cfg.ChunkSize)
	}

	var total int64

	for {
		n, err := copyInChunks(ctx, dst, io.LimitReader(src, limit), s.cfg.ChunkSize)
		total += n

		if err != nil {
			return total, err
		}

		// A short window means the body is exhausted.
		if n < limit {
			return total, nil
		}

		// Throttle to respect speed limit.
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// copyInChunks reads src into a chunkSize buffer and writes every chunk to dst until EOF.
func copyInChunks(ctx context.Context, dst io.Writer, src io.Reader, chunkSize int64) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = 1
	}

	var (
		buffer  = make([]byte, chunkSize)
		written int64
	)

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buffer)
		if n > 0 {
			w, writeErr := dst.Write(buffer[:n])
			written += int64(w)

			if writeErr != nil {
				return written, writeErr
			}

			if w != n {
				return written, io.ErrShortWrite
			}
		}

		if errors.Is(readErr, io.EOF) {
			return written, nil
		}

		if readErr != nil {
			return written, readErr
		}
	}
}
