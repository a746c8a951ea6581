package fetcher

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/rkdevtool-grabber/internal/archive"
	"github.com/oshokin/rkdevtool-grabber/internal/client/fetch"
	mock_fetch "github.com/oshokin/rkdevtool-grabber/internal/client/fetch/mocks"
)

// TestCopyInChunks tests that every write carries at most one chunk.
func TestCopyInChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		size      int
		chunkSize int64
	}{
		{name: "empty body", size: 0, chunkSize: 1024},
		{name: "smaller than chunk", size: 100, chunkSize: 1024},
		{name: "exact multiple", size: 4096, chunkSize: 1024},
		{name: "with remainder", size: 5000, chunkSize: 1024},
		{name: "zero chunk size falls back to one byte", size: 10, chunkSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload := bytes.Repeat([]byte("x"), tt.size)
			dst := &recordingWriter{}

			written, err := copyInChunks(context.Background(), dst, bytes.NewReader(payload), tt.chunkSize)
			require.NoError(t, err)

			assert.Equal(t, int64(tt.size), written)
			assert.Equal(t, len(payload), dst.Len())
			assert.Equal(t, string(payload), dst.String())

			limit := max(tt.chunkSize, 1)
			for _, size := range dst.writeSizes {
				assert.LessOrEqual(t, int64(size), limit)
			}
		})
	}
}

// TestCopyInChunks_ReadError tests that read errors are returned with the bytes written so far.
func TestCopyInChunks_ReadError(t *testing.T) {
	t.Parallel()

	dst := &recordingWriter{}

	written, err := copyInChunks(context.Background(), dst, &failingReader{data: []byte("abc")}, 1024)
	require.ErrorIs(t, err, errReadFailed)
	assert.Equal(t, int64(3), written)
	assert.Equal(t, "abc", dst.String())
}

// TestCopyInChunks_CanceledContext tests that a canceled context stops the copy.
func TestCopyInChunks_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	written, err := copyInChunks(ctx, &recordingWriter{}, strings.NewReader("data"), 1024)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, written)
}

// TestCopyBody_SpeedLimitAbovePayload tests that a limit larger than the body does not throttle.
func TestCopyBody_SpeedLimitAbovePayload(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cfg := newTestConfig(t)
	cfg.ParsedDownloadSpeedLimit = 1 << 20

	service, ok := NewService(cfg, mock_fetch.NewMockClient(ctrl), archive.NewZipExtractor()).(*ServiceImpl)
	require.True(t, ok)

	payload := bytes.Repeat([]byte("y"), 10_000)
	dst := &recordingWriter{}

	started := time.Now()

	written, err := service.copyBody(context.Background(), dst, bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), written)
	assert.Equal(t, payload, dst.Bytes())
	assert.Less(t, time.Since(started), time.Second)
}

// TestCopyBody_SpeedLimitCanceled tests that waiting for the next window honors cancellation.
func TestCopyBody_SpeedLimitCanceled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cfg := newTestConfig(t)
	cfg.ParsedDownloadSpeedLimit = 10

	service, ok := NewService(cfg, mock_fetch.NewMockClient(ctrl), archive.NewZipExtractor()).(*ServiceImpl)
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	written, err := service.copyBody(ctx, &recordingWriter{}, bytes.NewReader(bytes.Repeat([]byte("z"), 100)))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(10), written)
}

// TestNewProgressBar tests when the progress bar is created.
func TestNewProgressBar(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cfg := newTestConfig(t)

	disabled, ok := NewService(
		cfg,
		mock_fetch.NewMockClient(ctrl),
		archive.NewZipExtractor(),
		WithProgressOutput(nil),
	).(*ServiceImpl)
	require.True(t, ok)
	assert.Nil(t, disabled.newProgressBar(newFetchResult(nil, 10)))

	var output bytes.Buffer

	enabled, ok := NewService(
		cfg,
		mock_fetch.NewMockClient(ctrl),
		archive.NewZipExtractor(),
		WithProgressOutput(&output),
	).(*ServiceImpl)
	require.True(t, ok)

	assert.NotNil(t, enabled.newProgressBar(newFetchResult(nil, fetch.UnknownSize)))
}

// TestFormatSize tests byte formatting including the unknown size.
func TestFormatSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown size", formatSize(fetch.UnknownSize))
	assert.Equal(t, "0 B", formatSize(0))
	assert.Equal(t, "1.0 kB", formatSize(1000))
	assert.Equal(t, "1.5 MB", formatSize(1_500_000))
}

// TestFormatDuration tests the formatDuration function.
func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		duration time.Duration
		expected string
	}{
		{duration: 250 * time.Millisecond, expected: "250ms"},
		{duration: 5 * time.Second, expected: "5s"},
		{duration: 2*time.Minute + 3*time.Second, expected: "2m 3s"},
		{duration: time.Hour + 4*time.Minute + 5*time.Second, expected: "1h 4m 5s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.duration))
	}
}

// TestResultDuration tests that an unfinished result reports zero duration.
func TestResultDuration(t *testing.T) {
	t.Parallel()

	started := time.Now()

	assert.Zero(t, (&Result{StartTime: started}).Duration())
	assert.Equal(t, 3*time.Second, (&Result{StartTime: started, EndTime: started.Add(3 * time.Second)}).Duration())
}
