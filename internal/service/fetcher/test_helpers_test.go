package fetcher

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/rkdevtool-grabber/internal/client/fetch"
	"github.com/oshokin/rkdevtool-grabber/internal/config"
)

// testURL is the download URL used by service tests.
const testURL = "https://downloads.example.com/RKDevTool.zip"

// archiveEntry is one file inside a generated test archive.
type archiveEntry struct {
	name    string
	content string
}

// makeZip builds an in-memory ZIP archive from the entries.
func makeZip(t *testing.T, entries ...archiveEntry) []byte {
	t.Helper()

	var buffer bytes.Buffer

	writer := zip.NewWriter(&buffer)

	for _, entry := range entries {
		entryWriter, err := writer.Create(entry.name)
		require.NoError(t, err)

		_, err = entryWriter.Write([]byte(entry.content))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return buffer.Bytes()
}

// newTestConfig returns a validated-looking configuration writing into a temporary directory.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		URL:             testURL,
		Headers:         map[string]string{"Authorization": "Bearer token"},
		ArchiveFilename: config.DefaultArchiveFilename,
		OutputPath:      t.TempDir(),
		ChunkSize:       config.DefaultChunkSize,
	}
}

// newFetchResult wraps data as a download stream announcing the given size.
func newFetchResult(data []byte, totalBytes int64) *fetch.FetchResult {
	return &fetch.FetchResult{
		Body:        io.NopCloser(bytes.NewReader(data)),
		TotalBytes:  totalBytes,
		ContentType: "application/zip",
	}
}

// errReadFailed is returned by failingReader.
var errReadFailed = errors.New("connection reset by peer")

// failingReader returns some data and then fails.
type failingReader struct {
	data []byte
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.read {
		return 0, errReadFailed
	}

	r.read = true

	return copy(p, r.data), nil
}

// recordingWriter remembers the size of every write.
type recordingWriter struct {
	bytes.Buffer

	writeSizes []int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writeSizes = append(w.writeSizes, len(p))

	return w.Buffer.Write(p)
}
