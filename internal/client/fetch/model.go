package fetch

import "io"

// UnknownSize is reported in FetchResult.TotalBytes when the server sends no Content-Length.
const UnknownSize int64 = -1

// FetchResult holds an opened download stream.
// The caller owns Body and must close it.
type FetchResult struct {
	// Body is the response body, not yet read.
	Body io.ReadCloser
	// TotalBytes is the Content-Length of the response, or UnknownSize.
	TotalBytes int64
	// ContentType is the Content-Type header of the response.
	ContentType string
}

// IsSizeKnown reports whether the server announced the body size.
func (r *FetchResult) IsSizeKnown() bool {
	return r.TotalBytes >= 0
}
