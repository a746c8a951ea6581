package fetcher

import "errors"

// Common errors for the service layer.
var (
	// ErrIncompleteDownload indicates that the downloaded file size doesn't match the announced size.
	ErrIncompleteDownload = errors.New("incomplete download")
)
