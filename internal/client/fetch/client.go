package fetch

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oshokin/rkdevtool-grabber/internal/config"
	"github.com/oshokin/rkdevtool-grabber/internal/logger"
	http_transport "github.com/oshokin/rkdevtool-grabber/internal/transport/http"
	"github.com/oshokin/rkdevtool-grabber/internal/utils"
)

// Client defines the interface for downloading the archive.
type Client interface {
	// FetchArchive issues a GET request for the URL and returns the unread response.
	FetchArchive(ctx context.Context, archiveURL string) (*FetchResult, error)
}

// ClientImpl implements the Client interface over net/http.
type ClientImpl struct {
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// drainLimit caps how much of an error response body is read before closing it.
const drainLimit = 64 * 1024

// NewClient creates and returns a new instance of ClientImpl.
// Configured headers are applied first, then a User-Agent is added if they carry none.
// The client has no timeout unless the configuration sets one.
func NewClient(cfg *config.Config) Client {
	httpClient := &http.Client{
		Transport: http_transport.NewHeaderInjector(
			http_transport.NewUserAgentInjector(
				http_transport.NewLogTransport(http.DefaultTransport, 0),
				utils.NewStaticUserAgentProvider(cfg.UserAgent, http_transport.DefaultUserAgent)),
			cfg.Headers),
		Timeout: cfg.ParsedRequestTimeout,
	}

	return &ClientImpl{
		httpClient: httpClient,
	}
}

// FetchArchive issues a GET request for the URL and returns the unread response.
func (c *ClientImpl) FetchArchive(ctx context.Context, archiveURL string) (*FetchResult, error) {
	if strings.TrimSpace(archiveURL) == "" {
		return nil, ErrEmptyURL
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		// Drain a bit of the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, drainLimit))
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	logger.DebugKV(ctx, "Archive response received",
		"content_length", response.ContentLength,
		"content_type", response.Header.Get("Content-Type"))

	return &FetchResult{
		Body:        response.Body,
		TotalBytes:  response.ContentLength,
		ContentType: response.Header.Get("Content-Type"),
	}, nil
}
