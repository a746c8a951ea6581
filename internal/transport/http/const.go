package http

const (
	// DefaultUserAgent is the default User-Agent string used for HTTP requests.
	// It mimics a common browser User-Agent because vendor download portals often reject unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36" //nolint: lll

	// redactedValue replaces sensitive header values in debug dumps.
	redactedValue = "[redacted]"
)

// sensitiveHeaders are never written to logs verbatim.
//
//nolint:gochecknoglobals // Immutable lookup table.
var sensitiveHeaders = []string{"Authorization", "Cookie", "Proxy-Authorization", "Set-Cookie"}
