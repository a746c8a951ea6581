// Package fetch provides the HTTP client that downloads the archive.
// It sends the configured headers through a chain of RoundTrippers
// and hands back the response body unread, so callers can stream it to disk.
package fetch
