// Package http provides the RoundTrippers used by the download client:
// configured header injection, User-Agent injection and debug request/response logging.
package http
