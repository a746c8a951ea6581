// Package fetcher implements the download-and-extract flow: it streams the configured
// archive to disk in fixed-size chunks while a progress bar tracks the written bytes,
// then unpacks the archive into the output directory and reports a summary.
package fetcher
