// Package archive extracts downloaded ZIP archives into a directory.
package archive
