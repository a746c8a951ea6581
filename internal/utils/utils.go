package utils

import (
	"math"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// textContentTypePatterns is a slice of regular expressions that match content types
// considered to be text-based. This includes "text/*", "application/json", and
// "application/xml".
//
//nolint:gochecknoglobals // These are immutable, pre-compiled regex patterns and used as constants.
var textContentTypePatterns = []*regexp.Regexp{
	regexp.MustCompile("^text/.+"),
	regexp.MustCompile("^application/json$"),
	regexp.MustCompile(`^application/(.+\+)?xml$`),
}

// SafeUint64ToInt64 converts a uint64 value to an int64 safely,
// ensuring that the value does not exceed the maximum limit of int64.
func SafeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}

	return int64(val)
}

// IsFileExist checks if a file exists at the specified path.
// It returns true if the file exists and is not a directory, false if the file does not exist,
// and an error if there was an issue accessing the file.
func IsFileExist(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err == nil {
		return !stat.IsDir(), nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// ResolveInsideDir joins name to baseDir and returns the result
// only if it stays inside baseDir. Absolute names and names climbing out
// through ".." are rejected.
func ResolveInsideDir(baseDir, name string) (string, bool) {
	if name == "" || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", false
	}

	cleanBase := filepath.Clean(baseDir)
	target := filepath.Join(cleanBase, name)

	relative, err := filepath.Rel(cleanBase, target)
	if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", false
	}

	return target, true
}

// SanitizeArchivePath turns an archive entry name into a relative path.
// Both slash kinds separate components, a leading volume name is removed,
// and empty, "." and ".." components are dropped, so "../a/./b" becomes "a/b".
// It returns an empty string when nothing is left.
func SanitizeArchivePath(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = name[len(filepath.VolumeName(filepath.FromSlash(name))):]

	parts := strings.Split(name, "/")
	kept := make([]string, 0, len(parts))

	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			continue
		}

		kept = append(kept, part)
	}

	return filepath.Join(kept...)
}

// IsTextContentType checks if the given content type represents a text-based format.
// It also checks that the charset, if present, is either "utf-8" or "us-ascii".
func IsTextContentType(contentType string) bool {
	parsedType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	for _, pattern := range textContentTypePatterns {
		if !pattern.MatchString(parsedType) {
			continue
		}

		charset := strings.ToLower(params["charset"])

		return charset == "" || charset == "utf-8" || charset == "us-ascii"
	}

	return false
}
