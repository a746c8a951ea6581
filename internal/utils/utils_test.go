//nolint:nolintlint,revive // utils is a common and acceptable package name for utility functions.
package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/rkdevtool-grabber/internal/constants"
)

// TestSafeUint64ToInt64 tests the SafeUint64ToInt64 function.
func TestSafeUint64ToInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    uint64
		expected int64
	}{
		{name: "normal value", input: 100, expected: 100},
		{name: "zero value", input: 0, expected: 0},
		{name: "max int64 value", input: 9223372036854775807, expected: 9223372036854775807},
		{name: "value exceeding max int64", input: 9223372036854775808, expected: 9223372036854775807},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, SafeUint64ToInt64(tt.input))
		})
	}
}

// TestIsFileExist tests the IsFileExist function.
func TestIsFileExist(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "RKDevTool.zip")

	exists, err := IsFileExist(filePath)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(filePath, []byte("zip"), constants.DefaultFilePermissions))

	exists, err = IsFileExist(filePath)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = IsFileExist(tempDir)
	require.NoError(t, err)
	assert.False(t, exists, "Directories should not be reported as files")
}

// TestResolveInsideDir tests the ResolveInsideDir function.
func TestResolveInsideDir(t *testing.T) {
	t.Parallel()

	baseDir := filepath.Join("work", "out")

	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "plain file",
			input:    "RKDevTool.exe",
			expected: filepath.Join(baseDir, "RKDevTool.exe"),
			ok:       true,
		},
		{
			name:     "nested file",
			input:    "bin/config.ini",
			expected: filepath.Join(baseDir, "bin", "config.ini"),
			ok:       true,
		},
		{
			name:     "inner parent reference",
			input:    "bin/../readme.txt",
			expected: filepath.Join(baseDir, "readme.txt"),
			ok:       true,
		},
		{name: "escapes base", input: "../evil.txt", ok: false},
		{name: "escapes through nested path", input: "bin/../../evil.txt", ok: false},
		{name: "absolute path", input: string(filepath.Separator) + "etc" + string(filepath.Separator) + "passwd", ok: false},
		{name: "empty name", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, ok := ResolveInsideDir(baseDir, tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// TestSanitizeArchivePath tests the SanitizeArchivePath function.
func TestSanitizeArchivePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "RKDevTool.exe", expected: "RKDevTool.exe"},
		{input: "bin/AFPTool.exe", expected: filepath.Join("bin", "AFPTool.exe")},
		{input: "bin/", expected: "bin"},
		{input: "../evil.txt", expected: "evil.txt"},
		{input: "bin/../../evil.txt", expected: filepath.Join("bin", "evil.txt")},
		{input: `Language\Chinese.ini`, expected: filepath.Join("Language", "Chinese.ini")},
		{input: "/etc/passwd", expected: filepath.Join("etc", "passwd")},
		{input: "./a//b/.", expected: filepath.Join("a", "b")},
		{input: "../", expected: ""},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			sanitized := SanitizeArchivePath(tt.input)
			assert.Equal(t, tt.expected, sanitized)

			_, ok := ResolveInsideDir("out", sanitized)
			assert.Equal(t, sanitized != "", ok, "Sanitized paths always stay inside the base directory")
		})
	}
}

// TestIsTextContentType tests the IsTextContentType function.
func TestIsTextContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		expected    bool
	}{
		{name: "plain text", contentType: "text/plain", expected: true},
		{name: "html with utf-8", contentType: "text/html; charset=utf-8", expected: true},
		{name: "json", contentType: "application/json", expected: true},
		{name: "xml", contentType: "application/xml", expected: true},
		{name: "atom xml", contentType: "application/atom+xml", expected: true},
		{name: "text with unsupported charset", contentType: "text/plain; charset=windows-1251", expected: false},
		{name: "zip", contentType: "application/zip", expected: false},
		{name: "octet stream", contentType: "application/octet-stream", expected: false},
		{name: "empty", contentType: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, IsTextContentType(tt.contentType))
		})
	}
}
