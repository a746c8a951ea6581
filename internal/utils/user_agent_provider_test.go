package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewStaticUserAgentProvider tests the NewStaticUserAgentProvider function.
func TestNewStaticUserAgentProvider(t *testing.T) {
	t.Parallel()

	provider := NewStaticUserAgentProvider("TestAgent/1.0", "Fallback/1.0")

	assert.NotNil(t, provider)
	assert.Implements(t, (*UserAgentProvider)(nil), provider)
}

// TestStaticUserAgentProvider_GetUserAgent tests the GetUserAgent method.
func TestStaticUserAgentProvider_GetUserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		preferred string
		fallback  string
		expected  string
	}{
		{
			name:      "preferred user agent",
			preferred: "Mozilla/5.0",
			fallback:  "rkdevtool-grabber/1.0.0",
			expected:  "Mozilla/5.0",
		},
		{
			name:      "preferred is trimmed",
			preferred: "  Mozilla/5.0 ",
			fallback:  "rkdevtool-grabber/1.0.0",
			expected:  "Mozilla/5.0",
		},
		{
			name:      "blank preferred uses fallback",
			preferred: "   ",
			fallback:  "rkdevtool-grabber/1.0.0",
			expected:  "rkdevtool-grabber/1.0.0",
		},
		{
			name:      "both empty",
			preferred: "",
			fallback:  "",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := NewStaticUserAgentProvider(tt.preferred, tt.fallback)
			assert.Equal(t, tt.expected, provider.GetUserAgent())
		})
	}
}
