// Package utils provides small helpers shared across the application:
// safe integer conversion, file checks, path containment and content type detection.
package utils
