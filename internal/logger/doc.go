// Package logger provides structured logging built on the Zap logging library.
// It keeps one global logger with an adjustable level and offers context-aware helpers,
// so a caller can attach a named or key-value enriched logger to a context and
// every log call made with that context picks it up.
package logger
