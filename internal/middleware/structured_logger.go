package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig holds configuration for structured logging middleware
type LoggingConfig struct {
	SlowRequestThreshold time.Duration `json:"slow_request_threshold"`
	// Requests under these path prefixes are served without a completion log
	SkipPaths []string `json:"skip_paths"`
}

// DefaultLoggingConfig returns production-ready logging configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SlowRequestThreshold: time.Second,
		SkipPaths:            []string{"/health"},
	}
}

// StructuredLogging logs one line per completed request with its status,
// duration and response size, at a level derived from the outcome.
func StructuredLogging(config *LoggingConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipLogging(r.URL.Path, config.SkipPaths) {
				next.ServeHTTP(w, r)
				return
			}

			start := GetRequestStart(r.Context())
			writer := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(writer, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.Int("status", writer.Status()),
				zap.Duration("duration", duration),
				zap.Int64("response_size", writer.bytesWritten),
			}
			if r.URL.RawQuery != "" {
				fields = append(fields, zap.String("query", r.URL.RawQuery))
			}

			logger := GetRequestLogger(r.Context())
			switch getLogLevel(writer.Status(), duration, config) {
			case zapcore.ErrorLevel:
				logger.Error("HTTP request completed with error", fields...)
			case zapcore.WarnLevel:
				logger.Warn("HTTP request completed with warning", fields...)
			default:
				logger.Info("HTTP request completed", fields...)
			}
		})
	}
}

func getLogLevel(status int, duration time.Duration, config *LoggingConfig) zapcore.Level {
	if status >= 500 {
		return zapcore.ErrorLevel
	}
	if status >= 400 || (config.SlowRequestThreshold > 0 && duration > config.SlowRequestThreshold) {
		return zapcore.WarnLevel
	}
	return zapcore.InfoLevel
}

func skipLogging(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
