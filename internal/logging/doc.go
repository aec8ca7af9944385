// Package logging provides structured logging utilities for flok.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard library's
// slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (account ids are hashed, tokens are masked)
//   - Consistent attribute naming across the codebase
//   - Stderr-only output so MCP stdio framing stays clean
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "mail.list")
//	logger.Info("listing messages", logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("token refreshed",
//	    logging.AccountHash(account),
//	    slog.String("token", logging.SanitizeToken(token)))
package logging
