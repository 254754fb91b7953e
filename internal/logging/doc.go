// Package logging provides structured logging utilities for the lucident
// application.
//
// This package centralizes logging patterns to ensure consistent,
// structured logging throughout the codebase using the standard library's
// slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "availability.free_slots")
//	logger.Info("computed free slots",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("account operation",
//	    logging.UserHash(email))
//
// # Security Considerations
//
// Account identifiers are typically email addresses. They are hashed before
// logging to prevent PII leakage while still allowing correlation.
package logging
