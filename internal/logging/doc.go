// Package logging provides structured logging utilities for worklens.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Event title anonymization (meeting subjects are treated as private)
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.acquire")
//	logger.Info("acquisition complete",
//	    logging.Events(len(events)),
//	    logging.Status(logging.StatusSuccess))
//
// Sanitize event titles before logging:
//
//	logger.Warn("dropping record", logging.TitleHash(raw.Subject))
package logging
