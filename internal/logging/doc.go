// Package logging assembles structured slog loggers used across subburn.
//
// It owns the console and JSON handlers, the level and output plumbing, a
// fan-out handler for duplicating records, and a callback handler that turns
// records into plain progress lines for callers that supply a log function.
// Context helpers tag lines with the run ID and pipeline stage.
package logging
