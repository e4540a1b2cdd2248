// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations beneath it.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper for tool failures.
//   - The run error taxonomy (dependency, extraction, transcription,
//     translation, render, no-overlays) and Fatal, which separates errors that
//     end a run from per-segment failures that only drop a subtitle.
//
// Use these helpers when wiring new stage logic so failure handling stays
// uniform across the pipeline.
package services
