// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//
// Helper methods locate the primary video stream, report its dimensions and
// frame rate, and report whether the container carries audio.
package ffprobe
