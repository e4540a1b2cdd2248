// Package overlay converts transcript segments into positioned subtitle
// images.
//
// Builder handles a single segment: it skips empty or zero-length segments,
// optionally translates the text, normalizes spacing, wraps to the configured
// width and line count, renders the image and places it bottom-center for
// the segment's [start, end) window. Failures never escape Build; they come
// back as a Drop with a reason.
//
// BuildAll fans segments out over at most min(len(segments), 8) workers and
// collects clips in completion order. The composite step is insensitive to
// clip order, so no sorting is done.
package overlay
