// Package pipeline runs one video through the subtitling state machine:
// init, preflight checks, audio extraction, transcription, overlay
// generation, composite, encode and cleanup.
//
// A Runner owns no state between runs. Each Run acquires the work directory
// lock, writes its overlays under a run-scoped directory and always removes
// the temporary audio track before returning a Summary. Errors never escape
// Run; callers inspect Summary.Err.
package pipeline
