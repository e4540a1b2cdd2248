// Package audio extracts the speech-recognition track from a video and
// verifies its format.
//
// Extract drives the external encoder to produce a mono, 16 kHz, 16-bit PCM
// WAV file. Validate decodes the RIFF header with go-audio/wav and rejects
// anything else, so recognition never runs on a truncated or mis-encoded
// file. Failures surface as *services.AudioExtractionError.
package audio
