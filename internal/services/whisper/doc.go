// Package whisper runs local speech recognition through the openai-whisper
// command line tool and converts its JSON output into transcript segments.
//
// The service always requests transcription in the source language (never
// whisper's built-in translation task); translation, when configured, happens
// per segment downstream. Checkpoints are loaded from the configured models
// directory so runs never download weights implicitly.
package whisper
