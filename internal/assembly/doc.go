// Package assembly composites subtitle overlays onto the source video and
// encodes the result.
//
// FilterGraph builds the ffmpeg overlay chain; WriteFilterScript stores it so
// long subtitle tracks do not hit argument length limits. Encoder runs a
// single ffmpeg pass that maps the composited video, copies the source audio
// unchanged and keeps the source frame rate.
package assembly
