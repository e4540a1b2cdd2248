// Package render draws outlined subtitle text onto transparent images.
//
// Layers computes the pure drawing plan: eight outline copies around the
// text followed by the fill copy, or the fill copy alone when both colors
// match. Renderer turns that plan into a PNG with one ImageMagick call.
package render
