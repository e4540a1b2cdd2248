// Package language normalizes the language values users type (codes, tags,
// English or native words) into the ISO 639-1 codes the recognition engine and
// translator expect.
package language
