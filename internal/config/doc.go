// Package config loads, normalizes, and validates subburn configuration.
//
// A single Config value is built at startup and handed by pointer to every
// component that needs an external binary, a directory, or a style knob.
// Relative paths are anchored at paths.install_dir so a bundled installation
// (tools, whisper models, work files) can be moved as one tree.
package config
