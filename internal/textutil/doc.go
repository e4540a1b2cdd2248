// Package textutil prepares transcribed or translated text for subtitle layout.
//
// FixSpacing repairs sentence punctuation that speech recognition and machine
// translation tend to glue to the following word ("Hi.World"). Wrap and
// WrapLines perform greedy word wrapping by rune count so a subtitle never
// exceeds the configured characters per line or number of lines.
package textutil
