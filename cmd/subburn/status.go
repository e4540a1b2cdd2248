package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func passFail(passed, colorize bool) string {
	label, color := "FAIL", ansiRed
	if passed {
		label, color = "OK", ansiGreen
	}
	if !colorize {
		return label
	}
	return color + label + ansiReset
}
