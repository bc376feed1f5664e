// Package logger builds the debug logger of a bare-metal program.
// The line ending follows the console the output ends up on.
package logger

import (
	"bytes"
	"io"
	"log"
)

type Console int

const (
	CONSOLE_NONE        Console = iota // debug printing compiled out
	CONSOLE_SEMIHOSTING                // host debugger console
	CONSOLE_UART                       // serial terminal
)

// NL returns the line ending for the console.
func (c Console) NL() string {
	if c == CONSOLE_UART {
		return "\r\n"
	}
	return "\n"
}

// New returns a logger writing "DEBUG: " prefixed lines to w.
// For CONSOLE_NONE nothing is written and w may be nil.
func New(w io.Writer, console Console) *log.Logger {
	if console == CONSOLE_NONE || w == nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(&lineEndingWriter{w: w, nl: []byte(console.NL())}, "DEBUG: ", 0)
}

// lineEndingWriter replaces the trailing "\n" of each log line with nl.
type lineEndingWriter struct {
	w  io.Writer
	nl []byte
}

func (obj *lineEndingWriter) Write(p []byte) (int, error) {
	if !bytes.HasSuffix(p, []byte("\n")) || bytes.Equal(obj.nl, []byte("\n")) {
		return obj.w.Write(p)
	}
	line := make([]byte, 0, len(p)-1+len(obj.nl))
	line = append(line, p[:len(p)-1]...)
	line = append(line, obj.nl...)
	_, err := obj.w.Write(line)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}
