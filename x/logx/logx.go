// Package logx writes tagged log lines ("[tag] message") to a swappable
// writer. On the MCU the platform points it at USB CDC plus a UART.
package logx

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetOutput replaces the destination and returns the previous one.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	if w == nil {
		w = io.Discard
	}
	out = w
	return prev
}

// Println logs the operands separated by spaces.
func Println(tag string, a ...any) {
	write(tag, fmt.Sprintln(a...))
}

// Printf logs a formatted line. A trailing newline is added.
func Printf(tag, format string, a ...any) {
	write(tag, fmt.Sprintf(format, a...)+"\n")
}

func write(tag, line string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = io.WriteString(out, "["+tag+"] "+line)
}
