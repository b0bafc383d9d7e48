//go:build !windows

package main

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// detectTerminalWidth returns the width of the terminal attached to stdout or
// stderr, then $COLUMNS, or 0 when unknown.
func detectTerminalWidth() int {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		if ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil && ws != nil && ws.Col > 0 {
			return int(ws.Col)
		}
	}
	return columnsEnv()
}

func columnsEnv() int {
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
