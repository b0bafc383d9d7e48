//go:build windows

package main

import (
	"os"
	"strconv"

	"golang.org/x/sys/windows"
)

func detectTerminalWidth() int {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(os.Stdout.Fd()), &info); err == nil {
		if w := int(info.Window.Right-info.Window.Left) + 1; w > 1 {
			return w
		}
	}
	if cols, ok := os.LookupEnv("COLUMNS"); ok {
		if n, err := strconv.Atoi(cols); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
