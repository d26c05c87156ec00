//go:build windows
// +build windows

package cmd

import (
	"syscall"
	"unsafe"
)

var (
	kernel32                       = syscall.NewLazyDLL("kernel32.dll")
	procGetConsoleScreenBufferInfo = kernel32.NewProc("GetConsoleScreenBufferInfo")
)

type consoleCoord struct {
	X int16
	Y int16
}

type consoleRect struct {
	Left   int16
	Top    int16
	Right  int16
	Bottom int16
}

type consoleScreenBufferInfo struct {
	Size              consoleCoord
	CursorPosition    consoleCoord
	Attributes        int16
	Window            consoleRect
	MaximumWindowSize consoleCoord
}

// getTerminalSize reports the console window dimensions, or 0,0 when they
// cannot be determined (tview then falls back to its own detection).
func getTerminalSize() (int, int) {
	if cols, rows, ok := terminalSizeFromEnv(); ok {
		return cols, rows
	}

	var csbi consoleScreenBufferInfo
	ret, _, _ := procGetConsoleScreenBufferInfo.Call(
		uintptr(syscall.Stdout),
		uintptr(unsafe.Pointer(&csbi)))
	if ret == 0 {
		return 0, 0
	}

	// The window rect, not the buffer size: the buffer is usually taller.
	width := int(csbi.Window.Right - csbi.Window.Left + 1)
	height := int(csbi.Window.Bottom - csbi.Window.Top + 1)
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	return width, height
}
