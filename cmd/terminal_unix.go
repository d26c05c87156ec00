//go:build !windows
// +build !windows

package cmd

import (
	"os"
	"syscall"
	"unsafe"
)

// getTerminalSize reports the terminal dimensions, or 0,0 when they cannot
// be determined (tview then falls back to its own detection).
func getTerminalSize() (int, int) {
	if cols, rows, ok := terminalSizeFromEnv(); ok {
		return cols, rows
	}

	var ws struct {
		Row    uint16
		Col    uint16
		Xpixel uint16
		Ypixel uint16
	}
	// Query stdout: stdin may be redirected when the command is piped.
	ret, _, _ := syscall.Syscall(syscall.SYS_IOCTL,
		os.Stdout.Fd(),
		uintptr(syscall.TIOCGWINSZ),
		uintptr(unsafe.Pointer(&ws)))
	if int(ret) == -1 {
		return 0, 0
	}
	return int(ws.Col), int(ws.Row)
}
