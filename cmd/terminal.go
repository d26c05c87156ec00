package cmd

import (
	"os"
	"strconv"
)

// terminalSizeFromEnv reads COLUMNS/LINES, which remote shells and CI
// environments set when no tty is attached.
func terminalSizeFromEnv() (cols, rows int, ok bool) {
	c, errC := strconv.Atoi(os.Getenv("COLUMNS"))
	r, errR := strconv.Atoi(os.Getenv("LINES"))
	if errC != nil || errR != nil || c <= 0 || r <= 0 {
		return 0, 0, false
	}
	return c, r, true
}
