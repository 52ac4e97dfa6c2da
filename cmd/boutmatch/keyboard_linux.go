//go:build linux

package main

import (
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/abrezinsky/boutmatch/internal/logger"
)

// listenForKeyboard reads single keystrokes from a terminal on stdin
func listenForKeyboard(w io.Writer, appLog logger.Logger, quit func()) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		// not a terminal
		return
	}

	// Disable canonical mode and echo, keep output processing
	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &newState); err != nil {
		return
	}
	defer unix.IoctlSetTermios(fd, unix.TCSETS, oldState)

	readKeys(os.Stdin, w, appLog, quit)
}
