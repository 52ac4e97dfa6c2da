//go:build !linux && !darwin

package main

import (
	"io"
	"os"

	"github.com/abrezinsky/boutmatch/internal/logger"
)

// listenForKeyboard reads stdin line-buffered; shortcuts take effect after Enter
func listenForKeyboard(w io.Writer, appLog logger.Logger, quit func()) {
	readKeys(os.Stdin, w, appLog, quit)
}
