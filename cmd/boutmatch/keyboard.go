package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/abrezinsky/boutmatch/internal/logger"
)

// levelCycle is the order the l shortcut walks through
var levelCycle = map[slog.Level]string{
	slog.LevelDebug: "info",
	slog.LevelInfo:  "warn",
	slog.LevelWarn:  "error",
	slog.LevelError: "debug",
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(w io.Writer, appLog logger.Logger) {
	next, ok := levelCycle[appLog.GetLevel()]
	if !ok {
		next = "info"
	}
	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Fprintf(w, "%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// handleKey performs the shortcut bound to key. It reports false once the
// key asked the server to stop.
func handleKey(w io.Writer, key byte, appLog logger.Logger, quit func()) bool {
	switch key {
	case 'h', 'H':
		if appLog.IsHTTPLoggingEnabled() {
			appLog.DisableHTTPLogging()
			fmt.Fprintf(w, "%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			appLog.EnableHTTPLogging()
			fmt.Fprintf(w, "%sHTTP logging enabled%s\n", green, reset)
		}
	case 'l', 'L':
		cycleLogLevel(w, appLog)
	case '?':
		printKeyboardHelp(w)
	case 'q', 'Q', 0x03: // Ctrl+C arrives as a byte in raw mode
		quit()
		return false
	}
	return true
}

// readKeys dispatches bytes from r until a quit key or a read error
func readKeys(r io.Reader, w io.Writer, appLog logger.Logger, quit func()) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if !handleKey(w, buf[0], appLog, quit) {
			return
		}
	}
}
