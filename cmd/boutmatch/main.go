package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// printLogo writes the BoutMatch banner
func printLogo(w io.Writer) {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"     ____              _   __  __       _       _      ",
		"    | __ )  ___  _   _| |_|  \\/  | __ _| |_ ___| |__   ",
		"    |  _ \\ / _ \\| | | | __| |\\/| |/ _` | __/ __| '_ \\  ",
		"    | |_) | (_) | |_| | |_| |  | | (_| | || (__| | | | ",
		"    |____/ \\___/ \\__,_|\\__|_|  |_|\\__,_|\\__\\___|_| |_| ",
	}

	fmt.Fprintf(w, "\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		if len(line) < width {
			line += strings.Repeat(" ", width-len(line))
		}
		fmt.Fprintf(w, "  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Fprintf(w, "  %s╚%s╝%s\n\n", cyan, border, reset)
}

func newCLI() *cli.App {
	return &cli.App{
		Name:    "boutmatch",
		Usage:   "pair entrants into bouts and keep team standings",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			matchCommand(),
			{
				Name:  "version",
				Usage: "show version and exit",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "boutmatch %s\n", version)
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
