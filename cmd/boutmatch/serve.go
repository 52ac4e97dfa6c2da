package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/abrezinsky/boutmatch/internal/app"
	"github.com/abrezinsky/boutmatch/internal/auth"
	"github.com/abrezinsky/boutmatch/internal/config"
	"github.com/abrezinsky/boutmatch/internal/logger"
	"github.com/abrezinsky/boutmatch/pkg/scoreboard"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the admin API and live updates server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"BOUTMATCH_CONFIG"}},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port (default 8081)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (default \"boutmatch.db\")"},
			&cli.StringFlag{Name: "adminpw", Usage: "admin password (generated if not set)"},
			&cli.StringFlag{Name: "loglevel", Usage: "log level: debug, info, warn, error"},
			&cli.BoolFlag{Name: "nologo", Usage: "skip the startup banner"},
			&cli.BoolFlag{Name: "nokeyboard", Usage: "disable keyboard shortcuts"},
		},
		Action: runServe,
	}
}

// loadServeConfig layers command-line flags over the loaded configuration
func loadServeConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}
	if c.IsSet("adminpw") {
		cfg.Server.AdminPassword = c.String("adminpw")
	}
	if c.IsSet("loglevel") {
		cfg.Log.Level = c.String("loglevel")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(c *cli.Context) error {
	cfg, err := loadServeConfig(c)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if !c.Bool("nologo") {
		printLogo(out)
	}

	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	})
	if cfg.Log.HTTPLogging {
		appLog.EnableHTTPLogging()
	}

	password := cfg.Server.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	board := scoreboard.NewHTTPClient(cfg.Scoreboard.URL, appLog)
	board.SetAPIKey(cfg.Scoreboard.APIKey)

	a, err := app.New(appLog, cfg, board, adminAuth)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	appLog.Info("Admin password", "password", password)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(fmt.Sprintf(":%d", cfg.Server.Port))
	}()

	if !c.Bool("nokeyboard") {
		printKeyboardHelp(out)
		go listenForKeyboard(out, appLog, stop)
	}

	select {
	case err := <-serverErr:
		if cerr := a.Close(); err == nil {
			err = cerr
		}
		return err
	case <-ctx.Done():
		fmt.Fprintf(out, "%sShutting down server...%s\n", yellow, reset)
		if err := a.Close(); err != nil {
			return err
		}
		return <-serverErr
	}
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp(w io.Writer) {
	fmt.Fprintf(w, "\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Fprintf(w, "    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Fprintf(w, "    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Fprintf(w, "    %sq%s      - Quit server\n", cyan, reset)
	fmt.Fprintf(w, "    %s?%s      - Show this help\n\n", cyan, reset)
}
