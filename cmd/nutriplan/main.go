package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"nutriplan"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("SETUP: Failed to load .env file", "error", err)
	}

	var cfg nutriplan.PlannerConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return fmt.Errorf("decoding planner config: %w", err)
	}

	app := &App{
		Config: cfg,
		IsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		},
		NewGenerator: newGenerator,
	}

	return NewRootCmd(app).Execute()
}
