package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"vibration-logger/pkg/config"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Run struct {
		Mock bool `help:"Use simulated sensors instead of real hardware"`
	} `cmd:"" help:"Run the data-logging appliance"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a default configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "run":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("failed to load configuration", "path", CLI.Config, "error", err)
			os.Exit(1)
		}
		if err := runAppliance(cfg, CLI.Run.Mock); err != nil {
			slog.Error("startup failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := writeDefaultConfig(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("init failed", "error", err)
			os.Exit(1)
		}
	}
}

// writeDefaultConfig writes the default configuration, refusing to clobber an
// existing file unless forced.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := config.Default().Save(path); err != nil {
		return err
	}
	slog.Info("configuration written", "path", path)
	return nil
}
