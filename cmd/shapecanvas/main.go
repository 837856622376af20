package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"shapecanvas/internal/app"
	"shapecanvas/internal/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

type rootFlags struct {
	configPath string
	logLevel   string
	width      int
	height     int
	seed       uint64
	watch      bool
}

func main() {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "shapecanvas",
		Short: "Shape Canvas - place, draw and pan shapes on a zoomable canvas",
		Long: `Shape Canvas opens a window with an infinite canvas. Click to place random
shapes, drag to grow new ones, pan and zoom the view, and edit a shape's color
and size from its popup.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.IntVar(&flags.width, "width", 0, "Canvas width in pixels")
	pf.IntVar(&flags.height, "height", 0, "Canvas height in pixels")
	pf.Uint64Var(&flags.seed, "seed", 0, "Seed for shape kinds, sizes and colors (0 picks one)")
	rootCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Reload the config file when it changes")

	rootCmd.AddCommand(newRenderCommand(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("width") {
		cfg.Window.Width = flags.width
	}
	if cmd.Flags().Changed("height") {
		cfg.Window.Height = flags.height
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = flags.seed
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	lvl, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func runWindow(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var updates <-chan config.Config
	if flags.watch {
		if flags.configPath == "" {
			return fmt.Errorf("--watch needs --config")
		}
		updates, err = config.Watch(ctx, flags.configPath, logger)
		if err != nil {
			return err
		}
		logger.Info("watching config", "path", flags.configPath)
	}

	application, err := app.New(cfg, logger, updates)
	if err != nil {
		return err
	}
	if err := application.Run(); err != nil {
		return fmt.Errorf("shapecanvas failed: %w", err)
	}
	return nil
}
