package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shapecanvas/internal/canvas"
	"shapecanvas/internal/export"
	"shapecanvas/internal/replay"
	"shapecanvas/internal/ui"
)

func newRenderCommand(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <script.yaml>",
		Short: "Replay an input script offscreen and write the canvas as PNG",
		Long: `Runs the events of a YAML script through a canvas session without opening a
window and renders the final scene to a PNG file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "canvas.png", "Output PNG file")

	return cmd
}

func runRender(cmd *cobra.Command, flags *rootFlags, scriptPath, output string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	sc, err := replay.Load(scriptPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("width") {
		sc.Width = flags.width
	}
	if cmd.Flags().Changed("height") {
		sc.Height = flags.height
	}
	opts, err := cfg.CanvasOptions()
	if err != nil {
		return err
	}
	var sessionOpts []canvas.SessionOption
	if cfg.Seed != 0 {
		sessionOpts = append(sessionOpts, canvas.WithSeed(cfg.Seed))
	}

	res, err := replay.Run(sc, opts, logger, sessionOpts...)
	if err != nil {
		return fmt.Errorf("replay %s: %w", scriptPath, err)
	}
	frame := export.FrameOf(res.Session, res.Frame.W, res.Frame.H, ui.DefaultTheme().Background)
	if err := export.WriteFile(output, frame); err != nil {
		return err
	}
	logger.Info("wrote png", "path", output, "shapes", res.Session.ShapeCount(), "events", res.Events)
	return nil
}
