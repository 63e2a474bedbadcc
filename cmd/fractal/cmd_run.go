package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/fractal"
	"github.com/phanxgames/fractal/render"
)

var (
	windowWidth  int
	windowHeight int
	turnSpeed    float32
	watch        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window and animate the tree",
	Long: `Opens an Ebitengine window showing the tree.

Keys: Space pauses, R rebuilds, D toggles tick timings, Left/Right orbit the
camera, Up/Down tilt it, Q or Esc quits.

With --watch the --config file is reloaded and the tree rebuilt whenever the
file changes.`,
	RunE: runWindow,
}

func init() {
	runCmd.Flags().IntVar(&windowWidth, "width", 1280, "Window width")
	runCmd.Flags().IntVar(&windowHeight, "height", 720, "Window height")
	runCmd.Flags().Float32Var(&turnSpeed, "turn", 0.1, "Root turn speed, radians per second")
	runCmd.Flags().BoolVar(&watch, "watch", false, "Rebuild when the --config file changes")
}

func runWindow(cmd *cobra.Command, args []string) error {
	if watch && configPath == "" {
		return fmt.Errorf("--watch requires --config")
	}
	f, err := newFractal(cmd)
	if err != nil {
		return err
	}
	defer f.Disable()

	game := render.NewGame(f, logger, windowWidth, windowHeight)
	game.TurnSpeed = turnSpeed

	if watch {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			load := func() (fractal.Config, error) { return loadConfig(cmd) }
			if err := watchConfig(ctx, configPath, load, game.Reload); err != nil {
				logger.Error("config watcher stopped", zap.Error(err))
			}
		}()
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("fractal (depth %d)", f.Config().Depth))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("starting window",
		zap.Int("width", windowWidth),
		zap.Int("height", windowHeight),
		zap.Int("parts", f.Tree().PartCount()),
	)
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
