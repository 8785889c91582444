// Command craft opens a window and draws a textured quad with wgpu until the
// window is closed or Escape is pressed.
//
// Settings are read from a .env file in the working directory and from
// CRAFT_* environment variables, which take precedence:
//
//	CRAFT_TITLE       window title (default "craft")
//	CRAFT_WIDTH       initial width in pixels (default 800)
//	CRAFT_HEIGHT      initial height in pixels (default 600)
//	CRAFT_BACKEND     all, primary, vulkan, metal, dx12 or gl
//	CRAFT_POWER       high-performance, low-power or none
//	CRAFT_GPU_DEBUG   true to enable GPU validation layers
//	CRAFT_LOG_LEVEL   debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/craft"
	"github.com/gogpu/craft/app"
	"github.com/gogpu/craft/renderer"
	"github.com/gogpu/craft/window"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	if err := run(); err != nil {
		craft.Logger().Error("craft failed", "err", err)
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := craft.LoadConfig(".env")
	if err != nil {
		return err
	}

	logger := slog.New(craft.NewLogHandler(os.Stderr, cfg.LogLevel))
	craft.SetLogger(logger)
	slog.SetDefault(logger)

	win, err := window.New(cfg.Title, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.New(win,
		renderer.WithBackends(cfg.Backends),
		renderer.WithPowerPreference(cfg.Power),
		renderer.WithDebug(cfg.Debug),
	)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.New(win, r).Run(ctx); err != nil {
		return err
	}
	craft.Logger().Info("exiting", "frames", r.Frames())
	return nil
}
