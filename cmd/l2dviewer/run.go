package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-l2d/config"
	"github.com/Carmen-Shannon/oxy-l2d/engine/l2d"
	"github.com/Carmen-Shannon/oxy-l2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy-l2d/engine/session"
	"github.com/Carmen-Shannon/oxy-l2d/engine/surface"
	"github.com/Carmen-Shannon/oxy-l2d/engine/window"
	"github.com/Carmen-Shannon/oxy-l2d/engine/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	headless     bool
	trace        bool
	watch        bool
	initialModel string
	duration     time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the viewer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, duration)
			defer cancel()
		}
		return runViewer(ctx)
	},
}

func init() {
	runCmd.Flags().BoolVar(&headless, "headless", false, "Draw to a virtual surface instead of a window")
	runCmd.Flags().BoolVar(&trace, "trace", false, "Spawn a worker that only logs the commands it receives")
	runCmd.Flags().BoolVar(&watch, "watch", false, "Reload the current model when its files change")
	runCmd.Flags().StringVarP(&initialModel, "model", "m", "", "Model to load on start (default: the first one)")
	runCmd.Flags().DurationVar(&duration, "duration", 0, "Exit after this long (0 = until closed)")
}

// newSpawner registers the worker program the session spawns: the rendering program, or a
// command recorder when tracing.
func newSpawner(c *config.Config, logger *zap.Logger, tracing bool) worker.Registry {
	reg := worker.NewRegistry(worker.WithLogger(logger))
	if tracing {
		reg.Register(c.WorkerPath, worker.RecorderFactory(worker.NewRecorder(0, logger.Named("trace"))))
		return reg
	}

	presentMode := renderer.PresentModeUncapped
	if c.Render.VSync {
		presentMode = renderer.PresentModeVSync
	}
	l2d.Register(reg, c.WorkerPath,
		l2d.WithFrameLimit(c.Render.FrameLimit),
		l2d.WithProfiling(c.Render.Profiling),
		l2d.WithRendererOptions(
			renderer.WithPresentMode(presentMode),
			renderer.WithForceFallbackAdapter(c.Render.ForceFallbackAdapter),
		),
	)
	return reg
}

// newViewerSession builds the session and the viewer driving it.
func newViewerSession(c *config.Config, logger *zap.Logger, spawner worker.Spawner) (session.Session, *viewer) {
	models := c.Models
	if len(models) == 0 {
		found, err := discoverModels(c.ResourcePath)
		if err != nil {
			logger.Warn("model discovery failed", zap.Error(err))
		}
		models = found
	}
	if len(models) > 9 {
		logger.Warn("only the first 9 models are bound to keys", zap.Int("found", len(models)))
		models = models[:9]
	}

	s := session.NewSession(
		session.WithResourcePath(c.ResourcePath),
		session.WithWorkerPath(c.WorkerPath),
		session.WithSpawner(spawner),
		session.WithLogger(logger),
		session.WithMotions(c.Motions...),
	)
	return s, newViewer(s, models, logger)
}

func runViewer(ctx context.Context) error {
	s, v := newViewerSession(cfg, logger, newSpawner(cfg, logger, trace))

	var canvas surface.Surface
	var win window.Window
	// The worker releases its renderer before the window destroys the surface under it.
	defer func() {
		_ = s.Close()
		if win != nil {
			_ = win.Close()
		}
	}()

	if headless {
		canvas = surface.NewVirtual(cfg.Window.Width, cfg.Window.Height)
	} else {
		var err error
		win, err = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
		if err != nil {
			return err
		}
		canvas = win
	}

	if err := s.Initialize(canvas); err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}

	if watch {
		mw, err := newModelWatcher(logger.Named("watch"), 500*time.Millisecond, v.Reload)
		if err != nil {
			return err
		}
		defer mw.Stop()
		v.onSelect = func(name string) { mw.Follow(cfg.ResourcePath + name) }
		mw.Start(ctx)
	}

	if initialModel != "" {
		if !v.SelectModelByName(initialModel) {
			return fmt.Errorf("unknown model %q", initialModel)
		}
	} else if !v.SelectModel(0) {
		logger.Warn("no models to load", zap.String("resourcePath", cfg.ResourcePath))
	}

	if win == nil {
		<-ctx.Done()
		return nil
	}

	win.SetKeyDownCallback(v.HandleKey)
	win.SetUpdateCallback(func() {
		if ctx.Err() != nil {
			_ = win.Close()
		}
	})
	win.ProcessMessages()
	return nil
}
