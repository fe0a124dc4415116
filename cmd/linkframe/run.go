package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/phanxgames/linkframe"
	"github.com/phanxgames/linkframe/ebitenui"
	"github.com/phanxgames/linkframe/hostevents"
	"github.com/phanxgames/linkframe/sqlitestore"
	"github.com/phanxgames/linkframe/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the linkframe window",
	Long: `Opens an Ebitengine window. Drag horizontally with the mouse or a finger
to change views; press and hold to pin the selected link.

Keys: arrows navigate, Enter opens, Escape closes, [ and ] swipe,
P toggles the pin, F12 saves a screenshot.`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run linkframe in the terminal",
	Long: `Runs the same session in the terminal. Mouse drags act as swipes.
Logs go to linkframe-tui.log next to the database.`,
	Args: cobra.NoArgs,
	RunE: runTerminal,
}

func runWindow(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(sess *linkframe.Session) error {
		return ebitenui.Run(sess, ebitenui.RunConfig{
			Width:         cfg.Width,
			Height:        cfg.Height,
			ShowFPS:       cfg.ShowFPS,
			ScreenshotDir: cfg.ScreenshotDir,
			Logger:        logger.Named("ui"),
		})
	})
}

func runTerminal(cmd *cobra.Command, args []string) error {
	// The terminal belongs to bubbletea; keep log lines out of it.
	fileLog, err := fileLogger(filepath.Join(filepath.Dir(cfg.DBPath), "linkframe-tui.log"))
	if err != nil {
		return err
	}
	logger = fileLog
	return withSession(cmd.Context(), tui.Run)
}

func fileLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

func openStore() (*sqlitestore.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return sqlitestore.Open(cfg.DBPath, cfg.Session)
}

func newSession(store *sqlitestore.Store) (*linkframe.Session, error) {
	sess, err := linkframe.NewSession(linkframe.SessionConfig{
		Gesture:     cfg.gesture(),
		Store:       store,
		Links:       store,
		RecentLimit: cfg.RecentLimit,
		Logger:      logger,
		Width:       float64(cfg.Width),
	})
	if err != nil {
		return nil, err
	}
	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			sess.Close()
			return nil, fmt.Errorf("reading test script: %w", err)
		}
		runner, err := linkframe.LoadTestScript(data)
		if err != nil {
			sess.Close()
			return nil, err
		}
		sess.SetTestRunner(runner)
		logger.Info("test script loaded", zap.String("path", cfg.TestScript))
	}
	return sess, nil
}

// withSession opens the store and a session, starts the host webhook when
// enabled, and runs front on the calling goroutine. Ebitengine requires the
// main goroutine, so only the webhook runs in the errgroup.
func withSession(ctx context.Context, front func(*linkframe.Session) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := newSession(store)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.WebhookEnabled {
		srv := hostevents.NewServer(cfg.WebhookAddr, cfg.WebhookBuffer, logger.Named("webhook"))
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting webhook: %w", err)
		}
		sess.SetHostEvents(srv.Events())
		g.Go(func() error {
			<-gctx.Done()
			return srv.Stop()
		})
	}

	frontErr := front(sess)
	cancel()
	if err := g.Wait(); err != nil {
		logger.Warn("webhook shutdown", zap.Error(err))
	}
	return frontErr
}
