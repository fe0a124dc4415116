// Command linkframe runs the linkframe navigation shell in a window or a
// terminal and manages its stored state and links.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
	cfg    appConfig
)

var rootCmd = &cobra.Command{
	Use:   "linkframe",
	Short: "Swipe-navigated link shell",
	Long: `linkframe shows pinned and recently visited links across three views
(main, recent, detail). Swipe horizontally or use the arrow keys to move
between views; the current view survives restarts.

Run without arguments to open the window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if cmd == versionCmd {
			return nil
		}
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		cfg, err = loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("config loaded",
			zap.String("file", cfg.ConfigPath),
			zap.String("db", cfg.DBPath),
			zap.String("session", cfg.Session))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "linkframe %s\n", version)
		fmt.Fprintf(out, "  Commit: %s\n", commit)
		fmt.Fprintf(out, "  Built:  %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $HOME/.config/linkframe/config.yml)")

	rootCmd.AddCommand(runCmd, tuiCmd, stateCmd, linksCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
