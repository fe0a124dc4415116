package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phanxgames/linkframe"
	"github.com/phanxgames/linkframe/ebitenui"
	"github.com/phanxgames/linkframe/hostevents"
	"github.com/phanxgames/linkframe/sqlitestore"
	"github.com/spf13/viper"
)

// appConfig is the merged result of defaults, the config file, and
// LINKFRAME_* environment variables.
type appConfig struct {
	DBPath      string `mapstructure:"db-path"`
	Session     string `mapstructure:"session"`
	RecentLimit int    `mapstructure:"recent-limit"`

	Width         int    `mapstructure:"width"`
	Height        int    `mapstructure:"height"`
	ShowFPS       bool   `mapstructure:"show-fps"`
	ScreenshotDir string `mapstructure:"screenshot-dir"`
	TestScript    string `mapstructure:"test-script"`

	LongPress     time.Duration `mapstructure:"long-press"`
	MoveTolerance float64       `mapstructure:"move-tolerance"`
	SwipeVelocity float64       `mapstructure:"swipe-velocity"`
	SwipeFraction float64       `mapstructure:"swipe-fraction"`

	WebhookEnabled bool   `mapstructure:"webhook-enabled"`
	WebhookAddr    string `mapstructure:"webhook-addr"`
	WebhookBuffer  int    `mapstructure:"webhook-buffer"`

	ConfigPath string `mapstructure:"-"`
}

func (c appConfig) gesture() linkframe.GestureConfig {
	return linkframe.GestureConfig{
		LongPress:     c.LongPress,
		MoveTolerance: c.MoveTolerance,
		SwipeVelocity: c.SwipeVelocity,
		SwipeFraction: c.SwipeFraction,
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("LINKFRAME")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "linkframe", "linkframe.db"))
	v.SetDefault("session", sqlitestore.DefaultSession)
	v.SetDefault("recent-limit", linkframe.DefaultRecentLimit)
	v.SetDefault("width", ebitenui.DefaultWidth)
	v.SetDefault("height", ebitenui.DefaultHeight)
	v.SetDefault("show-fps", false)
	v.SetDefault("screenshot-dir", ebitenui.DefaultScreenshotDir)
	v.SetDefault("test-script", "")
	v.SetDefault("long-press", linkframe.DefaultLongPress)
	v.SetDefault("move-tolerance", linkframe.DefaultMoveTolerance)
	v.SetDefault("swipe-velocity", linkframe.DefaultSwipeVelocity)
	v.SetDefault("swipe-fraction", linkframe.DefaultSwipeFraction)
	v.SetDefault("webhook-enabled", true)
	v.SetDefault("webhook-addr", hostevents.DefaultAddr)
	v.SetDefault("webhook-buffer", hostevents.DefaultBuffer)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "linkframe", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c appConfig) validate() error {
	if c.DBPath == "" {
		return errors.New("db-path is required")
	}
	if strings.TrimSpace(c.Session) == "" {
		return errors.New("session is required")
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("invalid recent-limit: %d", c.RecentLimit)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size: %dx%d", c.Width, c.Height)
	}
	if c.LongPress <= 0 {
		return fmt.Errorf("invalid long-press: %v", c.LongPress)
	}
	if c.MoveTolerance <= 0 || c.SwipeVelocity <= 0 {
		return fmt.Errorf("invalid gesture thresholds: tolerance %v, velocity %v", c.MoveTolerance, c.SwipeVelocity)
	}
	if c.SwipeFraction <= 0 || c.SwipeFraction > 1 {
		return fmt.Errorf("invalid swipe-fraction: %v", c.SwipeFraction)
	}
	if c.WebhookBuffer <= 0 {
		return fmt.Errorf("invalid webhook-buffer: %d", c.WebhookBuffer)
	}
	return nil
}
