// Package ebitenui runs a linkframe Session in an Ebitengine window: it
// polls mouse, touch, and keyboard input every tick, advances the session,
// and draws the current view.
package ebitenui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/linkframe"
	"go.uber.org/zap"
)

// Default window settings.
const (
	DefaultWidth         = 424
	DefaultHeight        = 695
	DefaultTitle         = "linkframe"
	DefaultScreenshotDir = "screenshots"
)

// RunConfig configures Run. Zero fields take the defaults above.
type RunConfig struct {
	Title         string
	Width         int
	Height        int
	ShowFPS       bool
	ScreenshotDir string
	Theme         *Theme
	Logger        *zap.Logger
}

func (c RunConfig) withDefaults() RunConfig {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = DefaultScreenshotDir
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// Game implements ebiten.Game for a session.
type Game struct {
	sess     *linkframe.Session
	src      *Source
	renderer *Renderer
	cfg      RunConfig
	log      *zap.Logger
}

// NewGame creates a Game reading live ebiten input.
func NewGame(sess *linkframe.Session, cfg RunConfig) *Game {
	cfg = cfg.withDefaults()
	return newGame(sess, NewSource(sess, cfg.Width, cfg.Height), cfg)
}

func newGame(sess *linkframe.Session, src *Source, cfg RunConfig) *Game {
	theme := DefaultTheme()
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	sess.SetSurfaceWidth(float64(cfg.Width))
	return &Game{
		sess:     sess,
		src:      src,
		renderer: NewRenderer(theme, cfg.ShowFPS),
		cfg:      cfg,
		log:      cfg.Logger,
	}
}

// Update polls input and advances the session by one tick.
func (g *Game) Update() error {
	now := g.sess.Now()
	g.src.Poll(now)
	g.sess.Update(now)
	return nil
}

// Draw renders the session and writes any queued screenshots.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.sess)
	flushScreenshots(screen, g.sess.TakeScreenshots(), g.cfg.ScreenshotDir, g.log)
}

// Layout keeps the logical screen at the configured size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Run opens a window and blocks until it is closed.
func Run(sess *linkframe.Session, cfg RunConfig) error {
	cfg = cfg.withDefaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	cfg.Logger.Info("opening window",
		zap.String("title", cfg.Title), zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
	if err := ebiten.RunGame(NewGame(sess, cfg)); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
