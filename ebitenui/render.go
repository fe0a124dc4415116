package ebitenui

import (
	"fmt"
	"image/color"
	"net/url"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/linkframe"
)

// Layout metrics in logical pixels. DebugPrint glyphs are 6x16.
const (
	headerHeight = 28
	rowHeight    = 22
	padding      = 8
	glyphWidth   = 6
)

// Theme holds the colors the renderer uses.
type Theme struct {
	Background   color.RGBA
	Header       color.RGBA
	HeaderActive color.RGBA
	RowSelected  color.RGBA
	Pinned       color.RGBA
}

// DefaultTheme returns a dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background:   color.RGBA{R: 0x12, G: 0x14, B: 0x1a, A: 0xff},
		Header:       color.RGBA{R: 0x1f, G: 0x23, B: 0x2d, A: 0xff},
		HeaderActive: color.RGBA{R: 0x3b, G: 0x5b, B: 0xdb, A: 0xff},
		RowSelected:  color.RGBA{R: 0x2a, G: 0x31, B: 0x45, A: 0xff},
		Pinned:       color.RGBA{R: 0xf5, G: 0xb7, B: 0x2b, A: 0xff},
	}
}

// Renderer draws a session snapshot: view tabs, the visible links, and a
// host status footer.
type Renderer struct {
	theme   Theme
	showFPS bool
}

// NewRenderer creates a renderer.
func NewRenderer(theme Theme, showFPS bool) *Renderer {
	return &Renderer{theme: theme, showFPS: showFPS}
}

var tabs = [...]linkframe.View{linkframe.ViewMain, linkframe.ViewRecent, linkframe.ViewDetail}

// Draw renders the session onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, s *linkframe.Session) {
	bounds := screen.Bounds()
	w, h := float32(bounds.Dx()), float32(bounds.Dy())
	state := s.Snapshot()

	screen.Fill(r.theme.Background)

	vector.DrawFilledRect(screen, 0, 0, w, headerHeight, r.theme.Header, false)
	tabW := w / float32(len(tabs))
	for i, v := range tabs {
		x := float32(i) * tabW
		if v == state.CurrentView {
			vector.DrawFilledRect(screen, x, 0, tabW, headerHeight, r.theme.HeaderActive, false)
		}
		ebitenutil.DebugPrintAt(screen, v.String(), int(x)+padding, 6)
	}

	ox := contentOffset(float64(w), s.SlideOffset(), s.Progress())
	maxChars := int(w)/glyphWidth - 2

	switch state.CurrentView {
	case linkframe.ViewDetail:
		l, ok := s.SelectedLink()
		if !ok {
			ebitenutil.DebugPrintAt(screen, "nothing selected", int(ox)+padding, headerHeight+padding)
			break
		}
		for i, line := range detailLines(l) {
			ebitenutil.DebugPrintAt(screen, truncate(line, maxChars), int(ox)+padding, headerHeight+padding+i*rowHeight)
		}
	default:
		links := s.VisibleLinks()
		if len(links) == 0 {
			ebitenutil.DebugPrintAt(screen, "no links yet", int(ox)+padding, headerHeight+padding)
		}
		for i, l := range links {
			y := float32(headerHeight + i*rowHeight)
			if y > h-rowHeight {
				break
			}
			if i == s.Selected() {
				vector.DrawFilledRect(screen, float32(ox), y, w, rowHeight, r.theme.RowSelected, false)
			}
			if l.Pinned {
				vector.DrawFilledRect(screen, float32(ox), y, 3, rowHeight, r.theme.Pinned, false)
			}
			ebitenutil.DebugPrintAt(screen, rowText(l, maxChars), int(ox)+padding, int(y)+3)
		}
	}

	ebitenutil.DebugPrintAt(screen, footerText(s.Host()), padding, int(h)-18)
	if r.showFPS {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("FPS: %.1f TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
			int(w)-150, int(h)-18)
	}
}

// contentOffset is the horizontal shift of the content area: the running
// slide animation plus the in-flight drag.
func contentOffset(width, slide, progress float64) float64 {
	return (slide + progress) * width
}

func rowText(l linkframe.Link, maxChars int) string {
	text := l.Title
	if u, err := url.Parse(l.URL); err == nil && u.Host != "" {
		text += "  (" + u.Host + ")"
	}
	return truncate(text, maxChars)
}

func detailLines(l linkframe.Link) []string {
	lines := []string{
		l.Title,
		l.URL,
		"visited " + time.UnixMilli(l.Timestamp).Format("2006-01-02 15:04"),
	}
	if l.Pinned {
		lines = append(lines, "pinned")
	}
	return lines
}

func footerText(h linkframe.HostStatus) string {
	text := "not added"
	if h.Added {
		text = "added"
	}
	if h.NotificationsEnabled {
		text += " | notifications on"
	}
	if h.LastRejection != "" {
		text += " | rejected: " + h.LastRejection
	}
	return text
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
