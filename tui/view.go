package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/phanxgames/linkframe"
)

var (
	ColorAccent = lipgloss.Color("#3B5BDB")
	ColorPinned = lipgloss.Color("#F5B72B")
	ColorMuted  = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("#FFFFFF")

	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(ColorMuted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).
			Foreground(ColorWhite).Background(ColorAccent)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorWhite)
	pinStyle      = lipgloss.NewStyle().Foreground(ColorPinned)
	mutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
)

var tabs = [...]linkframe.View{linkframe.ViewMain, linkframe.ViewRecent, linkframe.ViewDetail}

// View implements tea.Model.
func (m *Model) View() string {
	state := m.sess.Snapshot()

	var b strings.Builder
	b.WriteString(renderTabs(state.CurrentView))
	b.WriteString("\n\n")

	if state.CurrentView == linkframe.ViewDetail {
		if l, ok := m.sess.SelectedLink(); ok {
			b.WriteString(renderDetail(l))
		} else {
			b.WriteString(mutedStyle.Render("nothing selected"))
		}
	} else {
		b.WriteString(renderList(m.sess.VisibleLinks(), m.sess.Selected(), m.width))
	}

	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(statusLine(m.sess.Host(), m.sess.Progress())))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderTabs(current linkframe.View) string {
	parts := make([]string, len(tabs))
	for i, v := range tabs {
		if v == current {
			parts[i] = activeTabStyle.Render(v.String())
		} else {
			parts[i] = tabStyle.Render(v.String())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderList(links []linkframe.Link, selected, width int) string {
	if len(links) == 0 {
		return mutedStyle.Render("no links yet")
	}
	maxChars := width - 4
	if width <= 0 {
		maxChars = 76
	}
	lines := make([]string, len(links))
	for i, l := range links {
		marker := "  "
		if l.Pinned {
			marker = pinStyle.Render("* ")
		}
		text := linkText(l, maxChars)
		if i == selected {
			text = selectedStyle.Render("> " + text)
		} else {
			text = "  " + text
		}
		lines[i] = marker + text
	}
	return strings.Join(lines, "\n")
}

func renderDetail(l linkframe.Link) string {
	lines := []string{
		selectedStyle.Render(l.Title),
		l.URL,
		mutedStyle.Render(fmt.Sprintf("visited at %d", l.Timestamp)),
	}
	if l.Pinned {
		lines = append(lines, pinStyle.Render("pinned"))
	}
	return strings.Join(lines, "\n")
}

func linkText(l linkframe.Link, maxChars int) string {
	text := l.Title
	if u, err := url.Parse(l.URL); err == nil && u.Host != "" {
		text += "  (" + u.Host + ")"
	}
	r := []rune(text)
	if maxChars > 3 && len(r) > maxChars {
		return string(r[:maxChars-3]) + "..."
	}
	return text
}

// statusLine summarizes the host status and any in-flight drag.
func statusLine(h linkframe.HostStatus, progress float64) string {
	parts := []string{"not added"}
	if h.Added {
		parts[0] = "added"
	}
	if h.NotificationsEnabled {
		parts = append(parts, "notifications on")
	}
	if h.LastRejection != "" {
		parts = append(parts, "rejected: "+h.LastRejection)
	}
	if progress != 0 {
		parts = append(parts, fmt.Sprintf("drag %+.0f%%", progress*100))
	}
	return strings.Join(parts, " | ")
}
