package components

import (
	"fmt"

	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar shows on its right side.
type StatusInfo struct {
	Source     string // export path
	DataAge    string
	CacheHit   bool
	Refreshing bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [?]help  [r]efresh  [q]uit"

	right := ""
	switch {
	case info.Refreshing:
		right = "refreshing... "
	case info.DataAge != "":
		src := "parsed"
		if info.CacheHit {
			src = "cached"
		}
		right = fmt.Sprintf("%s in %s ", src, info.DataAge)
	}
	if info.Source != "" {
		avail := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
		if avail > 10 {
			right = truncLeft(info.Source, avail) + "  " + right
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return style.Render(left + fmt.Sprintf("%*s", padding, "") + right)
}

// truncLeft keeps the tail of s, which is the informative end of a path.
func truncLeft(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return "…" + string(runes[len(runes)-limit+1:])
}
