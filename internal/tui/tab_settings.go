package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/tui/components"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldAge = iota
	settingsFieldGoal
	settingsFieldLow
	settingsFieldHigh
	settingsFieldTimezone
	settingsFieldTheme
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message
	saveErr error // non-nil if the last edit was rejected or not saved
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settingsT.editing = true
	a.settingsT.saved = false

	ti := newSettingsInput()
	z := a.zoneCfg

	switch a.settingsT.cursor {
	case settingsFieldAge:
		ti.Placeholder = strconv.Itoa(config.DefaultAge)
		ti.SetValue(strconv.Itoa(a.settings.Age))
	case settingsFieldGoal:
		ti.Placeholder = strconv.Itoa(config.DefaultDailyGoal)
		ti.SetValue(strconv.Itoa(a.settings.DailyGoal))
	case settingsFieldLow:
		ti.Placeholder = "0 derives from age"
		if z.LowBPM > 0 {
			ti.SetValue(strconv.FormatFloat(z.LowBPM, 'f', -1, 64))
		}
	case settingsFieldHigh:
		ti.Placeholder = "0 derives from age"
		if z.HighBPM > 0 {
			ti.SetValue(strconv.FormatFloat(z.HighBPM, 'f', -1, 64))
		}
	case settingsFieldTimezone:
		ti.Placeholder = "Europe/Berlin (empty for local)"
		ti.SetValue(z.Timezone)
	case settingsFieldTheme:
		names := make([]string, len(theme.All))
		for i, th := range theme.All {
			names[i] = th.Name
		}
		ti.Placeholder = strings.Join(names, ", ")
		ti.SetValue(theme.Active.Name)
	}

	ti.Focus()
	a.settingsT.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsT.saveErr = a.settingsSave(strings.TrimSpace(a.settingsT.input.Value()))
		a.settingsT.editing = false
		a.settingsT.saved = a.settingsT.saveErr == nil
		return a, nil
	case "esc":
		a.settingsT.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settingsT.input, cmd = a.settingsT.input.Update(msg)
	return a, cmd
}

// settingsSave applies val to the field under the cursor. Zone edits are
// validated by resolving them before anything is written to disk.
func (a *App) settingsSave(val string) error {
	cfg := loadConfigOrDefault()
	z := a.zoneCfg

	switch a.settingsT.cursor {
	case settingsFieldAge:
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("age: %w", err)
		}
		z.Age = n
	case settingsFieldGoal:
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("goal: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("%w: daily goal must be at least 1 minute", config.ErrInvalidZone)
		}
		z.DailyGoalMinutes = n
	case settingsFieldLow, settingsFieldHigh:
		f := 0.0
		if val != "" {
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("bpm: %w", err)
			}
			f = v
		}
		if a.settingsT.cursor == settingsFieldLow {
			z.LowBPM = f
		} else {
			z.HighBPM = f
		}
	case settingsFieldTimezone:
		z.Timezone = val
	case settingsFieldTheme:
		if theme.ByName(val).Name != val {
			return fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
		return config.Save(cfg)
	}

	if err := a.applyZone(z); err != nil {
		return err
	}
	cfg.Zone = z
	return config.Save(cfg)
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	zs := a.settings
	bpm := func(v float64, derived string) string {
		if v == 0 {
			return derived + " (from age)"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	tz := a.zoneCfg.Timezone
	if tz == "" {
		tz = zs.Location.String() + " (local)"
	}

	fields := []struct{ label, value string }{
		{"Age", fmt.Sprintf("%d (max HR %d)", zs.Age, zs.MaxHeartRate)},
		{"Daily goal", cli.FormatMinutes(zs.DailyGoal)},
		{"Zone low", bpm(a.zoneCfg.LowBPM, strconv.FormatFloat(zs.Bounds.Low, 'f', -1, 64))},
		{"Zone high", bpm(a.zoneCfg.HighBPM, strconv.FormatFloat(zs.Bounds.High, 'f', -1, 64))},
		{"Time zone", tz},
		{"Theme", t.Name},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		if a.settingsT.editing && i == a.settingsT.cursor {
			form.WriteString(markerStyle.Render("▸ "))
			form.WriteString(accentStyle.Render(fmt.Sprintf("%-14s ", f.label)))
			form.WriteString(a.settingsT.input.View())
			form.WriteString("\n")
			continue
		}

		if i == a.settingsT.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-14s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-14s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	switch {
	case a.settingsT.saveErr != nil:
		form.WriteString("\n")
		form.WriteString(warnStyle.Render("Not saved: " + a.settingsT.saveErr.Error()))
	case a.zoneErr != nil:
		form.WriteString("\n")
		form.WriteString(warnStyle.Render("Using defaults: " + a.zoneErr.Error()))
	case a.settingsT.saved:
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var info strings.Builder
	info.WriteString(labelStyle.Render("Export:        ") + valueStyle.Render(truncStr(a.exportPath, innerW-15)) + "\n")
	if a.load != nil {
		src := "parsed"
		if a.load.CacheHit {
			src = "extraction cache"
		}
		info.WriteString(labelStyle.Render("Loaded from:   ") + valueStyle.Render(src) + "\n")
	}
	info.WriteString(labelStyle.Render("Load time:     ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	refresh := "off"
	if a.autoRefresh {
		refresh = fmt.Sprintf("every %s", a.refreshInterval)
	}
	info.WriteString(labelStyle.Render("Auto refresh:  ") + valueStyle.Render(refresh) + "\n")
	info.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.Path()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", form.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", info.String(), cw))
	return b.String()
}
