// Package tui provides the interactive Bubble Tea dashboard for zone5.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/zone5/internal/cli"
	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/github"
	"github.com/theirongolddev/zone5/internal/pipeline"
	"github.com/theirongolddev/zone5/internal/store"
	"github.com/theirongolddev/zone5/internal/tui/components"
	"github.com/theirongolddev/zone5/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the extraction finishes, successfully or not.
type DataLoadedMsg struct {
	Load     *pipeline.CachedLoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports how many export records have been read so far.
type ProgressMsg struct {
	Records int
}

// RefreshDataMsg is sent when a background re-read of the export completes.
type RefreshDataMsg struct {
	Load     *pipeline.CachedLoadResult
	Err      error
	LoadTime time.Duration
}

// GitHubMsg is sent when the weekly GitHub activity fetch completes.
type GitHubMsg struct {
	Result github.WeeklyResult
}

// Options configures a dashboard session.
type Options struct {
	ExportPath string
	Zone       config.ZoneConfig
	UseCache   bool
	// RefreshInterval enables periodic re-reads of the export when > 0.
	RefreshInterval time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	load     *pipeline.CachedLoadResult
	analysis *pipeline.Analysis
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Zone settings; zoneErr holds the last failed re-resolve.
	zoneCfg  config.ZoneConfig
	settings config.ZoneSettings
	zoneErr  error

	// Weekly GitHub activity; nil until the first fetch completes.
	gh           *github.WeeklyResult
	ghFetching   bool
	ghConfigured bool
	ghTicks    int // counts ticks for periodic refresh

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	days      daysState
	settingsT settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner  spinner.Model
	progress int
	loadSub  chan tea.Msg

	exportPath string
	useCache   bool
	now        func() time.Time
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5

	defaultRefreshInterval = 60 * time.Second
	minRefreshInterval     = 10 * time.Second

	githubRefreshTicks = 1200 // 5 minutes at 250ms per tick
	githubTimeout      = 30 * time.Second
)

const (
	tabOverview = iota
	tabDays
	tabGraph
	tabActivity
	tabSettings
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	settings, zoneErr := opts.Zone.Resolve()
	if zoneErr != nil {
		// Fall back to defaults so the dashboard still renders; the
		// Settings tab shows the error.
		settings, _ = config.ZoneConfig{}.Resolve()
	}

	interval := opts.RefreshInterval
	if interval > 0 && interval < minRefreshInterval {
		interval = minRefreshInterval
	}

	return App{
		zoneCfg:         opts.Zone,
		settings:        settings,
		zoneErr:         zoneErr,
		autoRefresh:     interval > 0,
		refreshInterval: interval,
		needSetup:       !config.Exists(),
		ghConfigured:    githubClient() != nil,
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
		exportPath:      opts.ExportPath,
		useCache:        opts.UseCache,
		now:             time.Now,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.exportPath, a.useCache, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	}
	if client := githubClient(); client != nil {
		cmds = append(cmds, fetchGitHubCmd(client))
	}
	return tea.Batch(cmds...)
}

// recompute re-derives every view model from the extraction. Extraction
// does not depend on the zone settings, so settings changes never reload.
func (a *App) recompute() {
	if a.load == nil {
		a.analysis = nil
		return
	}
	a.analysis = pipeline.Analyze(a.load.Extract, a.settings, a.now())
	if a.days.cursor >= len(a.analysis.Days) {
		a.days.cursor = max(0, len(a.analysis.Days)-1)
	}
}

// applyZone re-resolves cfg and recomputes when it is valid.
func (a *App) applyZone(cfg config.ZoneConfig) error {
	zs, err := cfg.Resolve()
	if err != nil {
		return err
	}
	a.zoneCfg = cfg
	a.settings = zs
	a.zoneErr = nil
	a.recompute()
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabDays {
				a.days.move(-1, a.dayCount())
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabDays {
				a.days.move(1, a.dayCount())
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = a.now()
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.load = msg.Load
		a.recompute()

		if a.needSetup {
			a.setupVals = SetupValuesFrom(loadConfigOrDefault())
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Records
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case GitHubMsg:
		res := msg.Result
		a.gh = &res
		a.ghFetching = false
		return a, nil

	case tickMsg:
		a.ghTicks++
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && !a.ghFetching && a.ghTicks >= githubRefreshTicks {
			a.ghTicks = 0
			if client := githubClient(); client != nil {
				a.ghFetching = true
				cmds = append(cmds, fetchGitHubCmd(client))
			}
		}
		if a.loaded && a.load != nil && a.autoRefresh && !a.refreshing &&
			a.now().Sub(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.exportPath, a.useCache), a.spinner.Tick)
		}
		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = a.now()
		if msg.Err == nil && msg.Load != nil {
			a.load = msg.Load
			a.loadTime = msg.LoadTime
			a.loadErr = nil
			a.recompute()
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.loadErr != nil {
		if key == "q" || key == "esc" {
			return a, tea.Quit
		}
		return a, nil
	}

	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == tabSettings && a.settingsT.editing {
		return a.updateSettingsInput(msg)
	}

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "?":
		a.showHelp = true
		return a, nil
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(refreshDataCmd(a.exportPath, a.useCache), a.spinner.Tick)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		if a.autoRefresh && a.refreshInterval == 0 {
			a.refreshInterval = defaultRefreshInterval
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	switch a.activeTab {
	case tabDays:
		half := max(minHalfPageScroll, (a.height-scrollOverhead)/2)
		switch key {
		case "j", "down":
			a.days.move(1, a.dayCount())
			return a, nil
		case "k", "up":
			a.days.move(-1, a.dayCount())
			return a, nil
		case "ctrl+d":
			a.days.move(half, a.dayCount())
			return a, nil
		case "ctrl+u":
			a.days.move(-half, a.dayCount())
			return a, nil
		case "home":
			a.days.cursor = 0
			return a, nil
		case "end":
			a.days.cursor = max(0, a.dayCount()-1)
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settingsT.cursor < settingsFieldCount-1 {
				a.settingsT.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settingsT.cursor > 0 {
				a.settingsT.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := loadConfigOrDefault()
		if err := a.setupVals.Apply(&cfg); err == nil {
			_ = config.Save(cfg)
			theme.SetActive(cfg.Appearance.Theme)
			if err := a.applyZone(cfg.Zone); err != nil {
				a.zoneErr = err
			}
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) dayCount() int {
	if a.analysis == nil {
		return 0
	}
	return len(a.analysis.Days)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  zone5 needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("♥ zone5"))
	b.WriteString(subtitleStyle.Render(" · Zone 5 Minutes"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	if a.progress > 0 {
		b.WriteString(subtitleStyle.Render(" Reading export  "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" records"))
	} else {
		b.WriteString(subtitleStyle.Render(" Opening export..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(min(70, a.width-10))
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := titleStyle.Render("Could not read export") + "\n\n" +
		bodyStyle.Render(a.loadErr.Error()) + "\n\n" +
		dimStyle.Render("Press q to quit")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("♥ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o d g a x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move through days"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"Enter", "Edit setting"},
			{"Esc", "Cancel edit"},
			{"r", "Re-read export"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + zone pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	pill := pillStyle.Render(" zone ") + pillAccent.Render(a.settings.Bounds.String()) +
		pillStyle.Render(" │ goal ") + pillAccent.Render(cli.FormatMinutes(a.settings.DailyGoal)) +
		pillStyle.Render(" │ ") + pillAccent.Render(a.settings.Location.String()) +
		pillStyle.Render(" ")
	pillRow := lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	header := components.RenderTabBar(a.activeTab, w) + "\n" + pillRow

	// 2. Status bar
	info := components.StatusInfo{Refreshing: a.refreshing}
	if a.load != nil {
		info.Source = a.load.Path
		info.CacheHit = a.load.CacheHit
		info.DataAge = fmt.Sprintf("%.1fs", a.loadTime.Seconds())
	}
	statusBar := components.RenderStatusBar(w, info)

	// 3. Content height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabDays:
		content = a.renderDaysTab(cw, contentH)
	case tabGraph:
		content = a.renderGraphTab(cw)
	case tabActivity:
		content = a.renderActivityTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines, fill backgrounds
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Loading ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadExport reads the export, through the extraction cache when useCache
// is set and the cache opens. Cache failures fall back to a full parse.
func loadExport(path string, useCache bool, progressFn pipeline.ProgressFunc) (*pipeline.CachedLoadResult, error) {
	if useCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			cr, loadErr := pipeline.LoadWithCache(path, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return cr, nil
			}
			return nil, loadErr
		}
	}

	res, err := pipeline.Load(path, progressFn)
	if err != nil {
		return nil, err
	}
	return &pipeline.CachedLoadResult{LoadResult: *res}, nil
}

// loadDataCmd starts extraction in a background goroutine. It streams
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(path string, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send: a full channel just drops this update.
			progressFn := func(records int) {
				select {
				case sub <- ProgressMsg{Records: records}:
				default:
				}
			}

			cr, err := loadExport(path, useCache, progressFn)
			sub <- DataLoadedMsg{Load: cr, Err: err, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd re-reads the export in the background without progress UI.
func refreshDataCmd(path string, useCache bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		cr, err := loadExport(path, useCache, nil)
		return RefreshDataMsg{Load: cr, Err: err, LoadTime: time.Since(start)}
	}
}

// githubClient builds a client from config and environment, or nil when no
// username is configured.
func githubClient() *github.Client {
	cfg := loadConfigOrDefault()
	client := github.NewClient(config.GetGitHubUsername(cfg), config.GetGitHubToken(cfg))
	if client != nil && cfg.GitHub.BaseURL != "" {
		client = client.WithBaseURL(cfg.GitHub.BaseURL)
	}
	return client
}

// fetchGitHubCmd fetches weekly GitHub activity in a background goroutine.
func fetchGitHubCmd(client *github.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), githubTimeout)
		defer cancel()
		return GitHubMsg{Result: client.FetchWeeklyStats(ctx, time.Now())}
	}
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
