package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/zone5/internal/model"
	"github.com/theirongolddev/zone5/internal/pipeline"
	"github.com/theirongolddev/zone5/internal/tui/theme"
)

func TestTabIdxByKey(t *testing.T) {
	cases := map[rune]int{'o': 0, 'd': 1, 'g': 2, 'a': 3, 'x': 4, 'z': -1}
	for key, want := range cases {
		if got := TabIdxByKey(key); got != want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestRenderTabBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	bar := RenderTabBar(1, 100)
	if w := lipgloss.Width(bar); w != 100 {
		t.Fatalf("tab bar width = %d, want 100", w)
	}
	for _, tab := range Tabs {
		if !strings.Contains(bar, tab.Name[1:]) {
			t.Errorf("tab bar missing %q", tab.Name)
		}
	}
}

func TestGoalFraction(t *testing.T) {
	cases := []struct {
		minutes, goal int
		want          float64
	}{
		{0, 15, 0},
		{15, 15, 1},
		{30, 15, 1},
		{5, 10, 0.5},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := GoalFraction(c.minutes, c.goal); got != c.want {
			t.Errorf("GoalFraction(%d, %d) = %v, want %v", c.minutes, c.goal, got, c.want)
		}
	}
}

func TestGoalBarShowsMinutes(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := GoalBar("Today", 12, 15, 6, 20)
	if !strings.Contains(out, "12/15 min") {
		t.Fatalf("goal bar missing value: %q", out)
	}
}

func TestHeatmapRowsAndLegend(t *testing.T) {
	theme.SetActive("flexoki-dark")

	today := model.DayKey("2024-03-13")
	est := model.DailyEstimate{"2024-03-10": 5, "2024-03-12": 30}
	g := pipeline.BuildGraph(est, today)

	out := Heatmap(g, 1)
	lines := strings.Split(out, "\n")
	// month header + 7 weekday rows + legend
	if len(lines) != 9 {
		t.Fatalf("heatmap has %d lines, want 9", len(lines))
	}
	if !strings.Contains(lines[2], "Mon") {
		t.Errorf("second weekday row should be labelled Mon: %q", lines[2])
	}
	if !strings.Contains(lines[8], "Less") || !strings.Contains(lines[8], "More") {
		t.Errorf("legend missing: %q", lines[8])
	}
	if w := lipgloss.Width(lines[1]); w != 4+len(g.Weeks) {
		t.Errorf("row width = %d, want %d", w, 4+len(g.Weeks))
	}
}

func TestHeatmapEmptyGraph(t *testing.T) {
	if got := Heatmap(model.Graph{}, 2); got != "" {
		t.Fatalf("Heatmap(empty) = %q, want empty", got)
	}
}

func TestGoalChartHeight(t *testing.T) {
	theme.SetActive("flexoki-dark")

	values := []int{0, 5, 15, 22, 9, 0, 31}
	labels := make([]string, len(values))
	labels[0] = "Mar"
	out := GoalChart(values, labels, 15, 60, 6)
	lines := strings.Split(out, "\n")
	// 6 rows + axis + labels
	if len(lines) != 8 {
		t.Fatalf("chart has %d lines, want 8", len(lines))
	}
	if !strings.Contains(lines[0], "31") {
		t.Errorf("top row should carry the ceiling label: %q", lines[0])
	}
}

func TestSparklineLength(t *testing.T) {
	out := Sparkline([]int{0, 3, 9, 12}, theme.Active.Accent)
	if w := lipgloss.Width(out); w != 4 {
		t.Fatalf("sparkline width = %d, want 4", w)
	}
}
