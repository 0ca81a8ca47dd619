package cli

import (
	"strings"
	"testing"

	"github.com/theirongolddev/zone5/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{52000, "52,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{75, "1h 15m"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 1, 2}); got != "▁▄█" {
		t.Errorf("RenderSparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty sparkline should be empty")
	}
}

func TestRenderHeatmap(t *testing.T) {
	week := func(start int) []model.GraphCell {
		cells := make([]model.GraphCell, 7)
		for i := range cells {
			cells[i] = model.GraphCell{Date: model.DayKey("2025-06-0" + string(rune('1'+start+i))), Level: i % 5}
		}
		return cells
	}
	g := model.Graph{Weeks: [][]model.GraphCell{week(0)}}
	g.Weeks[0][6].Future = true

	out := RenderHeatmap(g)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// month row + 7 weekdays + legend
	if len(lines) != 9 {
		t.Fatalf("lines = %d, want 9:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "Mon") || !strings.Contains(out, "More") {
		t.Errorf("missing labels:\n%s", out)
	}
	if RenderHeatmap(model.Graph{}) != "" {
		t.Error("empty graph should render nothing")
	}
}
