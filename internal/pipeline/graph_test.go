package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/zone5/internal/model"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{0, 0}, {1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {22, 3}, {23, 4}, {240, 4},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.minutes); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.minutes, got, tt.want)
		}
	}
}

func TestBuildGraph_Shape(t *testing.T) {
	// 2025-06-11 is a Wednesday.
	est := model.DailyEstimate{"2025-06-11": 16, "2025-06-01": 5, "2024-01-01": 60}
	g := BuildGraph(est, "2025-06-11")

	if len(g.Weeks) != 53 {
		t.Fatalf("weeks = %d, want 53", len(g.Weeks))
	}
	for i, w := range g.Weeks {
		if len(w) != 7 {
			t.Fatalf("week %d has %d days", i, len(w))
		}
	}

	start, err := g.Start.Time(time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if start.Weekday() != time.Sunday {
		t.Errorf("graph starts on %s, want Sunday", start.Weekday())
	}
	if g.Weeks[0][0].Date != g.Start {
		t.Errorf("first cell %s != start %s", g.Weeks[0][0].Date, g.Start)
	}

	last := g.Weeks[52]
	if last[3].Date != "2025-06-11" || last[3].Minutes != 16 || last[3].Level != 3 {
		t.Errorf("today cell = %+v", last[3])
	}
	if last[3].Future || !last[4].Future || !last[6].Future {
		t.Error("cells after today should be marked Future")
	}
	if last[0].Date != "2025-06-08" {
		t.Errorf("final week starts %s, want 2025-06-08", last[0].Date)
	}

	var found bool
	for _, w := range g.Weeks {
		for _, c := range w {
			if c.Date == "2025-06-01" {
				found = c.Level == 1
			}
			if c.Date == "2024-01-01" {
				t.Error("day outside the window was rendered")
			}
		}
	}
	if !found {
		t.Error("2025-06-01 missing or wrong level")
	}
}

func TestBuildGraph_TodayIsSaturday(t *testing.T) {
	g := BuildGraph(model.DailyEstimate{}, "2025-06-14")
	if len(g.Weeks) != 53 {
		t.Fatalf("weeks = %d, want 53", len(g.Weeks))
	}
	last := g.Weeks[52][6]
	if last.Date != "2025-06-14" || last.Future {
		t.Errorf("last cell = %+v", last)
	}
}

func TestBuildGraph_InvalidToday(t *testing.T) {
	if g := BuildGraph(model.DailyEstimate{}, "junk"); len(g.Weeks) != 0 {
		t.Errorf("weeks = %d, want 0", len(g.Weeks))
	}
}
