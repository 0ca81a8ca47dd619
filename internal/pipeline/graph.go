package pipeline

import (
	"time"

	"github.com/theirongolddev/zone5/internal/model"
)

// Contribution level thresholds in minutes. Level 3 starts at the default goal.
var levelThresholds = [...]int{1, 8, 15, 23}

// LevelFor maps in-zone minutes to a contribution level 0-4.
func LevelFor(minutes int) int {
	level := 0
	for i, th := range levelThresholds {
		if minutes >= th {
			level = i + 1
		}
	}
	return level
}

// BuildGraph lays out the 52 weeks before today, widened back to a Sunday,
// as columns of seven days. Cells after today in the final week are marked
// Future.
func BuildGraph(est model.DailyEstimate, today model.DayKey) model.Graph {
	end, err := today.Time(time.UTC)
	if err != nil {
		return model.Graph{}
	}
	start := end.AddDate(0, 0, -364)
	start = start.AddDate(0, 0, -int(start.Weekday()))

	g := model.Graph{
		Start: model.DayKeyOf(start, time.UTC),
		End:   today,
	}

	var week []model.GraphCell
	for day := start; ; day = day.AddDate(0, 0, 1) {
		key := model.DayKeyOf(day, time.UTC)
		cell := model.GraphCell{Date: key, Future: day.After(end)}
		if !cell.Future {
			cell.Minutes = est[key]
			cell.Level = LevelFor(cell.Minutes)
		}
		week = append(week, cell)

		if len(week) == 7 {
			g.Weeks = append(g.Weeks, week)
			week = nil
			if !day.Before(end) {
				break
			}
		}
	}
	return g
}
