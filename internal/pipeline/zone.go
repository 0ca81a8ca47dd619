package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/zone5/internal/config"
	"github.com/theirongolddev/zone5/internal/model"
)

// Classify reports whether the sample's value lies within the closed zone
// bounds. Both bounds are inclusive.
func Classify(s model.Sample, b config.ZoneBounds) bool {
	return b.Contains(s.Value)
}

// AggregateZoneDays groups samples into calendar days in loc and estimates
// the in-zone minutes of each day from the span between its first and last
// qualifying sample. Days with no qualifying sample are omitted. The result
// is sorted by date, oldest first. samples is not modified.
func AggregateZoneDays(samples []model.Sample, b config.ZoneBounds, loc *time.Location) []model.ZoneDay {
	byDay := make(map[model.DayKey][]time.Time)
	for _, s := range samples {
		if !Classify(s, b) {
			continue
		}
		key := model.DayKeyOf(s.Time, loc)
		byDay[key] = append(byDay[key], s.Time)
	}

	days := make([]model.ZoneDay, 0, len(byDay))
	for key, times := range byDay {
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		first, last := times[0], times[len(times)-1]
		minutes, ok := spanMinutes(first, last, len(times))
		if !ok {
			continue
		}
		days = append(days, model.ZoneDay{
			Date:    key,
			Minutes: minutes,
			Samples: len(times),
			First:   first,
			Last:    last,
		})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// AggregateZoneMinutes is AggregateZoneDays reduced to a date -> minutes map.
func AggregateZoneMinutes(samples []model.Sample, b config.ZoneBounds, loc *time.Location) model.DailyEstimate {
	days := AggregateZoneDays(samples, b, loc)
	est := make(model.DailyEstimate, len(days))
	for _, d := range days {
		est[d.Date] = d.Minutes
	}
	return est
}

// spanMinutes estimates minutes from n sorted qualifying timestamps.
// A single sample counts as one minute; a span always counts at least one.
// ok is false when the span is negative.
func spanMinutes(first, last time.Time, n int) (minutes int, ok bool) {
	if n == 1 {
		return 1, true
	}
	span := last.Sub(first)
	if span < 0 {
		return 0, false
	}
	minutes = int(span / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return minutes, true
}
