package analytics

import (
	"fmt"
	"time"
)

func DurationSeries(sessions []SessionSummary) []Point {
	series := make([]Point, 0, len(sessions))
	for _, s := range sessions {
		series = append(series, Point{Date: s.Date, Value: float64(s.DurationMinutes)})
	}
	return series
}

func VolumeSeries(sessions []SessionSummary) []Point {
	series := make([]Point, 0, len(sessions))
	for _, s := range sessions {
		series = append(series, Point{Date: s.Date, Value: s.Volume})
	}
	return series
}

// OneRepMaxSeries has one point per session that contains a non-warmup set of the exercise.
func OneRepMaxSeries(records []WorkoutRecord, exerciseID string) ([]Point, error) {
	series := make([]Point, 0)
	for _, r := range records {
		best, err := BestSetForExercise(r, exerciseID)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		if best == nil {
			continue
		}
		series = append(series, Point{Date: r.Date, Value: best.OneRepMax})
	}
	return series, nil
}

// FrequencySeries counts sessions per calendar week (weeks start on Monday).
// Weeks without sessions between the first and the last one count as zero.
func FrequencySeries(records []WorkoutRecord) []Point {
	series := make([]Point, 0)
	if len(records) == 0 {
		return series
	}

	counts := make(map[time.Time]int)
	first := weekStart(records[0].Date)
	last := first
	for _, r := range records {
		week := weekStart(r.Date)
		counts[week]++
		if week.Before(first) {
			first = week
		}
		if week.After(last) {
			last = week
		}
	}

	for week := first; !week.After(last); week = week.AddDate(0, 0, 7) {
		series = append(series, Point{Date: week, Value: float64(counts[week])})
	}
	return series
}

func weekStart(t time.Time) time.Time {
	day := Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
