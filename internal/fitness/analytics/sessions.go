package analytics

// Summarize converts workout records into session summaries, one per record,
// keeping the input order. Records sharing a date stay separate sessions.
func Summarize(records []WorkoutRecord) []SessionSummary {
	summaries := make([]SessionSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, SummarizeRecord(r))
	}
	return summaries
}

func SummarizeRecord(record WorkoutRecord) SessionSummary {
	exerciseIDs := make(map[string]struct{}, len(record.Exercises))
	var volume float64
	for _, ex := range record.Exercises {
		exerciseIDs[ex.ExerciseID] = struct{}{}
		volume += ex.Volume()
	}

	return SessionSummary{
		RecordID:        record.ID,
		Date:            record.Date,
		DurationMinutes: record.DurationMinutes,
		Volume:          volume,
		ExerciseCount:   len(exerciseIDs),
	}
}
