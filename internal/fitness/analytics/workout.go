package analytics

import "time"

// SetType can be one of:
//   - normal
//   - warmup
//   - dropset
//   - superset
//   - rest-pause
//   - amrap
type SetType string

const (
	SetTypeNormal    SetType = "normal"
	SetTypeWarmup    SetType = "warmup"
	SetTypeDropset   SetType = "dropset"
	SetTypeSuperset  SetType = "superset"
	SetTypeRestPause SetType = "rest-pause"
	SetTypeAmrap     SetType = "amrap"
)

func (st SetType) String() string {
	return string(st)
}

func (st SetType) IsValid() bool {
	switch st {
	case SetTypeNormal,
		SetTypeWarmup,
		SetTypeDropset,
		SetTypeSuperset,
		SetTypeRestPause,
		SetTypeAmrap:
		return true
	default:
		return false
	}
}

// SetEntry is a single performed set; weight is in kilos.
type SetEntry struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Type   SetType `json:"type"`
}

type ExerciseEntry struct {
	ExerciseID  string     `json:"exerciseId"`
	MuscleGroup string     `json:"muscleGroup,omitempty"`
	Sets        []SetEntry `json:"sets"`
}

// Volume is the sum of weight x reps over all non-warmup sets.
func (e ExerciseEntry) Volume() float64 {
	var volume float64
	for _, s := range e.Sets {
		if s.Type == SetTypeWarmup {
			continue
		}
		volume += s.Weight * float64(s.Reps)
	}
	return volume
}

// WorkoutRecord is one logged training session, as kept by the document store.
type WorkoutRecord struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	Exercises       []ExerciseEntry `json:"exercises"`
}

// SessionSummary is derived from a single WorkoutRecord and never persisted.
type SessionSummary struct {
	RecordID        string    `json:"recordId"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"durationMinutes"`
	Volume          float64   `json:"volume"`
	ExerciseCount   int       `json:"exerciseCount"`
}

// Point is a single dated value of a series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
