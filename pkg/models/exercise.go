package models

// Intensity tiers for an exercise routine
const (
	IntensityLight    = "Light"
	IntensityModerate = "Moderate"
	IntensityHard     = "Hard"
	IntensityVeryHard = "Very Hard"
)

// Intensities lists the accepted intensity tiers
var Intensities = []string{IntensityLight, IntensityModerate, IntensityHard, IntensityVeryHard}

// Exercise is a planned routine on a given weekday
type Exercise struct {
	ID              int64  `json:"id" db:"id"`
	UserID          int64  `json:"user_id" db:"user_id"`
	Type            string `json:"exercise_type" db:"exercise_type"`
	DayOfWeek       string `json:"day_of_week" db:"day_of_week"`
	DurationMinutes int    `json:"duration_minutes" db:"duration_minutes"`
	Intensity       string `json:"intensity" db:"intensity"`
	Notes           string `json:"notes" db:"notes"`
}
