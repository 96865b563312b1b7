package models

import "database/sql"

// Difficulty tiers for a subject
const (
	DifficultyEasy     = "Easy"
	DifficultyMedium   = "Medium"
	DifficultyHard     = "Hard"
	DifficultyVeryHard = "Very Hard"
)

// Difficulties lists the accepted difficulty tiers in ascending order
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyVeryHard}

// Weight bounds for a subject's importance
const (
	MinWeight = 0.5
	MaxWeight = 3.0
)

// Subject is something the user studies
type Subject struct {
	ID                   int64          `json:"id" db:"id"`
	UserID               int64          `json:"user_id" db:"user_id"`
	Name                 string         `json:"name" db:"subject_name"`
	Weight               float64        `json:"weight" db:"weightage"`
	TargetTotalHours     float64        `json:"target_total_hours" db:"target_total_hours"`
	DailyLectureHours    float64        `json:"daily_lecture_hours" db:"daily_lecture_hours"`
	DailyQuestionHours   float64        `json:"daily_question_hours" db:"daily_question_hours"`
	Difficulty           string         `json:"difficulty" db:"difficulty"`
	TargetCompletionDate sql.NullString `json:"target_completion_date" db:"target_completion_date"` // YYYY-MM-DD
}
