package models

// Mood levels, lowest to highest
var Moods = []string{"😢 Very Sad", "😞 Sad", "😐 Neutral", "🙂 Good", "😊 Very Good", "😄 Excellent"}

// DefaultMood is used when a day has no log
const DefaultMood = "🙂 Good"

// StudyEntry is one subject's study metrics for one day
type StudyEntry struct {
	ID                  int64   `json:"id" db:"id"`
	UserID              int64   `json:"user_id" db:"user_id"`
	SubjectID           int64   `json:"subject_id" db:"subject_id"`
	Date                string  `json:"date" db:"date"`
	LectureHoursActual  float64 `json:"lecture_hours_actual" db:"lecture_hours_actual"`
	QuestionHoursActual float64 `json:"question_hours_actual" db:"question_hours_actual"`
	QuestionsSolved     int     `json:"questions_solved" db:"questions_solved"`
}

// DailyLog holds the per-day fields that are not tied to a subject
type DailyLog struct {
	ID              int64  `json:"id" db:"id"`
	UserID          int64  `json:"user_id" db:"user_id"`
	Date            string `json:"date" db:"date"`
	ExerciseDone    bool   `json:"exercise_done" db:"exercise_done"`
	ExerciseMinutes int    `json:"exercise_minutes" db:"exercise_minutes"`
	Mood            string `json:"mood" db:"mood"`
	Notes           string `json:"notes" db:"notes"`
}

// DefaultDailyLog is what an empty day looks like
func DefaultDailyLog(userID int64, date string) DailyLog {
	return DailyLog{UserID: userID, Date: date, Mood: DefaultMood}
}
