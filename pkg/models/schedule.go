package models

// Study session labels
const (
	SessionMorning   = "Morning"
	SessionAfternoon = "Afternoon"
	SessionEvening   = "Evening"
)

// Sessions lists the session labels by priority
var Sessions = []string{SessionMorning, SessionAfternoon, SessionEvening}

// SessionPriority maps a session label to its priority (1 is highest).
// Unknown labels sort last.
func SessionPriority(label string) int {
	switch label {
	case SessionMorning:
		return 1
	case SessionAfternoon:
		return 2
	default:
		return 3
	}
}

// ScheduleSlot is one timetable entry
type ScheduleSlot struct {
	ID          int64  `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	DayOfWeek   string `json:"day_of_week" db:"day_of_week"`
	SubjectID   int64  `json:"subject_id" db:"subject_id"`
	SubjectName string `json:"subject_name" db:"subject_name"`
	StartTime   string `json:"start_time" db:"start_time"`
	EndTime     string `json:"end_time" db:"end_time"`
	SessionType string `json:"session_type" db:"session_type"`
	Priority    int    `json:"priority" db:"priority"`
}

// DaySchedule groups the slots of one weekday
type DaySchedule struct {
	Day   string         `json:"day"`
	Slots []ScheduleSlot `json:"slots"`
}
