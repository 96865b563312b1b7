package models

import (
	"strings"
	"time"
)

const clockLayout = "15:04"

// ValidClock reports whether s is an "HH:MM" time of day
func ValidClock(s string) bool {
	_, err := time.Parse(clockLayout, s)
	return err == nil && len(s) == len(clockLayout)
}

// Validate checks a profile before it is saved
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalid("name", "is required")
	}
	if p.TargetStudyHours < 1 || p.TargetStudyHours > 12 {
		return Invalid("target_study_hours", "must be between 1 and 12")
	}
	if !ValidClock(p.WakeupTime) {
		return Invalid("wakeup_time", "must be HH:MM")
	}
	if !ValidClock(p.Bedtime) {
		return Invalid("bedtime", "must be HH:MM")
	}
	return nil
}

// Validate checks a subject before it is saved
func (s *Subject) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return Invalid("subject_name", "is required")
	}
	if s.Weight < MinWeight || s.Weight > MaxWeight {
		return Invalid("weightage", "must be between 0.5 and 3.0")
	}
	if s.TargetTotalHours < 0 || s.DailyLectureHours < 0 || s.DailyQuestionHours < 0 {
		return Invalid("hours", "must not be negative")
	}
	if !Contains(Difficulties, s.Difficulty) {
		return Invalid("difficulty", "must be one of "+strings.Join(Difficulties, ", "))
	}
	if s.TargetCompletionDate.Valid {
		if _, err := ParseDate(s.TargetCompletionDate.String); err != nil {
			return Invalid("target_completion_date", "must be YYYY-MM-DD")
		}
	}
	return nil
}

// Validate checks an exercise routine before it is saved
func (e *Exercise) Validate() error {
	if strings.TrimSpace(e.Type) == "" {
		return Invalid("exercise_type", "is required")
	}
	if !IsWeekday(e.DayOfWeek) {
		return Invalid("day_of_week", "must be a weekday name")
	}
	if e.DurationMinutes < 0 {
		return Invalid("duration_minutes", "must not be negative")
	}
	if !Contains(Intensities, e.Intensity) {
		return Invalid("intensity", "must be one of "+strings.Join(Intensities, ", "))
	}
	return nil
}

// Validate checks a study entry before it is saved
func (e *StudyEntry) Validate() error {
	if _, err := ParseDate(e.Date); err != nil {
		return Invalid("date", "must be YYYY-MM-DD")
	}
	if e.LectureHoursActual < 0 || e.LectureHoursActual > 24 {
		return Invalid("lecture_hours_actual", "must be between 0 and 24")
	}
	if e.QuestionHoursActual < 0 || e.QuestionHoursActual > 24 {
		return Invalid("question_hours_actual", "must be between 0 and 24")
	}
	if e.QuestionsSolved < 0 {
		return Invalid("questions_solved", "must not be negative")
	}
	return nil
}

// Validate checks a day log before it is saved
func (l *DailyLog) Validate() error {
	if _, err := ParseDate(l.Date); err != nil {
		return Invalid("date", "must be YYYY-MM-DD")
	}
	if l.ExerciseMinutes < 0 {
		return Invalid("exercise_minutes", "must not be negative")
	}
	if !Contains(Moods, l.Mood) {
		return Invalid("mood", "unknown mood")
	}
	return nil
}
