package models

// SubjectProgress is a subject's lifetime progress against its target
type SubjectProgress struct {
	SubjectID      int64   `json:"subject_id"`
	LecturePct     float64 `json:"lecture_pct"`
	QuestionPct    float64 `json:"question_pct"`
	TotalQuestions int     `json:"total_questions"`
	LectureHours   float64 `json:"lecture_hours"`
	QuestionHours  float64 `json:"question_hours"`
	TargetHours    float64 `json:"target_hours"`
}

// SubjectDay is one subject's row in a daily report. Actual fields are nil
// when nothing was logged for the subject that day.
type SubjectDay struct {
	SubjectID       int64    `json:"subject_id"`
	SubjectName     string   `json:"subject_name"`
	LectureTarget   float64  `json:"lecture_target"`
	QuestionTarget  float64  `json:"question_target"`
	LectureActual   *float64 `json:"lecture_actual"`
	QuestionActual  *float64 `json:"question_actual"`
	QuestionsSolved *int     `json:"questions_solved"`
	Efficiency      float64  `json:"efficiency"` // questions per hour
}

// DayTotals sums a daily report
type DayTotals struct {
	LectureTarget  float64 `json:"lecture_target"`
	QuestionTarget float64 `json:"question_target"`
	LectureActual  float64 `json:"lecture_actual"`
	QuestionActual float64 `json:"question_actual"`
	Questions      int     `json:"questions"`
}

// DailyReport is everything shown for a single date
type DailyReport struct {
	Date      string       `json:"date"`
	Weekday   string       `json:"weekday"`
	Subjects  []SubjectDay `json:"subjects"`
	Exercises []Exercise   `json:"exercises"` // planned routines for the weekday
	Log       *DailyLog    `json:"log"`       // nil when the day has no log
	Totals    DayTotals    `json:"totals"`
}

// DayAggregate is one date of a range analysis
type DayAggregate struct {
	Date            string  `json:"date"`
	HasEntries      bool    `json:"has_entries"`
	LectureHours    float64 `json:"lecture_hours"`
	QuestionHours   float64 `json:"question_hours"`
	QuestionsSolved int     `json:"questions_solved"`
	SubjectsStudied int     `json:"subjects_studied"`
	ExerciseRate    float64 `json:"exercise_rate"` // 1.0 when exercise was done
	ExerciseMinutes int     `json:"exercise_minutes"`
}

// SubjectAggregate is one subject's totals over a range
type SubjectAggregate struct {
	SubjectID        int64   `json:"subject_id" db:"subject_id"`
	SubjectName      string  `json:"subject_name" db:"subject_name"`
	Weight           float64 `json:"weight" db:"weightage"`
	LectureHours     float64 `json:"lecture_hours" db:"total_lecture"`
	QuestionHours    float64 `json:"question_hours" db:"total_question"`
	QuestionsSolved  int     `json:"questions_solved" db:"total_questions"`
	DaysStudied      int     `json:"days_studied" db:"days_studied"`
	TotalHours       float64 `json:"total_hours" db:"-"`
	HoursPerDay      float64 `json:"hours_per_day" db:"-"`
	QuestionsPerHour float64 `json:"questions_per_hour" db:"-"`
}

// RangeSummary condenses a range analysis
type RangeSummary struct {
	Days             int     `json:"days"`
	DaysWithEntries  int     `json:"days_with_entries"`
	LectureHours     float64 `json:"lecture_hours"`
	QuestionHours    float64 `json:"question_hours"`
	QuestionsSolved  int     `json:"questions_solved"`
	AvgLectureHours  float64 `json:"avg_lecture_hours"`
	AvgQuestionHours float64 `json:"avg_question_hours"`
	AvgQuestions     float64 `json:"avg_questions"`
	ExerciseRate     float64 `json:"exercise_rate"` // fraction of days in range
}

// RangeAnalysis is the multi-day rollup for [Start, End]
type RangeAnalysis struct {
	Start    string             `json:"start"`
	End      string             `json:"end"`
	Days     []DayAggregate     `json:"days"`
	Subjects []SubjectAggregate `json:"subjects"`
	Summary  RangeSummary       `json:"summary"`
}

// Dashboard is the at-a-glance view for today
type Dashboard struct {
	Subjects    int  `json:"subjects"`
	Exercises   int  `json:"exercises"`
	TodayLogged bool `json:"today_logged"`
}
