package report

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

// MaxRangeDays bounds how many days one range analysis may cover
const MaxRangeDays = 366

// Engine computes derived progress metrics from stored entries
type Engine struct {
	subjects  *database.SubjectRepository
	exercises *database.ExerciseRepository
	progress  *database.ProgressRepository
	reports   *database.ReportRepository
}

// NewEngine creates a report engine over db
func NewEngine(db *sqlx.DB) *Engine {
	return &Engine{
		subjects:  database.NewSubjectRepository(db),
		exercises: database.NewExerciseRepository(db),
		progress:  database.NewProgressRepository(db),
		reports:   database.NewReportRepository(db),
	}
}

// percentOf returns part/target as a percentage clamped to [0, 100]
func percentOf(part, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, part/target*100))
}

// ratio divides, treating a zero denominator as 1
func ratio(n, d float64) float64 {
	if d == 0 {
		d = 1
	}
	return n / d
}

// SubjectProgress compares everything logged for a subject against its
// target total hours
func (e *Engine) SubjectProgress(ctx context.Context, userID, subjectID int64) (*models.SubjectProgress, error) {
	subject, err := e.subjects.GetByID(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}

	totals, err := e.reports.SubjectLifetime(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}

	return &models.SubjectProgress{
		SubjectID:      subject.ID,
		LecturePct:     percentOf(totals.LectureHours, subject.TargetTotalHours),
		QuestionPct:    percentOf(totals.QuestionHours, subject.TargetTotalHours),
		TotalQuestions: totals.QuestionsSolved,
		LectureHours:   totals.LectureHours,
		QuestionHours:  totals.QuestionHours,
		TargetHours:    subject.TargetTotalHours,
	}, nil
}

// DailyReport lists each subject's targets next to what was logged on date
func (e *Engine) DailyReport(ctx context.Context, userID int64, date time.Time) (*models.DailyReport, error) {
	day := models.FormatDate(date)
	report := &models.DailyReport{
		Date:      day,
		Weekday:   date.Weekday().String(),
		Subjects:  []models.SubjectDay{},
		Exercises: []models.Exercise{},
	}

	subjects, err := e.subjects.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return report, nil
	}

	entries, err := e.progress.ListStudyByDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	bySubject := make(map[int64]models.StudyEntry, len(entries))
	for _, entry := range entries {
		bySubject[entry.SubjectID] = entry
	}

	for _, s := range subjects {
		row := models.SubjectDay{
			SubjectID:      s.ID,
			SubjectName:    s.Name,
			LectureTarget:  s.DailyLectureHours,
			QuestionTarget: s.DailyQuestionHours,
		}
		report.Totals.LectureTarget += s.DailyLectureHours
		report.Totals.QuestionTarget += s.DailyQuestionHours

		if entry, ok := bySubject[s.ID]; ok {
			lecture, question, solved := entry.LectureHoursActual, entry.QuestionHoursActual, entry.QuestionsSolved
			row.LectureActual = &lecture
			row.QuestionActual = &question
			row.QuestionsSolved = &solved
			if question > 0 {
				row.Efficiency = float64(solved) / question
			}
			report.Totals.LectureActual += lecture
			report.Totals.QuestionActual += question
			report.Totals.Questions += solved
		}
		report.Subjects = append(report.Subjects, row)
	}

	report.Exercises, err = e.exercises.ListByDay(ctx, userID, report.Weekday)
	if err != nil {
		return nil, err
	}

	report.Log, err = e.progress.GetDailyLog(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	return report, nil
}

// RangeAnalysis rolls up [start, end] inclusive. Every date in the range
// gets a row, zero-filled when nothing was logged.
func (e *Engine) RangeAnalysis(ctx context.Context, userID int64, start, end time.Time) (*models.RangeAnalysis, error) {
	start, end = truncateDay(start), truncateDay(end)
	if start.After(end) {
		return nil, models.Invalid("range", "start date is after end date")
	}
	if start.AddDate(0, 0, MaxRangeDays-1).Before(end) {
		return nil, models.Invalid("range", fmt.Sprintf("at most %d days", MaxRangeDays))
	}
	from, to := models.FormatDate(start), models.FormatDate(end)

	dateRows, err := e.reports.DateTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]database.DateTotals, len(dateRows))
	for _, row := range dateRows {
		byDate[row.Date] = row
	}

	logs, err := e.progress.ListDailyLogs(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	logByDate := make(map[string]models.DailyLog, len(logs))
	for _, l := range logs {
		logByDate[l.Date] = l
	}

	analysis := &models.RangeAnalysis{Start: from, End: to, Days: []models.DayAggregate{}}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := models.FormatDate(d)
		day := models.DayAggregate{Date: key}

		if row, ok := byDate[key]; ok {
			day.HasEntries = true
			day.LectureHours = row.LectureHours
			day.QuestionHours = row.QuestionHours
			day.QuestionsSolved = row.QuestionsSolved
			day.SubjectsStudied = row.SubjectsStudied
		}
		if l, ok := logByDate[key]; ok && l.ExerciseDone {
			day.ExerciseRate = 1.0
			day.ExerciseMinutes = l.ExerciseMinutes
		}
		analysis.Days = append(analysis.Days, day)
	}
	analysis.Summary = summarize(analysis.Days)

	analysis.Subjects, err = e.reports.SubjectTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range analysis.Subjects {
		s := &analysis.Subjects[i]
		s.TotalHours = s.LectureHours + s.QuestionHours
		s.HoursPerDay = ratio(s.TotalHours, float64(s.DaysStudied))
		s.QuestionsPerHour = ratio(float64(s.QuestionsSolved), s.TotalHours)
	}
	sort.SliceStable(analysis.Subjects, func(i, j int) bool {
		a, b := analysis.Subjects[i], analysis.Subjects[j]
		if a.TotalHours != b.TotalHours {
			return a.TotalHours > b.TotalHours
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.SubjectName < b.SubjectName
	})

	return analysis, nil
}

// Dashboard counts what the user has set up and whether today is logged
func (e *Engine) Dashboard(ctx context.Context, userID int64, today time.Time) (*models.Dashboard, error) {
	subjects, err := e.subjects.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	exercises, err := e.exercises.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	logged, err := e.progress.HasEntry(ctx, userID, models.FormatDate(today))
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &models.Dashboard{Subjects: subjects, Exercises: exercises, TodayLogged: logged}, nil
}

// summarize totals the days. Averages cover only days with entries; the
// exercise rate covers every day.
func summarize(days []models.DayAggregate) models.RangeSummary {
	summary := models.RangeSummary{Days: len(days)}
	var exercise float64
	for _, d := range days {
		exercise += d.ExerciseRate
		if !d.HasEntries {
			continue
		}
		summary.DaysWithEntries++
		summary.LectureHours += d.LectureHours
		summary.QuestionHours += d.QuestionHours
		summary.QuestionsSolved += d.QuestionsSolved
	}

	if n := float64(summary.DaysWithEntries); n > 0 {
		summary.AvgLectureHours = summary.LectureHours / n
		summary.AvgQuestionHours = summary.QuestionHours / n
		summary.AvgQuestions = float64(summary.QuestionsSolved) / n
	}
	if len(days) > 0 {
		summary.ExerciseRate = exercise / float64(len(days))
	}
	return summary
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
