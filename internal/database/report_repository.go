package database

import (
	"context"
	"fmt"

	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

// LifetimeTotals are the sums of every entry ever logged for one subject
type LifetimeTotals struct {
	LectureHours    float64 `db:"total_lecture"`
	QuestionHours   float64 `db:"total_question"`
	QuestionsSolved int     `db:"total_questions"`
}

// DateTotals are the study sums for one date that has entries
type DateTotals struct {
	Date            string  `db:"date"`
	LectureHours    float64 `db:"total_lecture"`
	QuestionHours   float64 `db:"total_question"`
	QuestionsSolved int     `db:"total_questions"`
	SubjectsStudied int     `db:"subjects_studied"`
}

// ReportRepository runs the read-only aggregate queries behind reports
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new repository instance
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SubjectLifetime sums all entries for the subject
func (r *ReportRepository) SubjectLifetime(ctx context.Context, userID, subjectID int64) (LifetimeTotals, error) {
	var totals LifetimeTotals
	query := r.db.Rebind(`
		SELECT COALESCE(SUM(lecture_hours_actual), 0) AS total_lecture,
		       COALESCE(SUM(question_hours_actual), 0) AS total_question,
		       COALESCE(SUM(questions_solved), 0) AS total_questions
		FROM daily_progress
		WHERE user_id = ? AND subject_id = ?`)
	if err := r.db.GetContext(ctx, &totals, query, userID, subjectID); err != nil {
		return totals, fmt.Errorf("failed to sum subject progress: %w", err)
	}
	return totals, nil
}

// DateTotals groups the user's entries in [start, end] by date. Dates with
// no entries are absent.
func (r *ReportRepository) DateTotals(ctx context.Context, userID int64, start, end string) ([]DateTotals, error) {
	rows := []DateTotals{}
	query := r.db.Rebind(`
		SELECT substr(date, 1, 10) AS date,
		       SUM(COALESCE(lecture_hours_actual, 0)) AS total_lecture,
		       SUM(COALESCE(question_hours_actual, 0)) AS total_question,
		       SUM(COALESCE(questions_solved, 0)) AS total_questions,
		       COUNT(DISTINCT subject_id) AS subjects_studied
		FROM daily_progress
		WHERE user_id = ? AND date BETWEEN ? AND ?
		GROUP BY substr(date, 1, 10)
		ORDER BY substr(date, 1, 10)`)
	if err := r.db.SelectContext(ctx, &rows, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("failed to aggregate by date: %w", err)
	}
	return rows, nil
}

// SubjectTotals sums each of the user's subjects over [start, end]. Subjects
// without entries are included with zeros. Derived fields are left unset.
func (r *ReportRepository) SubjectTotals(ctx context.Context, userID int64, start, end string) ([]models.SubjectAggregate, error) {
	rows := []models.SubjectAggregate{}
	query := r.db.Rebind(`
		SELECT s.id AS subject_id, s.subject_name,
		       COALESCE(s.weightage, 1.0) AS weightage,
		       COALESCE(SUM(dp.lecture_hours_actual), 0) AS total_lecture,
		       COALESCE(SUM(dp.question_hours_actual), 0) AS total_question,
		       COALESCE(SUM(dp.questions_solved), 0) AS total_questions,
		       COUNT(DISTINCT substr(dp.date, 1, 10)) AS days_studied
		FROM subjects s
		LEFT JOIN daily_progress dp ON s.id = dp.subject_id
			AND dp.user_id = s.user_id
			AND dp.date BETWEEN ? AND ?
		WHERE s.user_id = ?
		GROUP BY s.id, s.subject_name, s.weightage`)
	if err := r.db.SelectContext(ctx, &rows, query, start, end, userID); err != nil {
		return nil, fmt.Errorf("failed to aggregate by subject: %w", err)
	}
	return rows, nil
}
