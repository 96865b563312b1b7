package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

// Dates are projected through substr so a column declared DATE still scans
// as YYYY-MM-DD text.
const studyEntryColumns = `id, user_id, subject_id, substr(date, 1, 10) AS date,
	COALESCE(lecture_hours_actual, 0) AS lecture_hours_actual,
	COALESCE(question_hours_actual, 0) AS question_hours_actual,
	COALESCE(questions_solved, 0) AS questions_solved`

const dailyLogColumns = `id, user_id, substr(date, 1, 10) AS date,
	COALESCE(exercise_done, FALSE) AS exercise_done,
	COALESCE(exercise_minutes, 0) AS exercise_minutes,
	COALESCE(mood, '🙂 Good') AS mood,
	COALESCE(notes, '') AS notes`

// ProgressRepository handles the per-subject study entries and the per-day logs
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// UpsertStudy writes the entry for (user, subject, date), replacing every
// field of an existing one
func (r *ProgressRepository) UpsertStudy(ctx context.Context, entry *models.StudyEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	return r.upsertStudy(ctx, r.db, entry)
}

func (r *ProgressRepository) upsertStudy(ctx context.Context, ext sqlx.ExtContext, entry *models.StudyEntry) error {
	id, err := insertReturningID(ctx, ext, `
		INSERT INTO daily_progress (
			user_id, subject_id, date, lecture_hours_actual, question_hours_actual, questions_solved
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, subject_id, date) DO UPDATE SET
			lecture_hours_actual = excluded.lecture_hours_actual,
			question_hours_actual = excluded.question_hours_actual,
			questions_solved = excluded.questions_solved`,
		entry.UserID, entry.SubjectID, entry.Date,
		entry.LectureHoursActual, entry.QuestionHoursActual, entry.QuestionsSolved,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	entry.ID = id
	return nil
}

// UpsertDailyLog writes the exercise/mood/notes record for (user, date),
// replacing every field of an existing one
func (r *ProgressRepository) UpsertDailyLog(ctx context.Context, log *models.DailyLog) error {
	if err := log.Validate(); err != nil {
		return err
	}
	return r.upsertDailyLog(ctx, r.db, log)
}

func (r *ProgressRepository) upsertDailyLog(ctx context.Context, ext sqlx.ExtContext, log *models.DailyLog) error {
	id, err := insertReturningID(ctx, ext, `
		INSERT INTO daily_logs (user_id, date, exercise_done, exercise_minutes, mood, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			exercise_done = excluded.exercise_done,
			exercise_minutes = excluded.exercise_minutes,
			mood = excluded.mood,
			notes = excluded.notes`,
		log.UserID, log.Date, log.ExerciseDone, log.ExerciseMinutes, log.Mood, log.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save daily log: %w", err)
	}
	log.ID = id
	return nil
}

// SaveDay stores a whole daily entry form in one transaction: one study
// entry per subject plus the day's log. The user id and date are applied to
// every record.
func (r *ProgressRepository) SaveDay(ctx context.Context, userID int64, date string, entries []models.StudyEntry, log models.DailyLog) error {
	log.UserID, log.Date = userID, date
	if err := log.Validate(); err != nil {
		return err
	}
	for i := range entries {
		entries[i].UserID, entries[i].Date = userID, date
		if err := entries[i].Validate(); err != nil {
			return err
		}
	}

	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i := range entries {
			if err := r.upsertStudy(ctx, tx, &entries[i]); err != nil {
				return err
			}
		}
		return r.upsertDailyLog(ctx, tx, &log)
	})
}

// GetStudy returns the entry for (user, subject, date)
func (r *ProgressRepository) GetStudy(ctx context.Context, userID, subjectID int64, date string) (*models.StudyEntry, error) {
	var entry models.StudyEntry
	query := r.db.Rebind("SELECT " + studyEntryColumns + " FROM daily_progress WHERE user_id = ? AND subject_id = ? AND date = ?")
	err := r.db.GetContext(ctx, &entry, query, userID, subjectID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &entry, nil
}

// ListStudyByDate returns every study entry the user logged on date
func (r *ProgressRepository) ListStudyByDate(ctx context.Context, userID int64, date string) ([]models.StudyEntry, error) {
	entries := []models.StudyEntry{}
	query := r.db.Rebind("SELECT " + studyEntryColumns + " FROM daily_progress WHERE user_id = ? AND date = ? ORDER BY subject_id")
	if err := r.db.SelectContext(ctx, &entries, query, userID, date); err != nil {
		return nil, fmt.Errorf("failed to get progress for %s: %w", date, err)
	}
	return entries, nil
}

// GetDailyLog returns the log for (user, date), or nil when the day has none
func (r *ProgressRepository) GetDailyLog(ctx context.Context, userID int64, date string) (*models.DailyLog, error) {
	var log models.DailyLog
	query := r.db.Rebind("SELECT " + dailyLogColumns + " FROM daily_logs WHERE user_id = ? AND date = ?")
	err := r.db.GetContext(ctx, &log, query, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	return &log, nil
}

// ListDailyLogs returns the user's logs for [start, end], oldest first
func (r *ProgressRepository) ListDailyLogs(ctx context.Context, userID int64, start, end string) ([]models.DailyLog, error) {
	logs := []models.DailyLog{}
	query := r.db.Rebind("SELECT " + dailyLogColumns + " FROM daily_logs WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date")
	if err := r.db.SelectContext(ctx, &logs, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("failed to get daily logs: %w", err)
	}
	return logs, nil
}

// HasEntry reports whether anything was logged for the date
func (r *ProgressRepository) HasEntry(ctx context.Context, userID int64, date string) (bool, error) {
	var count int
	query := r.db.Rebind(`
		SELECT (SELECT COUNT(*) FROM daily_progress WHERE user_id = ? AND date = ?)
		     + (SELECT COUNT(*) FROM daily_logs WHERE user_id = ? AND date = ?)`)
	if err := r.db.GetContext(ctx, &count, query, userID, date, userID, date); err != nil {
		return false, fmt.Errorf("failed to check entry: %w", err)
	}
	return count > 0, nil
}

// RecentDates returns the latest dates with study entries, newest first
func (r *ProgressRepository) RecentDates(ctx context.Context, userID int64, limit int) ([]string, error) {
	dates := []string{}
	query := r.db.Rebind("SELECT DISTINCT substr(date, 1, 10) AS date FROM daily_progress WHERE user_id = ? ORDER BY date DESC LIMIT ?")
	if err := r.db.SelectContext(ctx, &dates, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent dates: %w", err)
	}
	return dates, nil
}
