package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

const subjectColumns = `id, user_id, subject_name,
	COALESCE(weightage, 1.0) AS weightage,
	COALESCE(target_total_hours, 0) AS target_total_hours,
	COALESCE(daily_lecture_hours, 0) AS daily_lecture_hours,
	COALESCE(daily_question_hours, 0) AS daily_question_hours,
	COALESCE(difficulty, 'Medium') AS difficulty,
	substr(target_completion_date, 1, 10) AS target_completion_date`

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns the user's subjects, most important first
func (r *SubjectRepository) List(ctx context.Context, userID int64) ([]models.Subject, error) {
	subjects := []models.Subject{}
	query := r.db.Rebind("SELECT " + subjectColumns + " FROM subjects WHERE user_id = ? ORDER BY weightage DESC, subject_name ASC")
	if err := r.db.SelectContext(ctx, &subjects, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get subjects: %w", err)
	}
	return subjects, nil
}

// Names returns the user's subject names in list order
func (r *SubjectRepository) Names(ctx context.Context, userID int64) ([]string, error) {
	subjects, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = s.Name
	}
	return names, nil
}

// GetByID returns one of the user's subjects
func (r *SubjectRepository) GetByID(ctx context.Context, userID, id int64) (*models.Subject, error) {
	var subject models.Subject
	query := r.db.Rebind("SELECT " + subjectColumns + " FROM subjects WHERE id = ? AND user_id = ?")
	err := r.db.GetContext(ctx, &subject, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &subject, nil
}

// GetByName returns one of the user's subjects by name
func (r *SubjectRepository) GetByName(ctx context.Context, userID int64, name string) (*models.Subject, error) {
	return r.getByName(ctx, r.db, userID, name)
}

func (r *SubjectRepository) getByName(ctx context.Context, ext sqlx.ExtContext, userID int64, name string) (*models.Subject, error) {
	var subject models.Subject
	query := ext.Rebind("SELECT " + subjectColumns + " FROM subjects WHERE user_id = ? AND subject_name = ?")
	err := sqlx.GetContext(ctx, ext, &subject, query, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return &subject, nil
}

// Count returns how many subjects the user has
func (r *SubjectRepository) Count(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind("SELECT COUNT(*) FROM subjects WHERE user_id = ?"), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count subjects: %w", err)
	}
	return count, nil
}

// nameTaken checks the per-user name uniqueness the table itself doesn't enforce
func (r *SubjectRepository) nameTaken(ctx context.Context, ext sqlx.ExtContext, userID int64, name string, exceptID int64) (bool, error) {
	var count int
	query := ext.Rebind("SELECT COUNT(*) FROM subjects WHERE user_id = ? AND subject_name = ? AND id <> ?")
	if err := sqlx.GetContext(ctx, ext, &count, query, userID, name, exceptID); err != nil {
		return false, fmt.Errorf("failed to check subject name: %w", err)
	}
	return count > 0, nil
}

// Create inserts a subject. A name the user already uses is rejected.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	subject.Name = strings.TrimSpace(subject.Name)
	if err := subject.Validate(); err != nil {
		return err
	}

	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		taken, err := r.nameTaken(ctx, tx, subject.UserID, subject.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %q", models.ErrDuplicateSubjectName, subject.Name)
		}

		id, err := insertReturningID(ctx, tx, `
			INSERT INTO subjects (
				user_id, subject_name, weightage, target_total_hours,
				daily_lecture_hours, daily_question_hours, difficulty, target_completion_date
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			subject.UserID, subject.Name, subject.Weight, subject.TargetTotalHours,
			subject.DailyLectureHours, subject.DailyQuestionHours, subject.Difficulty, subject.TargetCompletionDate,
		)
		if err != nil {
			return fmt.Errorf("failed to create subject: %w", err)
		}
		subject.ID = id
		return nil
	})
}

// Update modifies one of the user's subjects
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.Name = strings.TrimSpace(subject.Name)
	if err := subject.Validate(); err != nil {
		return err
	}

	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		taken, err := r.nameTaken(ctx, tx, subject.UserID, subject.Name, subject.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %q", models.ErrDuplicateSubjectName, subject.Name)
		}

		result, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE subjects SET
				subject_name = ?,
				weightage = ?,
				target_total_hours = ?,
				daily_lecture_hours = ?,
				daily_question_hours = ?,
				difficulty = ?,
				target_completion_date = ?
			WHERE id = ? AND user_id = ?`),
			subject.Name, subject.Weight, subject.TargetTotalHours, subject.DailyLectureHours,
			subject.DailyQuestionHours, subject.Difficulty, subject.TargetCompletionDate,
			subject.ID, subject.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to update subject: %w", err)
		}
		return expectRow(result)
	})
}

// Delete removes one of the user's subjects together with its progress rows
// and schedule slots
func (r *SubjectRepository) Delete(ctx context.Context, userID, id int64) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM subjects WHERE id = ? AND user_id = ?"), id, userID)
		if err != nil {
			return fmt.Errorf("failed to delete subject: %w", err)
		}
		if err := expectRow(result); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM daily_progress WHERE user_id = ? AND subject_id = ?"), userID, id); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM schedule_slots WHERE user_id = ? AND subject_id = ?"), userID, id); err != nil {
			return fmt.Errorf("failed to delete schedule slots: %w", err)
		}
		return nil
	})
}

// expectRow turns "no rows affected" into ErrNotFound. Owner-scoped statements
// hit zero rows both when the row is missing and when it belongs to someone else.
func expectRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}
