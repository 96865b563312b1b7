package database

import (
	"context"
	"fmt"

	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

const exerciseColumns = `id, user_id, exercise_type, day_of_week,
	COALESCE(duration_minutes, 30) AS duration_minutes,
	COALESCE(intensity, 'Moderate') AS intensity,
	COALESCE(notes, '') AS notes`

const weekdayOrder = `CASE day_of_week
		WHEN 'Monday' THEN 1
		WHEN 'Tuesday' THEN 2
		WHEN 'Wednesday' THEN 3
		WHEN 'Thursday' THEN 4
		WHEN 'Friday' THEN 5
		WHEN 'Saturday' THEN 6
		WHEN 'Sunday' THEN 7
	END`

// ExerciseRepository handles database operations for exercise routines
type ExerciseRepository struct {
	db *sqlx.DB
}

// NewExerciseRepository creates a new repository instance
func NewExerciseRepository(db *sqlx.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// List returns the user's routines in weekday order
func (r *ExerciseRepository) List(ctx context.Context, userID int64) ([]models.Exercise, error) {
	exercises := []models.Exercise{}
	query := r.db.Rebind("SELECT " + exerciseColumns + " FROM exercises WHERE user_id = ? ORDER BY " + weekdayOrder + ", id")
	if err := r.db.SelectContext(ctx, &exercises, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get exercises: %w", err)
	}
	return exercises, nil
}

// ListByDay returns the routines planned for a weekday
func (r *ExerciseRepository) ListByDay(ctx context.Context, userID int64, day string) ([]models.Exercise, error) {
	exercises := []models.Exercise{}
	query := r.db.Rebind("SELECT " + exerciseColumns + " FROM exercises WHERE user_id = ? AND day_of_week = ? ORDER BY id")
	if err := r.db.SelectContext(ctx, &exercises, query, userID, day); err != nil {
		return nil, fmt.Errorf("failed to get exercises for %s: %w", day, err)
	}
	return exercises, nil
}

// Count returns how many routines the user has
func (r *ExerciseRepository) Count(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind("SELECT COUNT(*) FROM exercises WHERE user_id = ?"), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count exercises: %w", err)
	}
	return count, nil
}

// Create inserts a routine
func (r *ExerciseRepository) Create(ctx context.Context, e *models.Exercise) error {
	if err := e.Validate(); err != nil {
		return err
	}

	id, err := insertReturningID(ctx, r.db, `
		INSERT INTO exercises (user_id, exercise_type, day_of_week, duration_minutes, intensity, notes)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Type, e.DayOfWeek, e.DurationMinutes, e.Intensity, e.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create exercise: %w", err)
	}
	e.ID = id
	return nil
}

// Update modifies one of the user's routines
func (r *ExerciseRepository) Update(ctx context.Context, e *models.Exercise) error {
	if err := e.Validate(); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE exercises SET
			exercise_type = ?,
			day_of_week = ?,
			duration_minutes = ?,
			intensity = ?,
			notes = ?
		WHERE id = ? AND user_id = ?`),
		e.Type, e.DayOfWeek, e.DurationMinutes, e.Intensity, e.Notes, e.ID, e.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update exercise: %w", err)
	}
	return expectRow(result)
}

// Delete removes one of the user's routines
func (r *ExerciseRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM exercises WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	return expectRow(result)
}
