package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ScheduleRepository handles database operations for timetable slots
type ScheduleRepository struct {
	db       *sqlx.DB
	subjects *SubjectRepository
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db, subjects: NewSubjectRepository(db)}
}

// Replace swaps the user's whole timetable for slots in one transaction.
// Each slot's SubjectName is resolved to an id at save time; slots naming a
// subject the user doesn't have are skipped. Returns how many were stored.
func (r *ScheduleRepository) Replace(ctx context.Context, userID int64, slots []models.ScheduleSlot) (int, error) {
	saved := 0
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		saved = 0
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM schedule_slots WHERE user_id = ?"), userID); err != nil {
			return fmt.Errorf("failed to clear schedule: %w", err)
		}

		for _, slot := range slots {
			if slot.SubjectName == "" {
				continue
			}
			subject, err := r.subjects.getByName(ctx, tx, userID, slot.SubjectName)
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			_, err = insertReturningID(ctx, tx, `
				INSERT INTO schedule_slots (user_id, day_of_week, subject_id, start_time, end_time, session_type, priority)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				userID, slot.DayOfWeek, subject.ID, slot.StartTime, slot.EndTime, slot.SessionType, slot.Priority,
			)
			if err != nil {
				return fmt.Errorf("failed to save schedule slot: %w", err)
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return saved, nil
}

// List returns the user's slots joined with subject names, in weekday order,
// then priority, then start time
func (r *ScheduleRepository) List(ctx context.Context, userID int64) ([]models.ScheduleSlot, error) {
	slots := []models.ScheduleSlot{}
	query := r.db.Rebind(`
		SELECT ss.id, ss.user_id, ss.day_of_week, ss.subject_id, s.subject_name,
		       COALESCE(ss.start_time, '') AS start_time,
		       COALESCE(ss.end_time, '') AS end_time,
		       COALESCE(ss.session_type, '') AS session_type,
		       COALESCE(ss.priority, 1) AS priority
		FROM schedule_slots ss
		JOIN subjects s ON ss.subject_id = s.id AND s.user_id = ss.user_id
		WHERE ss.user_id = ?
		ORDER BY
			CASE ss.day_of_week
				WHEN 'Monday' THEN 1
				WHEN 'Tuesday' THEN 2
				WHEN 'Wednesday' THEN 3
				WHEN 'Thursday' THEN 4
				WHEN 'Friday' THEN 5
				WHEN 'Saturday' THEN 6
				WHEN 'Sunday' THEN 7
			END,
			ss.priority,
			ss.start_time`)
	if err := r.db.SelectContext(ctx, &slots, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return slots, nil
}
