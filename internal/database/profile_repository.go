package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

const profileColumns = `id, user_id, name, photo, email, phone,
	COALESCE(target_study_hours, 6) AS target_study_hours,
	COALESCE(wakeup_time, '07:00') AS wakeup_time,
	COALESCE(bedtime, '23:00') AS bedtime,
	telegram_chat_id`

// ProfileRepository handles database operations for student profiles
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository creates a new repository instance
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID returns the profile linked to a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	query := r.db.Rebind("SELECT " + profileColumns + " FROM students WHERE user_id = ?")
	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// IDForUser returns the profile ID linked to a user, or nil when there is none
func (r *ProfileRepository) IDForUser(ctx context.Context, userID int64) (*int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, r.db.Rebind("SELECT id FROM students WHERE user_id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile id: %w", err)
	}
	return &id, nil
}

// Exists reports whether the user has completed a profile
func (r *ProfileRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind("SELECT COUNT(*) FROM students WHERE user_id = ?"), userID)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return count > 0, nil
}

// Create inserts a profile and sets its ID
func (r *ProfileRepository) Create(ctx context.Context, ext sqlx.ExtContext, p *models.Profile) error {
	id, err := insertReturningID(ctx, ext, `
		INSERT INTO students (user_id, name, photo, email, phone, target_study_hours, wakeup_time, bedtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, p.Photo, p.Email, p.Phone, p.TargetStudyHours, p.WakeupTime, p.Bedtime,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	p.ID = id
	return nil
}

// Save updates the user's profile, creating it on first completion
func (r *ProfileRepository) Save(ctx context.Context, p *models.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE students
			SET name = ?, photo = ?, email = ?, phone = ?,
				target_study_hours = ?, wakeup_time = ?, bedtime = ?
			WHERE user_id = ?`),
			p.Name, p.Photo, p.Email, p.Phone, p.TargetStudyHours, p.WakeupTime, p.Bedtime, p.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return r.Create(ctx, tx, p)
		}

		return sqlx.GetContext(ctx, tx, &p.ID, tx.Rebind("SELECT id FROM students WHERE user_id = ?"), p.UserID)
	})
}

// Photo returns the stored base64 photo, or "" when there is none
func (r *ProfileRepository) Photo(ctx context.Context, userID int64) (string, error) {
	var photo sql.NullString
	err := r.db.GetContext(ctx, &photo, r.db.Rebind("SELECT photo FROM students WHERE user_id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get photo: %w", err)
	}
	return photo.String, nil
}

// SetTelegramChat links a telegram chat for reminders. Pass 0 to unlink.
func (r *ProfileRepository) SetTelegramChat(ctx context.Context, userID, chatID int64) error {
	chat := sql.NullInt64{Int64: chatID, Valid: chatID != 0}
	result, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE students SET telegram_chat_id = ? WHERE user_id = ?"), chat, userID)
	if err != nil {
		return fmt.Errorf("failed to set telegram chat: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListWithTelegramChat returns every profile that has a linked chat
func (r *ProfileRepository) ListWithTelegramChat(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.SelectContext(ctx, &profiles, "SELECT "+profileColumns+" FROM students WHERE telegram_chat_id IS NOT NULL ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	return profiles, nil
}
