package models

import "database/sql"

// Profile defaults applied at registration
const (
	DefaultStudyHours = 6
	DefaultWakeupTime = "07:00"
	DefaultBedtime    = "23:00"
)

// Profile is the student profile linked one-to-one with a User
type Profile struct {
	ID               int64          `json:"id" db:"id"`
	UserID           int64          `json:"user_id" db:"user_id"`
	Name             string         `json:"name" db:"name"`
	Photo            sql.NullString `json:"photo" db:"photo"` // base64 encoded image
	Email            sql.NullString `json:"email" db:"email"`
	Phone            sql.NullString `json:"phone" db:"phone"`
	TargetStudyHours int            `json:"target_study_hours" db:"target_study_hours"` // 1-12
	WakeupTime       string         `json:"wakeup_time" db:"wakeup_time"`               // HH:MM
	Bedtime          string         `json:"bedtime" db:"bedtime"`                       // HH:MM
	TelegramChatID   sql.NullInt64  `json:"telegram_chat_id" db:"telegram_chat_id"`
}
