package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

// SlotInput is one row of the timetable form. SubjectName is resolved to a
// subject id when the timetable is saved.
type SlotInput struct {
	Day          string
	SubjectName  string
	StartTime    string
	EndTime      string
	SessionLabel string
}

func (in SlotInput) validate() error {
	if !models.IsWeekday(in.Day) {
		return models.Invalid("day_of_week", fmt.Sprintf("unknown day %q", in.Day))
	}
	if !models.Contains(models.Sessions, in.SessionLabel) {
		return models.Invalid("session_type", fmt.Sprintf("unknown session %q", in.SessionLabel))
	}
	if in.StartTime != "" && !models.ValidClock(in.StartTime) {
		return models.Invalid("start_time", "must be HH:MM")
	}
	if in.EndTime != "" && !models.ValidClock(in.EndTime) {
		return models.Invalid("end_time", "must be HH:MM")
	}
	return nil
}

// Resolver saves and reads the weekly timetable
type Resolver struct {
	slots *database.ScheduleRepository
	log   *logger.Logger
}

// NewResolver creates a resolver over db
func NewResolver(db *sqlx.DB, log *logger.Logger) *Resolver {
	return &Resolver{slots: database.NewScheduleRepository(db), log: log}
}

// Save replaces the user's timetable with inputs. Rows with an empty or
// unknown subject are dropped. Returns how many slots were stored.
func (r *Resolver) Save(ctx context.Context, userID int64, inputs []SlotInput) (int, error) {
	slots := make([]models.ScheduleSlot, 0, len(inputs))
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return 0, err
		}
		slots = append(slots, models.ScheduleSlot{
			UserID:      userID,
			DayOfWeek:   in.Day,
			SubjectName: strings.TrimSpace(in.SubjectName),
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			SessionType: in.SessionLabel,
			Priority:    models.SessionPriority(in.SessionLabel),
		})
	}

	saved, err := r.slots.Replace(ctx, userID, slots)
	if err != nil {
		return 0, err
	}
	if skipped := len(slots) - saved; skipped > 0 {
		r.log.Debug("schedule slots skipped", "user_id", userID, "skipped", skipped)
	}
	return saved, nil
}

// Get returns the stored slots in weekday, priority, start time order
func (r *Resolver) Get(ctx context.Context, userID int64) ([]models.ScheduleSlot, error) {
	return r.slots.List(ctx, userID)
}

// Week groups the timetable by weekday, Monday first. Days without slots are
// included with an empty list.
func (r *Resolver) Week(ctx context.Context, userID int64) ([]models.DaySchedule, error) {
	slots, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	week := make([]models.DaySchedule, len(models.Weekdays))
	for i, day := range models.Weekdays {
		week[i] = models.DaySchedule{Day: day, Slots: []models.ScheduleSlot{}}
	}
	for _, slot := range slots {
		if i := models.WeekdayIndex(slot.DayOfWeek); i >= 0 {
			week[i].Slots = append(week[i].Slots, slot)
		}
	}
	return week, nil
}
