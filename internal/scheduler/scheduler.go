package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/internal/report"
	"github.com/example/studytrack/pkg/models"
	"github.com/go-co-op/gocron"
	"github.com/jmoiron/sqlx"
)

// Notifier delivers a text message to a chat
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Scheduler runs the daily study reminder
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	profiles  *database.ProfileRepository
	progress  *database.ProgressRepository
	reports   *report.Engine
	log       *logger.Logger
	hour      int
}

// New creates a scheduler that fires every day at hour, local time
func New(db *sqlx.DB, notifier Notifier, hour int, log *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		profiles:  database.NewProfileRepository(db),
		progress:  database.NewProgressRepository(db),
		reports:   report.NewEngine(db),
		log:       log.With("component", "scheduler"),
		hour:      hour,
	}
}

// Start schedules the reminder job and returns immediately
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.hour)).Do(func() {
		sent, err := s.SendReminders(context.Background(), time.Now())
		if err != nil {
			s.log.Error("reminder run failed", "error", err)
			return
		}
		s.log.Info("reminders sent", "count", sent)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("reminder scheduler started", "hour", s.hour)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// SendReminders messages every user with a linked chat: a nudge when today
// has no entry, otherwise the day's totals. A failed send is logged and
// does not stop the others. Returns how many messages went out.
func (s *Scheduler) SendReminders(ctx context.Context, today time.Time) (int, error) {
	profiles, err := s.profiles.ListWithTelegramChat(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, p := range profiles {
		text, err := s.message(ctx, p, today)
		if err != nil {
			s.log.Warn("failed to build reminder", "user_id", p.UserID, "error", err)
			continue
		}
		if err := s.notifier.Notify(ctx, p.TelegramChatID.Int64, text); err != nil {
			s.log.Warn("failed to send reminder", "user_id", p.UserID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Scheduler) message(ctx context.Context, p models.Profile, today time.Time) (string, error) {
	logged, err := s.progress.HasEntry(ctx, p.UserID, models.FormatDate(today))
	if err != nil {
		return "", err
	}
	if !logged {
		return fmt.Sprintf("Hi %s! You haven't logged any study for today yet. Your target is %d hours.",
			p.Name, p.TargetStudyHours), nil
	}

	daily, err := s.reports.DailyReport(ctx, p.UserID, today)
	if err != nil {
		return "", err
	}
	return FormatTotals(daily), nil
}

// FormatTotals renders a daily report as a short chat message
func FormatTotals(r *models.DailyReport) string {
	t := r.Totals
	return fmt.Sprintf("Study summary for %s (%s)\nLectures: %.1f / %.1f h\nQuestions: %.1f / %.1f h\nSolved: %d",
		r.Date, r.Weekday, t.LectureActual, t.LectureTarget, t.QuestionActual, t.QuestionTarget, t.Questions)
}
