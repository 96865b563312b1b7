package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	sent    []sentMessage
	failFor int64
}

func (n *fakeNotifier) Notify(_ context.Context, chatID int64, text string) error {
	if chatID == n.failFor {
		return errors.New("chat blocked")
	}
	n.sent = append(n.sent, sentMessage{chatID, text})
	return nil
}

func setupUser(t *testing.T, db *sqlx.DB, username string, chatID int64) int64 {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Username: username, PasswordHash: "x", Name: username}
	require.NoError(t, database.NewUserRepository(db).Create(ctx, db, user))

	profiles := database.NewProfileRepository(db)
	require.NoError(t, profiles.Save(ctx, &models.Profile{
		UserID: user.ID, Name: username, TargetStudyHours: 6, WakeupTime: "07:00", Bedtime: "23:00",
	}))
	if chatID != 0 {
		require.NoError(t, profiles.SetTelegramChat(ctx, user.ID, chatID))
	}
	return user.ID
}

func TestSendReminders(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = database.EnsureSchema(ctx, db, logger.Nop())
	require.NoError(t, err)

	setupUser(t, db, "idle", 100)
	busy := setupUser(t, db, "busy", 200)
	setupUser(t, db, "unlinked", 0)
	setupUser(t, db, "blocked", 300)

	subject := &models.Subject{UserID: busy, Name: "Mathematics", Weight: 1, DailyLectureHours: 2, DailyQuestionHours: 1, Difficulty: models.DifficultyMedium}
	require.NoError(t, database.NewSubjectRepository(db).Create(ctx, subject))
	require.NoError(t, database.NewProgressRepository(db).UpsertStudy(ctx, &models.StudyEntry{
		UserID: busy, SubjectID: subject.ID, Date: "2024-03-04", LectureHoursActual: 1.5, QuestionHoursActual: 1, QuestionsSolved: 12,
	}))

	notifier := &fakeNotifier{failFor: 300}
	s := New(db, notifier, 21, logger.Nop())

	sent, err := s.SendReminders(ctx, time.Date(2024, 3, 4, 21, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, notifier.sent, 2)

	assert.Equal(t, int64(100), notifier.sent[0].chatID)
	assert.Contains(t, notifier.sent[0].text, "haven't logged")

	assert.Equal(t, int64(200), notifier.sent[1].chatID)
	assert.Contains(t, notifier.sent[1].text, "Lectures: 1.5 / 2.0 h")
	assert.Contains(t, notifier.sent[1].text, "Solved: 12")
}

func TestFormatTotals(t *testing.T) {
	got := FormatTotals(&models.DailyReport{
		Date:    "2024-03-04",
		Weekday: "Monday",
		Totals:  models.DayTotals{LectureTarget: 3, QuestionTarget: 2, LectureActual: 2.5, QuestionActual: 1, Questions: 7},
	})
	assert.Equal(t, "Study summary for 2024-03-04 (Monday)\nLectures: 2.5 / 3.0 h\nQuestions: 1.0 / 2.0 h\nSolved: 7", got)
}
