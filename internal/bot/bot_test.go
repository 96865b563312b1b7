package bot

import (
	"context"
	"testing"
	"time"

	"github.com/example/studytrack/internal/auth"
	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	messages []tgbotapi.MessageConfig
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.messages = append(s.messages, msg)
	}
	return tgbotapi.Message{}, nil
}

func (s *fakeSender) last() string {
	if len(s.messages) == 0 {
		return ""
	}
	return s.messages[len(s.messages)-1].Text
}

func command(chatID int64, text string) *tgbotapi.Message {
	length := len(text)
	for i, r := range text {
		if r == ' ' {
			length = i
			break
		}
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *sqlx.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = database.EnsureSchema(ctx, db, logger.Nop())
	require.NoError(t, err)

	_, err = auth.NewService(db, logger.Nop()).Register(ctx, auth.RegisterInput{Username: "asha", Password: "secret123", DisplayName: "Asha"})
	require.NoError(t, err)

	api := &fakeSender{}
	b := newBot(api, db, logger.Nop())
	b.now = func() time.Time { return time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC) }
	return b, api, db
}

func TestLinkAndUnlink(t *testing.T) {
	b, api, db := newTestBot(t)
	ctx := context.Background()

	b.handleMessage(ctx, command(42, "/link asha wrong"))
	assert.Equal(t, "Invalid username or password.", api.last())

	b.handleMessage(ctx, command(42, "/link asha"))
	assert.Contains(t, api.last(), "Usage")

	b.handleMessage(ctx, command(42, "/link asha secret123"))
	assert.Contains(t, api.last(), "Linked to asha")

	linked, err := database.NewProfileRepository(db).ListWithTelegramChat(ctx)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, int64(42), linked[0].TelegramChatID.Int64)

	b.handleMessage(ctx, command(42, "/unlink"))
	assert.Equal(t, "Reminders stopped.", api.last())

	b.handleMessage(ctx, command(42, "/unlink"))
	assert.Equal(t, "This chat isn't linked.", api.last())
}

func TestToday(t *testing.T) {
	b, api, db := newTestBot(t)
	ctx := context.Background()

	b.handleMessage(ctx, command(7, "/today"))
	assert.Contains(t, api.last(), "/link first")

	b.handleMessage(ctx, command(7, "/link asha secret123"))

	user, err := database.NewUserRepository(db).GetByUsername(ctx, "asha")
	require.NoError(t, err)
	subject := &models.Subject{UserID: user.ID, Name: "Physics", Weight: 1, DailyLectureHours: 2, DailyQuestionHours: 1, Difficulty: models.DifficultyMedium}
	require.NoError(t, database.NewSubjectRepository(db).Create(ctx, subject))
	require.NoError(t, database.NewProgressRepository(db).UpsertStudy(ctx, &models.StudyEntry{
		UserID: user.ID, SubjectID: subject.ID, Date: "2024-03-04", LectureHoursActual: 1, QuestionsSolved: 3,
	}))

	b.handleMessage(ctx, command(7, "/today"))
	assert.Contains(t, api.last(), "Study summary for 2024-03-04 (Monday)")
	assert.Contains(t, api.last(), "Solved: 3")
}

func TestUnknownInput(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleMessage(ctx, &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}})
	assert.Contains(t, api.last(), "/help")

	b.handleMessage(ctx, command(1, "/dance"))
	assert.Contains(t, api.last(), "Unknown command")

	b.handleMessage(ctx, command(1, "/help"))
	assert.Equal(t, helpText, api.last())
}
