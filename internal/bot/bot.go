package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/studytrack/internal/auth"
	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/internal/report"
	"github.com/example/studytrack/internal/scheduler"
	"github.com/example/studytrack/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
)

const helpText = `studytrack reminders

/link <username> <password> - receive daily reminders in this chat
/unlink - stop reminders
/today - show today's totals`

// sender is the part of the Telegram API the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot links Telegram chats to accounts and delivers reminders
type Bot struct {
	api      sender
	updates  tgbotapi.UpdatesChannel
	auth     *auth.Service
	profiles *database.ProfileRepository
	reports  *report.Engine
	log      *logger.Logger
	now      func() time.Time
}

var _ scheduler.Notifier = (*Bot)(nil)

// New authorizes against the Telegram API with token
func New(token string, db *sqlx.DB, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Info("telegram bot authorized", "account", api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	b := newBot(api, db, log)
	b.updates = api.GetUpdatesChan(updateConfig)
	return b, nil
}

func newBot(api sender, db *sqlx.DB, log *logger.Logger) *Bot {
	return &Bot{
		api:      api,
		auth:     auth.NewService(db, log),
		profiles: database.NewProfileRepository(db),
		reports:  report.NewEngine(db),
		log:      log.With("component", "bot"),
		now:      time.Now,
	}
}

// Run handles incoming updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-b.updates:
			if !ok {
				return
			}
			if update.Message != nil {
				b.handleMessage(ctx, update.Message)
			}
		}
	}
}

// Notify implements scheduler.Notifier
func (b *Bot) Notify(ctx context.Context, chatID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", chatID, err)
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !message.IsCommand() {
		b.reply(ctx, chatID, "I don't understand. Use /help to see the commands.")
		return
	}

	switch message.Command() {
	case "start", "help":
		b.reply(ctx, chatID, helpText)
	case "link":
		b.reply(ctx, chatID, b.link(ctx, chatID, message.CommandArguments()))
	case "unlink":
		b.reply(ctx, chatID, b.unlink(ctx, chatID))
	case "today":
		b.reply(ctx, chatID, b.today(ctx, chatID))
	default:
		b.reply(ctx, chatID, "Unknown command. Use /help to see the commands.")
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.Notify(ctx, chatID, text); err != nil {
		b.log.Warn("failed to reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) link(ctx context.Context, chatID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "Usage: /link <username> <password>"
	}

	identity, err := b.auth.Login(ctx, fields[0], fields[1])
	if errors.Is(err, models.ErrInvalidCredentials) {
		return "Invalid username or password."
	}
	if err != nil {
		b.log.Error("link login failed", "error", err)
		return "Something went wrong, please try again later."
	}

	err = b.profiles.SetTelegramChat(ctx, identity.UserID, chatID)
	if errors.Is(err, models.ErrNotFound) {
		return "Complete your profile first, then link this chat."
	}
	if err != nil {
		b.log.Error("failed to link chat", "user_id", identity.UserID, "error", err)
		return "Something went wrong, please try again later."
	}

	b.log.Info("telegram chat linked", "user_id", identity.UserID)
	return fmt.Sprintf("Linked to %s. You'll get a reminder every evening.", identity.Username)
}

// profileForChat finds the profile linked to chatID
func (b *Bot) profileForChat(ctx context.Context, chatID int64) (*models.Profile, error) {
	profiles, err := b.profiles.ListWithTelegramChat(ctx)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].TelegramChatID.Int64 == chatID {
			return &profiles[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (b *Bot) unlink(ctx context.Context, chatID int64) string {
	profile, err := b.profileForChat(ctx, chatID)
	if errors.Is(err, models.ErrNotFound) {
		return "This chat isn't linked."
	}
	if err == nil {
		err = b.profiles.SetTelegramChat(ctx, profile.UserID, 0)
	}
	if err != nil {
		b.log.Error("failed to unlink chat", "error", err)
		return "Something went wrong, please try again later."
	}
	return "Reminders stopped."
}

func (b *Bot) today(ctx context.Context, chatID int64) string {
	profile, err := b.profileForChat(ctx, chatID)
	if errors.Is(err, models.ErrNotFound) {
		return "This chat isn't linked. Use /link first."
	}
	if err != nil {
		b.log.Error("failed to find profile", "error", err)
		return "Something went wrong, please try again later."
	}

	daily, err := b.reports.DailyReport(ctx, profile.UserID, b.now())
	if err != nil {
		b.log.Error("failed to build daily report", "user_id", profile.UserID, "error", err)
		return "Something went wrong, please try again later."
	}
	return scheduler.FormatTotals(daily)
}
