package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/studytrack/internal/bot"
	"github.com/example/studytrack/internal/config"
	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/internal/scheduler"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// app holds what every command needs once the store is ready
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *sqlx.DB
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "studytrack",
		Short:         "Personal study tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the Telegram bot and the daily reminder job",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create missing tables and columns, then exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return nil
			},
		},
		registerCmd(a),
		profileCmd(a),
		subjectCmd(a),
		exerciseCmd(a),
		statusCmd(a),
		timetableCmd(a),
		logCmd(a),
		reportCmd(a),
		exportCmd(a),
		importCmd(a),
		askCmd(a),
	)

	return cmd
}

// open loads config, connects and brings the schema up to date. It runs
// before any command touches the store.
func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.db, err = database.Connect(cfg)
	if err != nil {
		return err
	}

	repairs, err := database.EnsureSchema(ctx, a.db, a.log)
	if err != nil {
		return err
	}
	for _, r := range repairs {
		a.log.Info("schema repaired", "event", r)
	}
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		a.log.Sync()
	}
}

func (a *app) serve(ctx context.Context) error {
	if !a.cfg.RemindersEnabled() {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is not set, nothing to serve")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := bot.New(a.cfg.TelegramBotToken, a.db, a.log)
	if err != nil {
		return err
	}

	reminders := scheduler.New(a.db, b, a.cfg.ReminderHour, a.log)
	if err := reminders.Start(); err != nil {
		return err
	}
	defer reminders.Stop()

	a.log.Info("bot started, press Ctrl+C to stop")
	b.Run(ctx)
	a.log.Info("bot stopped")
	return nil
}
