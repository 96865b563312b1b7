package database

import (
	"context"
	"fmt"

	"github.com/example/studytrack/internal/logger"
	"github.com/jmoiron/sqlx"
)

// dateColumns are stored as YYYY-MM-DD text. Older databases declare them
// DATE and may hold a time suffix.
var dateColumns = []struct{ Table, Column string }{
	{"daily_progress", "date"},
	{"daily_logs", "date"},
	{"subjects", "target_completion_date"},
}

// backfill copies rows an older layout kept in another place into the
// canonical tables. Each one runs once and is recorded in schema_backfills.
type backfill struct {
	Name     string
	Source   string
	Requires []string
	Query    func(postgres bool) string
}

var backfills = []backfill{
	{
		Name:     "daily_logs_from_daily_progress",
		Source:   "daily_progress",
		Requires: []string{"exercise_done", "exercise_minutes", "mood", "notes"},
		Query: func(postgres bool) string {
			done := "MAX(COALESCE(exercise_done, 0))"
			if postgres {
				done = "BOOL_OR(COALESCE(exercise_done, FALSE))"
			}
			return `
				INSERT INTO daily_logs (user_id, date, exercise_done, exercise_minutes, mood, notes)
				SELECT user_id, substr(date, 1, 10), ` + done + `,
				       MAX(COALESCE(exercise_minutes, 0)),
				       MAX(COALESCE(mood, '🙂 Good')),
				       MAX(COALESCE(notes, ''))
				FROM daily_progress
				WHERE user_id IS NOT NULL
				GROUP BY user_id, substr(date, 1, 10)
				ON CONFLICT (user_id, date) DO NOTHING`
		},
	},
	{
		Name:     "schedule_slots_from_study_schedule",
		Source:   "study_schedule",
		Requires: []string{"user_id", "day_of_week", "subject_id", "start_time", "end_time", "session_type", "priority"},
		Query: func(bool) string {
			return `
				INSERT INTO schedule_slots (user_id, day_of_week, subject_id, start_time, end_time, session_type, priority)
				SELECT user_id, day_of_week, subject_id, start_time, end_time, session_type, COALESCE(priority, 1)
				FROM study_schedule
				WHERE user_id IS NOT NULL
				ORDER BY id`
		},
	},
}

// normalizeDates trims stored dates to YYYY-MM-DD so equality and range
// filters match. Returns one event per table that changed.
func normalizeDates(ctx context.Context, db *sqlx.DB, log *logger.Logger) []string {
	var events []string
	for _, dc := range dateColumns {
		stmt := fmt.Sprintf("UPDATE %[1]s SET %[2]s = substr(%[2]s, 1, 10) WHERE length(%[2]s) > 10", dc.Table, dc.Column)
		result, err := db.ExecContext(ctx, stmt)
		if err != nil {
			log.Warn("schema repair: dates not normalized", "table", dc.Table, "column", dc.Column, "error", err)
			continue
		}
		if n, _ := result.RowsAffected(); n > 0 {
			event := fmt.Sprintf("%s.%s normalized (%d rows)", dc.Table, dc.Column, n)
			log.Info("schema repair", "event", event)
			events = append(events, event)
		}
	}
	return events
}

// runBackfills applies every pending backfill whose source has the columns
// it reads. The copy and its record commit together.
func runBackfills(ctx context.Context, db *sqlx.DB, log *logger.Logger) []string {
	postgres := isPostgres(db)
	var events []string

	for _, b := range backfills {
		ready, err := backfillReady(ctx, db, b)
		if err != nil {
			log.Warn("schema repair: backfill check failed", "backfill", b.Name, "error", err)
			continue
		}
		if !ready {
			continue
		}

		var copied int64
		err = WithTx(ctx, db, func(tx *sqlx.Tx) error {
			result, err := tx.ExecContext(ctx, b.Query(postgres))
			if err != nil {
				return fmt.Errorf("failed to copy rows: %w", err)
			}
			copied, _ = result.RowsAffected()

			if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO schema_backfills (name) VALUES (?)"), b.Name); err != nil {
				return fmt.Errorf("failed to record backfill: %w", err)
			}
			return nil
		})
		if err != nil {
			log.Warn("schema repair: backfill failed", "backfill", b.Name, "error", err)
			continue
		}

		event := fmt.Sprintf("%s backfilled (%d rows)", b.Name, copied)
		log.Info("schema repair", "event", event)
		events = append(events, event)
	}
	return events
}

func backfillReady(ctx context.Context, db *sqlx.DB, b backfill) (bool, error) {
	var applied int
	query := db.Rebind("SELECT COUNT(*) FROM schema_backfills WHERE name = ?")
	if err := db.GetContext(ctx, &applied, query, b.Name); err != nil {
		return false, fmt.Errorf("failed to look up backfill: %w", err)
	}
	if applied > 0 {
		return false, nil
	}

	ok, err := tableExists(ctx, db, b.Source)
	if err != nil || !ok {
		return false, err
	}
	live, err := liveColumns(ctx, db, b.Source)
	if err != nil {
		return false, err
	}
	for _, c := range b.Requires {
		if !live[c] {
			return false, nil
		}
	}
	return true, nil
}
