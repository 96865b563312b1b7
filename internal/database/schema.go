package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/studytrack/internal/logger"
	"github.com/jmoiron/sqlx"
)

type columnKind int

const (
	kindID columnKind = iota
	kindInt
	kindReal
	kindText
	kindBool
	kindTimestamp
)

// column is one canonical column. Constraint is only used on CREATE;
// Default is also used when the column is added to an existing table.
type column struct {
	Name       string
	Kind       columnKind
	Constraint string
	Default    string
}

type table struct {
	Name        string
	Columns     []column
	Constraints []string
	Indexes     []string
}

var createdAt = column{Name: "created_at", Kind: kindTimestamp, Default: "CURRENT_TIMESTAMP"}

// canonicalSchema is the single source of truth for CREATE and repair.
// Repair defaults for user_id point legacy single-user rows at the first account.
var canonicalSchema = []table{
	{
		Name: "users",
		Columns: []column{
			{Name: "id", Kind: kindID},
			{Name: "username", Kind: kindText, Constraint: "UNIQUE NOT NULL"},
			{Name: "password", Kind: kindText, Constraint: "NOT NULL", Default: "''"},
			{Name: "name", Kind: kindText, Constraint: "NOT NULL", Default: "''"},
			{Name: "email", Kind: kindText},
			{Name: "phone", Kind: kindText},
			createdAt,
		},
	},
	{
		Name: "students",
		Columns: []column{
			{Name: "id", Kind: kindID},
			{Name: "user_id", Kind: kindInt, Constraint: "NOT NULL UNIQUE", Default: "1"},
			{Name: "name", Kind: kindText, Constraint: "NOT NULL", Default: "''"},
			{Name: "photo", Kind: kindText},
			{Name: "email", Kind: kindText},
			{Name: "phone", Kind: kindText},
			{Name: "target_study_hours", Kind: kindInt, Default: "6"},
			{Name: "wakeup_time", Kind: kindText, Default: "'07:00'"},
			{Name: "bedtime", Kind: kindText, Default: "'23:00'"},
			{Name: "telegram_chat_id", Kind: kindInt},
			createdAt,
		},
	},
	{
		Name: "subjects",
		Columns: []column{
			{Name: "id", Kind: kindID},
			{Name: "user_id", Kind: kindInt, Constraint: "NOT NULL", Default: "1"},
			{Name: "subject_name", Kind: kindText, Constraint: "NOT NULL", Default: "''"},
			{Name: "weightage", Kind: kindReal, Default: "1.0"},
			{Name: "target_total_hours", Kind: kindReal, Default: "100.0"},
			{Name: "daily_lecture_hours", Kind: kindReal, Default: "2.0"},
			{Name: "daily_question_hours", Kind: kindReal, Default: "1.0"},
			{Name: "difficulty", Kind: kindText, Default: "'Medium'"},
			{Name: "target_completion_date", Kind: kindText},
			createdAt,
		},
		Indexes: []string{"CREATE INDEX IF NOT EXISTS idx_subjects_user ON subjects(user_id)"},
	},
	{
		Name: "exercises",
		Columns: []column{
			{Name: "id", Kind: kindID},
			{Name: "user_id", Kind: kindInt, Constraint: "NOT NULL", Default: "1"},
			{Name: "exercise_type", Kind: kindText, Constraint: "NOT NULL", Default: "''"},
			{Name: "day_of_week", Kind: kindText, Constraint: "NOT NULL", Default: "'Monday'"},
			{Name: "duration_minutes", Kind: kindInt, Default: "30"},
			{Name: "intensity", Kind: kindText, Default: "'Moderate'"},
			{Name: "notes", Kind: kindText},
			createdAt,
		},
		Indexes: []string{"CREATE INDEX IF NOT EXISTS idx_exercises_user_day ON exercises(user_id, day_of_week)"},
	},
	{
		Name: "daily_progress",
		Columns: []column{
			{Name: "id", Kind: kindID},
			{Name: "user_id", Kind: kindInt, Constraint: "NOT NULL", Default: "1"},
			{Name: "subject_id", Kind: kindInt, Constraint: "NOT NULL"},
			{Name: "date", Kind: kindText, Constraint: "NOT NULL"},
			{Name: "lecture_hours_actual", Kind: kindReal, Default: "0.0"},
			{Name: "question_hours_actual", Kind: kindReal, Default: "0.0"},
			{Name: "questions_solved", Kind: kindInt, Default: "0"},
			createdAt,
		},
		Constraints: []string{"UNIQUE(user_id, subject_id, date)"},
		Indexes: []string{
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_progress_entry ON daily_progress(user_id, subject_id, date)",
			"CREATE INDEX IF NOT EXISTS idx_daily_progress_user_date ON daily_progress(user_id, date)",
		},
	},
	{
		Name: "daily_logs",
		Columns: []column{
			{Name: "id", Kind: kindID},
			{Name: "user_id", Kind: kindInt, Constraint: "NOT NULL", Default: "1"},
			{Name: "date", Kind: kindText, Constraint: "NOT NULL"},
			{Name: "exercise_done", Kind: kindBool, Default: "FALSE"},
			{Name: "exercise_minutes", Kind: kindInt, Default: "0"},
			{Name: "mood", Kind: kindText, Default: "'🙂 Good'"},
			{Name: "notes", Kind: kindText},
			createdAt,
		},
		Constraints: []string{"UNIQUE(user_id, date)"},
		Indexes:     []string{"CREATE UNIQUE INDEX IF NOT EXISTS idx_daily_logs_entry ON daily_logs(user_id, date)"},
	},
	{
		Name: "schedule_slots",
		Columns: []column{
			{Name: "id", Kind: kindID},
			{Name: "user_id", Kind: kindInt, Constraint: "NOT NULL", Default: "1"},
			{Name: "day_of_week", Kind: kindText, Constraint: "NOT NULL", Default: "'Monday'"},
			{Name: "subject_id", Kind: kindInt},
			{Name: "start_time", Kind: kindText},
			{Name: "end_time", Kind: kindText},
			{Name: "session_type", Kind: kindText},
			{Name: "priority", Kind: kindInt, Default: "1"},
			createdAt,
		},
	},
	{
		Name: "schema_backfills",
		Columns: []column{
			{Name: "name", Kind: kindText, Constraint: "PRIMARY KEY"},
			{Name: "applied_at", Kind: kindTimestamp, Default: "CURRENT_TIMESTAMP"},
		},
	},
}

func (k columnKind) sqlType(postgres bool) string {
	switch k {
	case kindID:
		if postgres {
			return "SERIAL PRIMARY KEY"
		}
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	case kindInt:
		if postgres {
			return "BIGINT"
		}
		return "INTEGER"
	case kindReal:
		if postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case kindBool:
		return "BOOLEAN"
	case kindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (c column) definition(postgres, withConstraint bool) string {
	parts := []string{c.Name, c.Kind.sqlType(postgres)}
	if withConstraint && c.Constraint != "" {
		parts = append(parts, c.Constraint)
	}
	if c.Default != "" {
		parts = append(parts, "DEFAULT "+c.Default)
	}
	return strings.Join(parts, " ")
}

func (t table) createStatement(postgres bool) string {
	defs := make([]string, 0, len(t.Columns)+len(t.Constraints))
	for _, c := range t.Columns {
		defs = append(defs, c.definition(postgres, true))
	}
	defs = append(defs, t.Constraints...)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

// EnsureSchema creates every missing table, repairs existing ones, moves
// data older layouts kept elsewhere and returns the repair events. Safe to
// call on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB, log *logger.Logger) ([]string, error) {
	postgres := isPostgres(db)

	for _, t := range canonicalSchema {
		if _, err := db.ExecContext(ctx, t.createStatement(postgres)); err != nil {
			return nil, fmt.Errorf("failed to create %s table: %w", t.Name, err)
		}
	}

	repairs := RepairSchema(ctx, db, log)

	for _, t := range canonicalSchema {
		for _, idx := range t.Indexes {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				log.Warn("failed to create index", "table", t.Name, "error", err)
			}
		}
	}

	repairs = append(repairs, normalizeDates(ctx, db, log)...)
	repairs = append(repairs, runBackfills(ctx, db, log)...)

	log.Info("schema ready", "tables", len(canonicalSchema), "repairs", len(repairs))
	return repairs, nil
}

// RepairSchema adds canonical columns missing from existing tables. It never
// drops or renames anything. Failed additions are logged and skipped; only
// successful ones are returned, as "table.column added".
func RepairSchema(ctx context.Context, db *sqlx.DB, log *logger.Logger) []string {
	postgres := isPostgres(db)
	var repairs []string

	for _, t := range canonicalSchema {
		ok, err := tableExists(ctx, db, t.Name)
		if err != nil {
			log.Warn("schema repair: table lookup failed", "table", t.Name, "error", err)
			continue
		}
		if !ok {
			continue
		}

		live, err := liveColumns(ctx, db, t.Name)
		if err != nil {
			log.Warn("schema repair: column lookup failed", "table", t.Name, "error", err)
			continue
		}

		for _, c := range t.Columns {
			if c.Kind == kindID || live[c.Name] {
				continue
			}
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", t.Name, c.definition(postgres, false))
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				log.Warn("schema repair: column not added", "table", t.Name, "column", c.Name, "error", err)
				continue
			}
			event := fmt.Sprintf("%s.%s added", t.Name, c.Name)
			log.Info("schema repair", "event", event)
			repairs = append(repairs, event)
		}
	}

	return repairs
}

func tableExists(ctx context.Context, db *sqlx.DB, name string) (bool, error) {
	var query string
	if isPostgres(db) {
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?"
	} else {
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	}

	var count int
	if err := db.GetContext(ctx, &count, db.Rebind(query), name); err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	return count > 0, nil
}

func liveColumns(ctx context.Context, db *sqlx.DB, name string) (map[string]bool, error) {
	cols := make(map[string]bool)

	if isPostgres(db) {
		var names []string
		query := db.Rebind("SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?")
		if err := db.SelectContext(ctx, &names, query, name); err != nil {
			return nil, err
		}
		for _, n := range names {
			cols[n] = true
		}
		return cols, nil
	}

	// Table names come from canonicalSchema, never from input
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			colName string
			colType string
			notNull int
			dflt    interface{}
			pk      int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[colName] = true
	}
	return cols, rows.Err()
}
