package database

import (
	"context"
	"testing"

	"github.com/example/studytrack/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyDB builds the single-table layout an earlier release wrote: DATE
// columns, per-day fields on every progress row and a study_schedule table.
func legacyDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL, name TEXT NOT NULL, email TEXT, phone TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
		`CREATE TABLE subjects (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL,
			subject_name TEXT NOT NULL, weightage FLOAT DEFAULT 1.0, target_total_hours FLOAT DEFAULT 100.0,
			daily_lecture_hours FLOAT DEFAULT 2.0, daily_question_hours FLOAT DEFAULT 1.0,
			difficulty TEXT DEFAULT 'Medium', target_completion_date DATE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
		`CREATE TABLE daily_progress (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL,
			subject_id INTEGER, date DATE NOT NULL, lecture_hours_actual FLOAT DEFAULT 0.0,
			question_hours_actual FLOAT DEFAULT 0.0, questions_solved INTEGER DEFAULT 0,
			exercise_done BOOLEAN DEFAULT 0, exercise_minutes INTEGER DEFAULT 0,
			mood TEXT DEFAULT '🙂 Good', notes TEXT, created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, subject_id, date))`,
		`CREATE TABLE study_schedule (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL,
			day_of_week TEXT NOT NULL, subject_id INTEGER, start_time TEXT, end_time TEXT,
			session_type TEXT, priority INTEGER DEFAULT 1, created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`,
		`INSERT INTO users (username, password, name) VALUES ('asha', 'x', 'Asha')`,
		`INSERT INTO subjects (user_id, subject_name, target_completion_date) VALUES (1, 'Mathematics', '2024-12-31')`,
		`INSERT INTO subjects (user_id, subject_name) VALUES (1, 'Physics')`,
		`INSERT INTO daily_progress (user_id, subject_id, date, lecture_hours_actual, question_hours_actual,
			questions_solved, exercise_done, exercise_minutes, mood, notes)
			VALUES (1, 1, '2024-03-04', 2.0, 1.0, 5, 1, 30, '😊 Great', 'long day')`,
		`INSERT INTO daily_progress (user_id, subject_id, date, lecture_hours_actual, question_hours_actual,
			questions_solved, exercise_done, exercise_minutes, mood, notes)
			VALUES (1, 2, '2024-03-04', 1.0, 0.5, 2, 1, 30, '😊 Great', 'long day')`,
		`INSERT INTO daily_progress (user_id, subject_id, date, lecture_hours_actual)
			VALUES (1, 1, '2024-03-05 00:00:00', 1.5)`,
		`INSERT INTO study_schedule (user_id, day_of_week, subject_id, start_time, end_time, session_type, priority)
			VALUES (1, 'Monday', 1, '08:00', '10:00', 'Morning', 1)`,
		`INSERT INTO study_schedule (user_id, day_of_week, subject_id, start_time, end_time, session_type, priority)
			VALUES (1, 'Tuesday', 2, '14:00', '15:00', 'Afternoon', 2)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestEnsureSchemaAdoptsLegacyLayout(t *testing.T) {
	db := legacyDB(t)
	ctx := context.Background()

	repairs, err := EnsureSchema(ctx, db, logger.Nop())
	require.NoError(t, err)
	assert.Contains(t, repairs, "daily_progress.date normalized (1 rows)")
	assert.Contains(t, repairs, "daily_logs_from_daily_progress backfilled (2 rows)")
	assert.Contains(t, repairs, "schedule_slots_from_study_schedule backfilled (2 rows)")

	progress := NewProgressRepository(db)

	entries, err := progress.ListStudyByDate(ctx, 1, "2024-03-04")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-03-04", entries[0].Date)

	entry, err := progress.GetStudy(ctx, 1, 1, "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", entry.Date)
	assert.Equal(t, 1.5, entry.LectureHoursActual)

	dates, err := progress.RecentDates(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-05", "2024-03-04"}, dates)

	day, err := progress.GetDailyLog(ctx, 1, "2024-03-04")
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.True(t, day.ExerciseDone)
	assert.Equal(t, 30, day.ExerciseMinutes)
	assert.Equal(t, "😊 Great", day.Mood)
	assert.Equal(t, "long day", day.Notes)

	logs, err := progress.ListDailyLogs(ctx, 1, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-03-05", logs[1].Date)
	assert.False(t, logs[1].ExerciseDone)

	totals, err := NewReportRepository(db).DateTotals(ctx, 1, "2024-03-04", "2024-03-05")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "2024-03-04", totals[0].Date)
	assert.Equal(t, 3.0, totals[0].LectureHours)
	assert.Equal(t, 2, totals[0].SubjectsStudied)

	subject, err := NewSubjectRepository(db).GetByID(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", subject.TargetCompletionDate.String)

	slots, err := NewScheduleRepository(db).List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Monday", slots[0].DayOfWeek)
	assert.Equal(t, "Mathematics", slots[0].SubjectName)
	assert.Equal(t, "Afternoon", slots[1].SessionType)
}

func TestLegacyBackfillsRunOnce(t *testing.T) {
	db := legacyDB(t)
	ctx := context.Background()

	_, err := EnsureSchema(ctx, db, logger.Nop())
	require.NoError(t, err)

	// A cleared timetable stays cleared across restarts
	_, err = NewScheduleRepository(db).Replace(ctx, 1, nil)
	require.NoError(t, err)

	repairs, err := EnsureSchema(ctx, db, logger.Nop())
	require.NoError(t, err)
	assert.Empty(t, repairs)
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM schedule_slots"))
	assert.Equal(t, 2, countRows(t, db, "SELECT COUNT(*) FROM daily_logs"))
	assert.Equal(t, 2, countRows(t, db, "SELECT COUNT(*) FROM schema_backfills"))
}

func TestBackfillsSkipFreshDatabases(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM schema_backfills"))
}
