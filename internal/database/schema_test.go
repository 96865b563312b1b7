package database

import (
	"context"
	"testing"

	"github.com/example/studytrack/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchemaCreatesTables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, tbl := range canonicalSchema {
		ok, err := tableExists(ctx, db, tbl.Name)
		require.NoError(t, err)
		assert.True(t, ok, tbl.Name)
	}
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	repairs, err := EnsureSchema(context.Background(), db, logger.Nop())
	require.NoError(t, err)
	assert.Empty(t, repairs)
}

func TestRepairSchemaAddsMissingColumns(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	// A subjects table from an older release
	_, err = db.Exec(`CREATE TABLE subjects (id INTEGER PRIMARY KEY AUTOINCREMENT, subject_name TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subjects (subject_name) VALUES ('Physics')`)
	require.NoError(t, err)

	repairs, err := EnsureSchema(ctx, db, logger.Nop())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"subjects.user_id added",
		"subjects.weightage added",
		"subjects.target_total_hours added",
		"subjects.daily_lecture_hours added",
		"subjects.daily_question_hours added",
		"subjects.difficulty added",
		"subjects.target_completion_date added",
	}, repairs)

	// SQLite refuses a CURRENT_TIMESTAMP default on ALTER; that failure is swallowed
	assert.NotContains(t, repairs, "subjects.created_at added")

	subjects, err := NewSubjectRepository(db).List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Physics", subjects[0].Name)
	assert.Equal(t, 1.0, subjects[0].Weight)
	assert.Equal(t, 100.0, subjects[0].TargetTotalHours)
	assert.Equal(t, "Medium", subjects[0].Difficulty)

	again := RepairSchema(ctx, db, logger.Nop())
	assert.Empty(t, again)
}

func TestRepairSchemaSkipsMissingTables(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Empty(t, RepairSchema(context.Background(), db, logger.Nop()))
}

func TestCreateStatementPerDialect(t *testing.T) {
	tbl := canonicalSchema[0]

	sqlite := tbl.createStatement(false)
	assert.Contains(t, sqlite, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	assert.Contains(t, sqlite, "username TEXT UNIQUE NOT NULL")

	pg := tbl.createStatement(true)
	assert.Contains(t, pg, "id SERIAL PRIMARY KEY")
	assert.Contains(t, pg, "created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP")
}

func TestColumnDefinitionForRepairDropsConstraints(t *testing.T) {
	c := column{Name: "user_id", Kind: kindInt, Constraint: "NOT NULL UNIQUE", Default: "1"}
	assert.Equal(t, "user_id INTEGER DEFAULT 1", c.definition(false, false))
	assert.Equal(t, "user_id BIGINT NOT NULL UNIQUE DEFAULT 1", c.definition(true, true))
}
