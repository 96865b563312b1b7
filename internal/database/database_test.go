package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = EnsureSchema(context.Background(), db, logger.Nop())
	require.NoError(t, err)
	return db
}

func createUser(t *testing.T, db *sqlx.DB, username string) int64 {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "hash", Name: username}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), db, user))
	return user.ID
}

func createSubject(t *testing.T, db *sqlx.DB, userID int64, name string, weight float64) int64 {
	t.Helper()
	subject := &models.Subject{
		UserID:               userID,
		Name:                 name,
		Weight:               weight,
		TargetTotalHours:     100,
		DailyLectureHours:    2,
		DailyQuestionHours:   1,
		Difficulty:           models.DifficultyMedium,
		TargetCompletionDate: sql.NullString{String: "2024-12-31", Valid: true},
	}
	require.NoError(t, NewSubjectRepository(db).Create(context.Background(), subject))
	return subject.ID
}

func countRows(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, query, args...))
	return n
}
