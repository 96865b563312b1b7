package database

import (
	"context"
	"testing"

	"github.com/example/studytrack/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLookup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	id := createUser(t, db, "asha")

	byName, err := repo.GetByUsername(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "asha", byID.Username)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	exists, err := repo.Exists(ctx, db, "asha")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProfileSaveCreatesThenUpdates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(db)
	userID := createUser(t, db, "asha")

	exists, err := repo.Exists(ctx, userID)
	require.NoError(t, err)
	assert.False(t, exists)

	profile := &models.Profile{UserID: userID, Name: "Asha", TargetStudyHours: 6, WakeupTime: "07:00", Bedtime: "23:00"}
	require.NoError(t, repo.Save(ctx, profile))
	require.NotZero(t, profile.ID)
	firstID := profile.ID

	profile.TargetStudyHours = 8
	profile.Photo.String, profile.Photo.Valid = "aGVsbG8=", true
	require.NoError(t, repo.Save(ctx, profile))
	assert.Equal(t, firstID, profile.ID)

	got, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.TargetStudyHours)

	photo, err := repo.Photo(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", photo)
}

func TestProfileTelegramChat(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(db)
	userID := createUser(t, db, "asha")

	assert.ErrorIs(t, repo.SetTelegramChat(ctx, userID, 42), models.ErrNotFound)

	require.NoError(t, repo.Save(ctx, &models.Profile{UserID: userID, Name: "Asha", TargetStudyHours: 6, WakeupTime: "07:00", Bedtime: "23:00"}))
	require.NoError(t, repo.SetTelegramChat(ctx, userID, 42))

	linked, err := repo.ListWithTelegramChat(ctx)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, int64(42), linked[0].TelegramChatID.Int64)
}
