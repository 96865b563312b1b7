package database

import (
	"context"
	"testing"

	"github.com/example/studytrack/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewScheduleRepository(db)
	userID := createUser(t, db, "asha")
	createSubject(t, db, userID, "Mathematics", 1)
	createSubject(t, db, userID, "Physics", 1)

	saved, err := repo.Replace(ctx, userID, []models.ScheduleSlot{
		{DayOfWeek: "Tuesday", SubjectName: "Physics", StartTime: "09:00", EndTime: "10:00", SessionType: models.SessionMorning, Priority: 1},
		{DayOfWeek: "Monday", SubjectName: "Mathematics", StartTime: "14:00", EndTime: "15:00", SessionType: models.SessionAfternoon, Priority: 2},
		{DayOfWeek: "Monday", SubjectName: "Geography", StartTime: "08:00", EndTime: "09:00", SessionType: models.SessionMorning, Priority: 1},
		{DayOfWeek: "Monday", SubjectName: "", StartTime: "08:00", EndTime: "09:00", SessionType: models.SessionMorning, Priority: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	slots, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Monday", slots[0].DayOfWeek)
	assert.Equal(t, "Mathematics", slots[0].SubjectName)
	assert.Equal(t, "Tuesday", slots[1].DayOfWeek)

	// A second save replaces everything
	saved, err = repo.Replace(ctx, userID, []models.ScheduleSlot{
		{DayOfWeek: "Friday", SubjectName: "Physics", StartTime: "18:00", EndTime: "19:00", SessionType: models.SessionEvening, Priority: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	slots, err = repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Friday", slots[0].DayOfWeek)
}
