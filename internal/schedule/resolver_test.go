package schedule

import (
	"context"
	"testing"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*Resolver, int64) {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = database.EnsureSchema(ctx, db, logger.Nop())
	require.NoError(t, err)

	user := &models.User{Username: "asha", PasswordHash: "x", Name: "Asha"}
	require.NoError(t, database.NewUserRepository(db).Create(ctx, db, user))

	subjects := database.NewSubjectRepository(db)
	for _, name := range []string{"Mathematics", "Physics"} {
		require.NoError(t, subjects.Create(ctx, &models.Subject{UserID: user.ID, Name: name, Weight: 1, Difficulty: models.DifficultyMedium}))
	}
	return NewResolver(db, logger.Nop()), user.ID
}

func TestSaveOrdersBySessionPriority(t *testing.T) {
	r, userID := newTestResolver(t)
	ctx := context.Background()

	saved, err := r.Save(ctx, userID, []SlotInput{
		{Day: "Monday", SubjectName: "Physics", StartTime: "18:00", EndTime: "20:00", SessionLabel: models.SessionEvening},
		{Day: "Monday", SubjectName: "Mathematics", StartTime: "08:00", EndTime: "10:00", SessionLabel: models.SessionMorning},
		{Day: "Monday", SubjectName: "Biology", StartTime: "12:00", EndTime: "13:00", SessionLabel: models.SessionAfternoon},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	slots, err := r.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Mathematics", slots[0].SubjectName)
	assert.Equal(t, 1, slots[0].Priority)
	assert.Equal(t, "Physics", slots[1].SubjectName)
	assert.Equal(t, 3, slots[1].Priority)
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	r, userID := newTestResolver(t)

	tests := []struct {
		name  string
		input SlotInput
	}{
		{"bad day", SlotInput{Day: "Funday", SubjectName: "Physics", SessionLabel: models.SessionMorning}},
		{"bad session", SlotInput{Day: "Monday", SubjectName: "Physics", SessionLabel: "Night"}},
		{"bad clock", SlotInput{Day: "Monday", SubjectName: "Physics", StartTime: "8am", SessionLabel: models.SessionMorning}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Save(context.Background(), userID, []SlotInput{tt.input})
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestWeekGroupsByDay(t *testing.T) {
	r, userID := newTestResolver(t)
	ctx := context.Background()

	_, err := r.Save(ctx, userID, []SlotInput{
		{Day: "Sunday", SubjectName: "Physics", StartTime: "09:00", EndTime: "10:00", SessionLabel: models.SessionMorning},
		{Day: "Monday", SubjectName: "Mathematics", StartTime: "14:00", EndTime: "15:00", SessionLabel: models.SessionAfternoon},
		{Day: "Monday", SubjectName: "Physics", StartTime: "09:00", EndTime: "10:00", SessionLabel: models.SessionMorning},
	})
	require.NoError(t, err)

	week, err := r.Week(ctx, userID)
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Equal(t, "Monday", week[0].Day)
	require.Len(t, week[0].Slots, 2)
	assert.Equal(t, "Physics", week[0].Slots[0].SubjectName)
	assert.Empty(t, week[1].Slots)
	assert.Equal(t, "Sunday", week[6].Day)
	assert.Len(t, week[6].Slots, 1)
}
