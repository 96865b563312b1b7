package database

import (
	"context"
	"testing"

	"github.com/example/studytrack/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertStudyReplacesExistingRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)
	userID := createUser(t, db, "asha")
	subjectID := createSubject(t, db, userID, "Mathematics", 1)

	first := &models.StudyEntry{UserID: userID, SubjectID: subjectID, Date: "2024-03-04", LectureHoursActual: 2, QuestionHoursActual: 1.5, QuestionsSolved: 30}
	require.NoError(t, repo.UpsertStudy(ctx, first))

	second := &models.StudyEntry{UserID: userID, SubjectID: subjectID, Date: "2024-03-04", LectureHoursActual: 0.5}
	require.NoError(t, repo.UpsertStudy(ctx, second))

	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM daily_progress"))

	got, err := repo.GetStudy(ctx, userID, subjectID, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.LectureHoursActual)
	assert.Equal(t, 0.0, got.QuestionHoursActual)
	assert.Equal(t, 0, got.QuestionsSolved)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpsertDailyLogReplacesExistingRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)
	userID := createUser(t, db, "asha")

	require.NoError(t, repo.UpsertDailyLog(ctx, &models.DailyLog{UserID: userID, Date: "2024-03-04", ExerciseDone: true, ExerciseMinutes: 40, Mood: "😄 Excellent", Notes: "great"}))
	require.NoError(t, repo.UpsertDailyLog(ctx, &models.DailyLog{UserID: userID, Date: "2024-03-04", Mood: "😐 Neutral"}))

	got, err := repo.GetDailyLog(ctx, userID, "2024-03-04")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.ExerciseDone)
	assert.Equal(t, 0, got.ExerciseMinutes)
	assert.Equal(t, "😐 Neutral", got.Mood)
	assert.Equal(t, "", got.Notes)
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM daily_logs"))
}

func TestGetDailyLogMissing(t *testing.T) {
	db := newTestDB(t)
	userID := createUser(t, db, "asha")

	got, err := NewProgressRepository(db).GetDailyLog(context.Background(), userID, "2024-03-04")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)
	userID := createUser(t, db, "asha")
	mathID := createSubject(t, db, userID, "Mathematics", 2)
	physicsID := createSubject(t, db, userID, "Physics", 1)

	entries := []models.StudyEntry{
		{SubjectID: mathID, LectureHoursActual: 2, QuestionHoursActual: 1, QuestionsSolved: 20},
		{SubjectID: physicsID, LectureHoursActual: 1},
	}
	log := models.DailyLog{ExerciseDone: true, ExerciseMinutes: 30, Mood: models.DefaultMood}
	require.NoError(t, repo.SaveDay(ctx, userID, "2024-03-04", entries, log))

	got, err := repo.ListStudyByDate(ctx, userID, "2024-03-04")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	has, err := repo.HasEntry(ctx, userID, "2024-03-04")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasEntry(ctx, userID, "2024-03-05")
	require.NoError(t, err)
	assert.False(t, has)

	dates, err := repo.RecentDates(ctx, userID, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-04"}, dates)
}

func TestSaveDayIsAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProgressRepository(db)
	userID := createUser(t, db, "asha")
	mathID := createSubject(t, db, userID, "Mathematics", 1)

	entries := []models.StudyEntry{
		{SubjectID: mathID, LectureHoursActual: 2},
		{SubjectID: mathID, LectureHoursActual: -1},
	}
	err := repo.SaveDay(ctx, userID, "2024-03-04", entries, models.DailyLog{Mood: models.DefaultMood})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM daily_progress"))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM daily_logs"))
}
