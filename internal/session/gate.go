package session

import (
	"context"

	"github.com/example/studytrack/internal/database"
	"github.com/jmoiron/sqlx"
)

// StoreGate answers Gate from the database
type StoreGate struct {
	profiles  *database.ProfileRepository
	subjects  *database.SubjectRepository
	exercises *database.ExerciseRepository
}

// NewStoreGate creates a gate over db
func NewStoreGate(db *sqlx.DB) *StoreGate {
	return &StoreGate{
		profiles:  database.NewProfileRepository(db),
		subjects:  database.NewSubjectRepository(db),
		exercises: database.NewExerciseRepository(db),
	}
}

func (g *StoreGate) HasProfile(ctx context.Context, userID int64) (bool, error) {
	return g.profiles.Exists(ctx, userID)
}

func (g *StoreGate) SubjectCount(ctx context.Context, userID int64) (int, error) {
	return g.subjects.Count(ctx, userID)
}

func (g *StoreGate) ExerciseCount(ctx context.Context, userID int64) (int, error) {
	return g.exercises.Count(ctx, userID)
}
