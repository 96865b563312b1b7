package session

import (
	"context"
	"time"

	"github.com/example/studytrack/pkg/models"
)

// Session is the logged-in state the presentation layer carries between
// requests
type Session struct {
	UserID       int64
	ProfileID    *int64
	Username     string
	DisplayName  string
	SelectedDate time.Time
}

// New starts a session for a successful login, selecting today's date
func New(identity *models.Identity, now time.Time) *Session {
	return &Session{
		UserID:       identity.UserID,
		ProfileID:    identity.ProfileID,
		Username:     identity.Username,
		DisplayName:  identity.Name,
		SelectedDate: now,
	}
}

// SelectDate changes the date that entry forms and daily reports use
func (s *Session) SelectDate(date time.Time) {
	s.SelectedDate = date
}

// Stage is how far through onboarding a user is
type Stage int

const (
	// StageProfile means the profile still has to be completed
	StageProfile Stage = iota
	// StageSetup means subjects or exercises are missing
	StageSetup
	// StageReady unlocks the dashboard and reports
	StageReady
)

func (s Stage) String() string {
	switch s {
	case StageProfile:
		return "profile"
	case StageSetup:
		return "setup"
	default:
		return "ready"
	}
}

// Gate answers the onboarding questions
type Gate interface {
	HasProfile(ctx context.Context, userID int64) (bool, error)
	SubjectCount(ctx context.Context, userID int64) (int, error)
	ExerciseCount(ctx context.Context, userID int64) (int, error)
}

// CurrentStage returns the first onboarding step the user still has to do
func CurrentStage(ctx context.Context, gate Gate, userID int64) (Stage, error) {
	hasProfile, err := gate.HasProfile(ctx, userID)
	if err != nil {
		return StageProfile, err
	}
	if !hasProfile {
		return StageProfile, nil
	}

	subjects, err := gate.SubjectCount(ctx, userID)
	if err != nil {
		return StageSetup, err
	}
	exercises, err := gate.ExerciseCount(ctx, userID)
	if err != nil {
		return StageSetup, err
	}
	if subjects == 0 || exercises == 0 {
		return StageSetup, nil
	}
	return StageReady, nil
}
