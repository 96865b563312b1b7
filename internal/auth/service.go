package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/studytrack/internal/database"
	"github.com/example/studytrack/internal/logger"
	"github.com/example/studytrack/pkg/models"
	"github.com/jmoiron/sqlx"
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
	Phone       string
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return models.Invalid("username", "is required")
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return models.Invalid("name", "is required")
	}
	if len(in.Password) < MinPasswordLength {
		return models.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}

// Service registers and authenticates users
type Service struct {
	db       *sqlx.DB
	users    *database.UserRepository
	profiles *database.ProfileRepository
	log      *logger.Logger
}

// NewService creates an auth service backed by db
func NewService(db *sqlx.DB, log *logger.Logger) *Service {
	return &Service{
		db:       db,
		users:    database.NewUserRepository(db),
		profiles: database.NewProfileRepository(db),
		log:      log,
	}
}

// Register creates the user and its default profile in one transaction and
// returns the new user id
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := in.validate(); err != nil {
		return 0, err
	}

	user := &models.User{
		Username:     in.Username,
		PasswordHash: HashPassword(in.Password),
		Name:         strings.TrimSpace(in.DisplayName),
		Email:        nullString(in.Email),
		Phone:        nullString(in.Phone),
	}

	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		taken, err := s.users.Exists(ctx, tx, user.Username)
		if err != nil {
			return err
		}
		if taken {
			return models.ErrDuplicateUsername
		}

		if err := s.users.Create(ctx, tx, user); err != nil {
			return err
		}

		profile := &models.Profile{
			UserID:           user.ID,
			Name:             user.Name,
			Email:            user.Email,
			Phone:            user.Phone,
			TargetStudyHours: models.DefaultStudyHours,
			WakeupTime:       models.DefaultWakeupTime,
			Bedtime:          models.DefaultBedtime,
		}
		return s.profiles.Create(ctx, tx, profile)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user.ID, nil
}

// Login checks the credentials and returns who logged in. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !VerifyPassword(user.PasswordHash, password) {
		s.log.Debug("login rejected", "username", user.Username)
		return nil, models.ErrInvalidCredentials
	}

	profileID, err := s.profiles.IDForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.Identity{
		UserID:    user.ID,
		ProfileID: profileID,
		Username:  user.Username,
		Name:      user.Name,
	}, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
