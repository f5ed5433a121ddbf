package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/security"
)

// CreateInput holds the payload to register an account. The password arrives
// in the clear and is hashed here.
type CreateInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        enums.UserRole
}

// ProfileUpdateInput holds optional profile mutation values.
type ProfileUpdateInput struct {
	DisplayName *string
	PhotoURL    *string
}

const minPasswordLen = 8

// Service owns identity records.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdateInput) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	SeedAdmin(ctx context.Context, seed config.AdminSeedConfig) error
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService constructs a user service instance.
func NewService(repo *Repository, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < minPasswordLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}
	role := input.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	row := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user")
	}
	return row, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return row, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return row, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdateInput) (*models.User, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		displayName := strings.TrimSpace(*input.DisplayName)
		if displayName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
		}
		row.DisplayName = displayName
	}
	if input.PhotoURL != nil {
		photoURL := strings.TrimSpace(*input.PhotoURL)
		if photoURL == "" {
			row.PhotoURL = nil
		} else {
			row.PhotoURL = &photoURL
		}
	}

	if _, err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating profile")
	}
	return row, nil
}

func (s *service) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.TouchLastLogin(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamping login")
	}
	return nil
}

// SeedAdmin creates the bootstrap admin account when configured and missing.
// It never rewrites an existing account.
func (s *service) SeedAdmin(ctx context.Context, seed config.AdminSeedConfig) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}

	if _, err := s.repo.FindByEmail(ctx, seed.Email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking admin seed")
	}

	_, err := s.Create(ctx, CreateInput{
		Email:       seed.Email,
		Password:    seed.Password,
		DisplayName: seed.DisplayName,
		Role:        enums.UserRoleAdmin,
	})
	if err != nil {
		return err
	}
	if s.logg != nil {
		s.logg.Info(ctx, "admin account seeded")
	}
	return nil
}
