package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	user "github.com/rekhigroup/livplus-backend/internal/users"
	pkgauth "github.com/rekhigroup/livplus-backend/pkg/auth"
	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db/models"
	"github.com/rekhigroup/livplus-backend/pkg/enums"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/security"
)

type userStore interface {
	Create(ctx context.Context, input user.CreateInput) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

type sessionManager interface {
	Create(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

// Credentials is the login payload.
type Credentials struct {
	Email    string
	Password string
}

// RegisterInput is the signup payload. Self-registration always yields the
// user role; admins come from the seed or another admin's action.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

// Session is a minted login: the user plus their bearer token.
type Session struct {
	User        *models.User
	AccessToken string
	ExpiresAt   time.Time
}

// Service handles register, login and logout.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Logout(ctx context.Context, accessID string) error
}

type service struct {
	users    userStore
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs an auth service instance.
func NewService(users userStore, sessions sessionManager, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{
		users:    users,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	row, err := s.users.Create(ctx, user.CreateInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
		Role:        enums.UserRoleUser,
	})
	if err != nil {
		return nil, err
	}
	return s.mintSession(ctx, row)
}

func (s *service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	row, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			// same answer for unknown email and wrong password
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(creds.Password, row.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	if err := s.users.TouchLastLogin(ctx, row.ID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithUserID(ctx, row.ID.String()), "login stamp failed")
	}
	return s.mintSession(ctx, row)
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) mintSession(ctx context.Context, row *models.User) (*Session, error) {
	now := s.now().UTC()
	jti := uuid.NewString()

	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: row.ID,
		Role:   row.Role,
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	if err := s.sessions.Create(ctx, jti); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, row.ID.String()), "session created")
	}
	return &Session{
		User:        row,
		AccessToken: token,
		ExpiresAt:   now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
	}, nil
}
