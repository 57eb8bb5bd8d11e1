package users

import (
	"context"
	"strings"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"github.com/adrianfloca/marketforge-backend/pkg/security"
)

const (
	maxFailedLogins = 5
	autoBanDuration = 15 * time.Minute
)

// RegisterParams carries the inputs for account creation.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Phone    *string
}

// UserPage is a cursor-paginated slice of users.
type UserPage struct {
	Items  []models.User `json:"items"`
	Cursor string        `json:"cursor"`
}

// Service defines account lifecycle operations.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	AssignRole(ctx context.Context, id int64, role enums.UserRole) error
	Ban(ctx context.Context, id int64, until *time.Time) error
	Unban(ctx context.Context, id int64) error
	ListByRole(ctx context.Context, role enums.UserRole, limit int, cursor string) (*UserPage, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo     Repository
	Password config.PasswordConfig
	Clock    func() time.Time
}

type service struct {
	repo     Repository
	password config.PasswordConfig
	now      func() time.Time
}

// NewService builds a user service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	now := params.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		password: params.Password,
		now:      now,
	}, nil
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.TrimSpace(params.Email)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if params.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	hash, err := security.HashPassword(params.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Phone:        params.Phone,
		Role:         enums.UserRoleUnassigned,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username or email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	now := s.now()
	if user.IsBanned {
		if user.BannedUntil == nil || now.Before(*user.BannedUntil) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is banned")
		}
		// Temporary ban elapsed.
		if err := s.repo.SetBan(ctx, user.ID, false, nil); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lift expired ban")
		}
		user.IsBanned = false
		user.BannedUntil = nil
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		count, failErr := s.repo.RecordLoginFailure(ctx, user.ID)
		if failErr != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, failErr, "record login failure")
		}
		if count >= maxFailedLogins {
			until := now.Add(autoBanDuration)
			if banErr := s.repo.SetBan(ctx, user.ID, true, &until); banErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, banErr, "apply lockout")
			}
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.repo.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login success")
	}
	user.FailedLogins = 0
	user.LastLoginAt = &now
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) AssignRole(ctx context.Context, id int64, role enums.UserRole) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if !role.IsValid() || role == enums.UserRoleUnassigned {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	return nil
}

func (s *service) Ban(ctx context.Context, id int64, until *time.Time) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if until != nil && until.Before(s.now()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "ban expiry must be in the future")
	}
	if err := s.repo.SetBan(ctx, id, true, until); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ban user")
	}
	return nil
}

func (s *service) Unban(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if err := s.repo.SetBan(ctx, id, false, nil); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unban user")
	}
	return nil
}

func (s *service) ListByRole(ctx context.Context, role enums.UserRole, limit int, cursor string) (*UserPage, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	var decoded *pagination.Cursor
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		decoded = parsed
	}

	rows, next, err := s.repo.ListByRole(ctx, role, limit, decoded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return &UserPage{Items: rows, Cursor: nextCursor}, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}
