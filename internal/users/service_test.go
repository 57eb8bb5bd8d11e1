package users

import (
	"context"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/config"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"github.com/adrianfloca/marketforge-backend/pkg/security"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn             func(ctx context.Context, user *models.User) error
	findByIDFn           func(ctx context.Context, id int64) (*models.User, error)
	findByUsernameFn     func(ctx context.Context, username string) (*models.User, error)
	findByEmailFn        func(ctx context.Context, email string) (*models.User, error)
	updateRoleFn         func(ctx context.Context, id int64, role enums.UserRole) error
	recordLoginFailureFn func(ctx context.Context, id int64) (int, error)
	recordLoginSuccessFn func(ctx context.Context, id int64, at time.Time) error
	setBanFn             func(ctx context.Context, id int64, banned bool, until *time.Time) error
	listByRoleFn         func(ctx context.Context, role enums.UserRole, limit int, cursor *pagination.Cursor) ([]models.User, *pagination.Cursor, error)
}

func (f *fakeRepository) Create(ctx context.Context, user *models.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.findByUsernameFn != nil {
		return f.findByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, user *models.User) error { return nil }

func (f *fakeRepository) UpdateRole(ctx context.Context, id int64, role enums.UserRole) error {
	if f.updateRoleFn != nil {
		return f.updateRoleFn(ctx, id, role)
	}
	return nil
}

func (f *fakeRepository) RecordLoginFailure(ctx context.Context, id int64) (int, error) {
	if f.recordLoginFailureFn != nil {
		return f.recordLoginFailureFn(ctx, id)
	}
	return 1, nil
}

func (f *fakeRepository) RecordLoginSuccess(ctx context.Context, id int64, at time.Time) error {
	if f.recordLoginSuccessFn != nil {
		return f.recordLoginSuccessFn(ctx, id, at)
	}
	return nil
}

func (f *fakeRepository) SetBan(ctx context.Context, id int64, banned bool, until *time.Time) error {
	if f.setBanFn != nil {
		return f.setBanFn(ctx, id, banned, until)
	}
	return nil
}

func (f *fakeRepository) ListByRole(ctx context.Context, role enums.UserRole, limit int, cursor *pagination.Cursor) ([]models.User, *pagination.Cursor, error) {
	if f.listByRoleFn != nil {
		return f.listByRoleFn(ctx, role, limit, cursor)
	}
	return nil, nil, nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error { return nil }

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo Repository, clock func() time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Password: testPasswordConfig(), Clock: clock})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

func TestRegisterAssignsUnassignedRole(t *testing.T) {
	var created *models.User
	repo := &fakeRepository{
		createFn: func(ctx context.Context, user *models.User) error {
			user.ID = 10
			created = user
			return nil
		},
	}
	svc := newTestService(t, repo, nil)

	user, err := svc.Register(context.Background(), RegisterParams{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "s3cret!",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != enums.UserRoleUnassigned {
		t.Fatalf("expected unassigned role, got %s", user.Role)
	}
	if created.PasswordHash == "" || created.PasswordHash == "s3cret!" {
		t.Fatal("expected password to be hashed")
	}
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	repo := &fakeRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.Register(context.Background(), RegisterParams{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "pw",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthenticateSuccessResetsFailures(t *testing.T) {
	now := time.Now()
	resetCalled := false
	repo := &fakeRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 5, Username: username, PasswordHash: hashFor(t, "correct"), FailedLogins: 3}, nil
		},
		recordLoginSuccessFn: func(ctx context.Context, id int64, at time.Time) error {
			resetCalled = true
			return nil
		},
	}
	svc := newTestService(t, repo, func() time.Time { return now })

	user, err := svc.Authenticate(context.Background(), "ana", "correct")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !resetCalled {
		t.Fatal("expected login success to be recorded")
	}
	if user.FailedLogins != 0 {
		t.Fatalf("expected reset counter, got %d", user.FailedLogins)
	}
}

func TestAuthenticateWrongPasswordLocksOut(t *testing.T) {
	now := time.Now()
	var banApplied *time.Time
	repo := &fakeRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 5, Username: username, PasswordHash: hashFor(t, "correct"), FailedLogins: 4}, nil
		},
		recordLoginFailureFn: func(ctx context.Context, id int64) (int, error) {
			return 5, nil
		},
		setBanFn: func(ctx context.Context, id int64, banned bool, until *time.Time) error {
			if banned {
				banApplied = until
			}
			return nil
		},
	}
	svc := newTestService(t, repo, func() time.Time { return now })

	_, err := svc.Authenticate(context.Background(), "ana", "wrong")
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if banApplied == nil {
		t.Fatal("expected lockout after fifth failure")
	}
	if !banApplied.Equal(now.Add(autoBanDuration)) {
		t.Fatalf("unexpected lockout expiry %s", banApplied)
	}
}

func TestAuthenticateBannedAccount(t *testing.T) {
	until := time.Now().Add(time.Hour)
	repo := &fakeRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 5, IsBanned: true, BannedUntil: &until, PasswordHash: hashFor(t, "pw")}, nil
		},
	}
	svc := newTestService(t, repo, nil)

	_, err := svc.Authenticate(context.Background(), "ana", "pw")
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthenticateExpiredBanIsLifted(t *testing.T) {
	now := time.Now()
	until := now.Add(-time.Minute)
	unbanned := false
	repo := &fakeRepository{
		findByUsernameFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 5, IsBanned: true, BannedUntil: &until, PasswordHash: hashFor(t, "pw")}, nil
		},
		setBanFn: func(ctx context.Context, id int64, banned bool, u *time.Time) error {
			if !banned {
				unbanned = true
			}
			return nil
		},
	}
	svc := newTestService(t, repo, func() time.Time { return now })

	user, err := svc.Authenticate(context.Background(), "ana", "pw")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !unbanned {
		t.Fatal("expected expired ban to be lifted")
	}
	if user.IsBanned {
		t.Fatal("expected returned user to be unbanned")
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)
	_, err := svc.Authenticate(context.Background(), "ghost", "pw")
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAssignRoleRejectsUnassigned(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)
	err := svc.AssignRole(context.Background(), 1, enums.UserRoleUnassigned)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListByRoleEncodesCursor(t *testing.T) {
	next := pagination.Cursor{CreatedAt: time.Now(), ID: 9}
	repo := &fakeRepository{
		listByRoleFn: func(ctx context.Context, role enums.UserRole, limit int, cursor *pagination.Cursor) ([]models.User, *pagination.Cursor, error) {
			return []models.User{{ID: 1}}, &next, nil
		},
	}
	svc := newTestService(t, repo, nil)

	page, err := svc.ListByRole(context.Background(), enums.UserRoleBuyer, 1, "")
	if err != nil {
		t.Fatalf("ListByRole: %v", err)
	}
	if page.Cursor == "" {
		t.Fatal("expected next cursor")
	}
	decoded, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if decoded.ID != next.ID {
		t.Fatalf("expected cursor id %d, got %d", next.ID, decoded.ID)
	}
}
