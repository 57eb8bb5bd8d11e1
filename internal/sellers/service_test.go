package sellers

import (
	"context"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn           func(ctx context.Context, seller *models.Seller) error
	findByUserIDFn     func(ctx context.Context, userID int64) (*models.Seller, error)
	updateFn           func(ctx context.Context, seller *models.Seller) error
	updateTrustScoreFn func(ctx context.Context, userID int64, score decimal.Decimal) error
}

func (f *fakeRepository) Create(ctx context.Context, seller *models.Seller) error {
	if f.createFn != nil {
		return f.createFn(ctx, seller)
	}
	return nil
}

func (f *fakeRepository) FindByUserID(ctx context.Context, userID int64) (*models.Seller, error) {
	if f.findByUserIDFn != nil {
		return f.findByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, seller *models.Seller) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, seller)
	}
	return nil
}

func (f *fakeRepository) UpdateTrustScore(ctx context.Context, userID int64, score decimal.Decimal) error {
	if f.updateTrustScoreFn != nil {
		return f.updateTrustScoreFn(ctx, userID, score)
	}
	return nil
}

func (f *fakeRepository) AdjustFollowers(ctx context.Context, userID int64, delta int) error {
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, userID int64) error { return nil }

type fakeUserRepository struct {
	findByIDFn   func(ctx context.Context, id int64) (*models.User, error)
	updateRoleFn func(ctx context.Context, id int64, role enums.UserRole) error
}

func (f *fakeUserRepository) Create(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) Update(ctx context.Context, user *models.User) error { return nil }

func (f *fakeUserRepository) UpdateRole(ctx context.Context, id int64, role enums.UserRole) error {
	if f.updateRoleFn != nil {
		return f.updateRoleFn(ctx, id, role)
	}
	return nil
}

func (f *fakeUserRepository) RecordLoginFailure(ctx context.Context, id int64) (int, error) {
	return 0, nil
}

func (f *fakeUserRepository) RecordLoginSuccess(ctx context.Context, id int64, at time.Time) error {
	return nil
}

func (f *fakeUserRepository) SetBan(ctx context.Context, id int64, banned bool, until *time.Time) error {
	return nil
}

func (f *fakeUserRepository) ListByRole(ctx context.Context, role enums.UserRole, limit int, cursor *pagination.Cursor) ([]models.User, *pagination.Cursor, error) {
	return nil, nil, nil
}

func (f *fakeUserRepository) Delete(ctx context.Context, id int64) error { return nil }

func newTestService(t *testing.T, sellerRepo Repository, userRepo *fakeUserRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{SellerRepo: sellerRepo, UserRepo: userRepo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddSellerAssignsRole(t *testing.T) {
	roleAssigned := enums.UserRole("")
	userRepo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Username: "ana", Role: enums.UserRoleUnassigned}, nil
		},
		updateRoleFn: func(ctx context.Context, id int64, role enums.UserRole) error {
			roleAssigned = role
			return nil
		},
	}
	svc := newTestService(t, &fakeRepository{}, userRepo)

	seller, err := svc.AddSeller(context.Background(), AddSellerParams{UserID: 3, StoreName: "Forge Goods"})
	if err != nil {
		t.Fatalf("AddSeller: %v", err)
	}
	if seller.StoreName != "Forge Goods" {
		t.Fatalf("unexpected store name %q", seller.StoreName)
	}
	if roleAssigned != enums.UserRoleSeller {
		t.Fatalf("expected seller role assignment, got %q", roleAssigned)
	}
}

func TestAddSellerDuplicateProfile(t *testing.T) {
	userRepo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Role: enums.UserRoleSeller}, nil
		},
	}
	sellerRepo := &fakeRepository{
		findByUserIDFn: func(ctx context.Context, userID int64) (*models.Seller, error) {
			return &models.Seller{UserID: userID}, nil
		},
	}
	svc := newTestService(t, sellerRepo, userRepo)

	_, err := svc.AddSeller(context.Background(), AddSellerParams{UserID: 3, StoreName: "Dup"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetSellerInfoRoundTrip(t *testing.T) {
	userRepo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Username: "ana"}, nil
		},
	}
	sellerRepo := &fakeRepository{
		findByUserIDFn: func(ctx context.Context, userID int64) (*models.Seller, error) {
			return &models.Seller{
				UserID:         userID,
				StoreName:      "Forge Goods",
				TrustScore:     decimal.RequireFromString("4.37"),
				FollowersCount: 12,
			}, nil
		},
	}
	svc := newTestService(t, sellerRepo, userRepo)

	info, err := svc.GetSellerInfo(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetSellerInfo: %v", err)
	}
	if info.Username != "ana" || info.StoreName != "Forge Goods" {
		t.Fatalf("unexpected info %+v", info)
	}
	if !info.TrustScore.Equal(decimal.RequireFromString("4.37")) {
		t.Fatalf("trust score must round-trip exactly, got %s", info.TrustScore)
	}
}

func TestGetSellerInfoMissingSellerReturnsShell(t *testing.T) {
	userRepo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Username: "ana"}, nil
		},
	}
	svc := newTestService(t, &fakeRepository{}, userRepo)

	info, err := svc.GetSellerInfo(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected shell, got error %v", err)
	}
	if info.StoreName != "" {
		t.Fatalf("expected empty store name, got %q", info.StoreName)
	}
	if info.Username != "ana" {
		t.Fatalf("expected username on shell, got %q", info.Username)
	}
}

func TestUpdateTrustScoreExact(t *testing.T) {
	var stored decimal.Decimal
	sellerRepo := &fakeRepository{
		updateTrustScoreFn: func(ctx context.Context, userID int64, score decimal.Decimal) error {
			stored = score
			return nil
		},
	}
	svc := newTestService(t, sellerRepo, &fakeUserRepository{})

	score := decimal.RequireFromString("3.1459")
	if err := svc.UpdateTrustScore(context.Background(), 3, score); err != nil {
		t.Fatalf("UpdateTrustScore: %v", err)
	}
	if !stored.Equal(score) {
		t.Fatalf("expected exact score %s, got %s", score, stored)
	}
}

func TestUpdateTrustScoreMissingSeller(t *testing.T) {
	sellerRepo := &fakeRepository{
		updateTrustScoreFn: func(ctx context.Context, userID int64, score decimal.Decimal) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, sellerRepo, &fakeUserRepository{})

	err := svc.UpdateTrustScore(context.Background(), 3, decimal.NewFromInt(4))
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
