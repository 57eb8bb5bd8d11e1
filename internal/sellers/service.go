package sellers

import (
	"context"
	"strings"

	"github.com/adrianfloca/marketforge-backend/internal/users"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// SellerInfo is the public store profile view. A missing seller yields an
// empty shell rather than an error; callers rely on that contract.
type SellerInfo struct {
	UserID           int64           `json:"userId"`
	Username         string          `json:"username"`
	StoreName        string          `json:"storeName"`
	StoreDescription string          `json:"storeDescription"`
	StoreAddress     string          `json:"storeAddress"`
	TrustScore       decimal.Decimal `json:"trustScore"`
	FollowersCount   int             `json:"followersCount"`
}

// AddSellerParams carries the inputs for seller onboarding.
type AddSellerParams struct {
	UserID           int64
	StoreName        string
	StoreDescription string
	StoreAddress     string
}

// UpdateSellerParams carries the mutable store profile fields.
type UpdateSellerParams struct {
	UserID           int64
	StoreName        string
	StoreDescription string
	StoreAddress     string
}

// Service defines seller profile operations.
type Service interface {
	AddSeller(ctx context.Context, params AddSellerParams) (*models.Seller, error)
	GetSellerInfo(ctx context.Context, userID int64) (*SellerInfo, error)
	UpdateSeller(ctx context.Context, params UpdateSellerParams) (*models.Seller, error)
	UpdateTrustScore(ctx context.Context, userID int64, score decimal.Decimal) error
}

// ServiceParams groups dependencies for the seller service.
type ServiceParams struct {
	SellerRepo Repository
	UserRepo   users.Repository
}

type service struct {
	sellerRepo Repository
	userRepo   users.Repository
}

// NewService builds a seller service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SellerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "seller repository required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	return &service{
		sellerRepo: params.SellerRepo,
		userRepo:   params.UserRepo,
	}, nil
}

func (s *service) AddSeller(ctx context.Context, params AddSellerParams) (*models.Seller, error) {
	if params.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if strings.TrimSpace(params.StoreName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	user, err := s.userRepo.FindByID(ctx, params.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if _, err := s.sellerRepo.FindByUserID(ctx, params.UserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "seller profile already exists")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check seller")
	}

	seller := &models.Seller{
		UserID:           params.UserID,
		StoreName:        strings.TrimSpace(params.StoreName),
		StoreDescription: params.StoreDescription,
		StoreAddress:     params.StoreAddress,
	}
	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "seller profile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller")
	}

	if user.Role == enums.UserRoleUnassigned {
		if err := s.userRepo.UpdateRole(ctx, params.UserID, enums.UserRoleSeller); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign seller role")
		}
	}
	return seller, nil
}

// GetSellerInfo never reports not-found; a missing profile comes back as an
// empty shell with the username filled in when the account exists.
func (s *service) GetSellerInfo(ctx context.Context, userID int64) (*SellerInfo, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}

	info := &SellerInfo{UserID: userID}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err == nil {
		info.Username = user.Username
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	seller, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return info, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}

	info.StoreName = seller.StoreName
	info.StoreDescription = seller.StoreDescription
	info.StoreAddress = seller.StoreAddress
	info.TrustScore = seller.TrustScore
	info.FollowersCount = seller.FollowersCount
	return info, nil
}

func (s *service) UpdateSeller(ctx context.Context, params UpdateSellerParams) (*models.Seller, error) {
	if params.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if strings.TrimSpace(params.StoreName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	seller, err := s.sellerRepo.FindByUserID(ctx, params.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "seller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}

	seller.StoreName = strings.TrimSpace(params.StoreName)
	seller.StoreDescription = params.StoreDescription
	seller.StoreAddress = params.StoreAddress
	if err := s.sellerRepo.Update(ctx, seller); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller")
	}
	return seller, nil
}

// UpdateTrustScore stores the score exactly as given; no rounding or clamping.
func (s *service) UpdateTrustScore(ctx context.Context, userID int64, score decimal.Decimal) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if err := s.sellerRepo.UpdateTrustScore(ctx, userID, score); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "seller not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trust score")
	}
	return nil
}
