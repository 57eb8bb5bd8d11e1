package buyers

import (
	"context"
	"strings"

	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/internal/sellers"
	"github.com/adrianfloca/marketforge-backend/internal/users"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"go.uber.org/multierr"
)

// CreateBuyerParams carries the inputs for buyer onboarding.
type CreateBuyerParams struct {
	UserID          int64
	FirstName       string
	LastName        string
	ShippingAddress models.Address
	BillingAddress  models.Address
	UseSameAddress  bool
}

// UpdateBuyerParams carries the mutable buyer profile fields.
type UpdateBuyerParams struct {
	UserID          int64
	FirstName       string
	LastName        string
	ShippingAddress models.Address
	BillingAddress  models.Address
	UseSameAddress  bool
}

// Profile is the composite buyer view assembled from several repositories.
// Loads are sequential with no rollback; partial failures surface combined.
type Profile struct {
	User     *models.User          `json:"user"`
	Buyer    *models.Buyer         `json:"buyer"`
	Linkages []models.BuyerLinkage `json:"linkages"`
}

// Service defines buyer profile, linkage and following operations.
type Service interface {
	CreateBuyer(ctx context.Context, params CreateBuyerParams) (*models.Buyer, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateBuyer(ctx context.Context, params UpdateBuyerParams) (*models.Buyer, error)
	FindBuyersWithShippingAddress(ctx context.Context, address models.Address) ([]models.Buyer, error)

	RequestLinkage(ctx context.Context, requestingBuyerID, receivingBuyerID int64) (*models.BuyerLinkage, error)
	RespondLinkage(ctx context.Context, receivingBuyerID, linkageID int64, accept bool) error
	ListLinkages(ctx context.Context, buyerID int64) ([]models.BuyerLinkage, error)

	FollowSeller(ctx context.Context, buyerID, sellerID int64) error
	UnfollowSeller(ctx context.Context, buyerID, sellerID int64) error
	ListFollowedSellers(ctx context.Context, buyerID int64) ([]models.Seller, error)
}

// ServiceParams groups dependencies for the buyer service.
type ServiceParams struct {
	BuyerRepo     Repository
	UserRepo      users.Repository
	SellerRepo    sellers.Repository
	Notifications notifications.Service
}

type service struct {
	buyerRepo     Repository
	userRepo      users.Repository
	sellerRepo    sellers.Repository
	notifications notifications.Service
}

// NewService builds a buyer service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.BuyerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "buyer repository required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	if params.SellerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "seller repository required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	return &service{
		buyerRepo:     params.BuyerRepo,
		userRepo:      params.UserRepo,
		sellerRepo:    params.SellerRepo,
		notifications: params.Notifications,
	}, nil
}

func (s *service) CreateBuyer(ctx context.Context, params CreateBuyerParams) (*models.Buyer, error) {
	if params.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if strings.TrimSpace(params.FirstName) == "" || strings.TrimSpace(params.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	user, err := s.userRepo.FindByID(ctx, params.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if _, err := s.buyerRepo.FindByUserID(ctx, params.UserID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "buyer profile already exists")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check buyer")
	}

	billing := params.BillingAddress
	if params.UseSameAddress {
		billing = params.ShippingAddress
	}

	buyer := &models.Buyer{
		UserID:          params.UserID,
		FirstName:       strings.TrimSpace(params.FirstName),
		LastName:        strings.TrimSpace(params.LastName),
		ShippingAddress: params.ShippingAddress,
		BillingAddress:  billing,
		UseSameAddress:  params.UseSameAddress,
	}
	if err := s.buyerRepo.Create(ctx, buyer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "buyer profile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create buyer")
	}

	if user.Role == enums.UserRoleUnassigned {
		if err := s.userRepo.UpdateRole(ctx, params.UserID, enums.UserRoleBuyer); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign buyer role")
		}
	}
	return buyer, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}

	profile := &Profile{}
	var loadErr error

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		loadErr = multierr.Append(loadErr, err)
	}
	profile.User = user

	buyer, err := s.buyerRepo.FindByUserID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "buyer profile not found")
		}
		loadErr = multierr.Append(loadErr, err)
	}
	profile.Buyer = buyer

	linkages, err := s.buyerRepo.ListLinkages(ctx, userID)
	if err != nil {
		loadErr = multierr.Append(loadErr, err)
	}
	profile.Linkages = linkages

	if loadErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, loadErr, "load buyer profile")
	}
	return profile, nil
}

func (s *service) UpdateBuyer(ctx context.Context, params UpdateBuyerParams) (*models.Buyer, error) {
	if params.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id must be positive")
	}
	if strings.TrimSpace(params.FirstName) == "" || strings.TrimSpace(params.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	buyer, err := s.buyerRepo.FindByUserID(ctx, params.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "buyer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}

	buyer.FirstName = strings.TrimSpace(params.FirstName)
	buyer.LastName = strings.TrimSpace(params.LastName)
	buyer.ShippingAddress = params.ShippingAddress
	buyer.BillingAddress = params.BillingAddress
	if params.UseSameAddress {
		buyer.BillingAddress = params.ShippingAddress
	}
	buyer.UseSameAddress = params.UseSameAddress

	if err := s.buyerRepo.Update(ctx, buyer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update buyer")
	}
	return buyer, nil
}

func (s *service) FindBuyersWithShippingAddress(ctx context.Context, address models.Address) ([]models.Buyer, error) {
	if address.StreetLine == "" && address.City == "" && address.Country == "" && address.PostalCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one address field is required")
	}
	buyers, err := s.buyerRepo.FindBuyersWithShippingAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search buyers")
	}
	return buyers, nil
}

func (s *service) RequestLinkage(ctx context.Context, requestingBuyerID, receivingBuyerID int64) (*models.BuyerLinkage, error) {
	if requestingBuyerID <= 0 || receivingBuyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer ids must be positive")
	}
	if requestingBuyerID == receivingBuyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot link a buyer to itself")
	}

	if _, err := s.buyerRepo.FindByUserID(ctx, receivingBuyerID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "receiving buyer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receiving buyer")
	}

	if existing, err := s.buyerRepo.FindLinkageBetween(ctx, requestingBuyerID, receivingBuyerID); err == nil {
		if existing.Status == enums.LinkageStatusRejected {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "linkage was previously rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "linkage already exists")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check linkage")
	}

	linkage := &models.BuyerLinkage{
		RequestingBuyerID: requestingBuyerID,
		ReceivingBuyerID:  receivingBuyerID,
		Status:            enums.LinkageStatusPending,
	}
	if err := s.buyerRepo.CreateLinkage(ctx, linkage); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "linkage already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create linkage")
	}
	return linkage, nil
}

// RespondLinkage lets the receiving buyer accept or reject a pending request.
func (s *service) RespondLinkage(ctx context.Context, receivingBuyerID, linkageID int64, accept bool) error {
	if receivingBuyerID <= 0 || linkageID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ids must be positive")
	}

	linkage, err := s.buyerRepo.FindLinkage(ctx, linkageID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "linkage not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linkage")
	}
	if linkage.ReceivingBuyerID != receivingBuyerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the receiving buyer can respond")
	}

	target := enums.LinkageStatusAccepted
	if !accept {
		target = enums.LinkageStatusRejected
	}
	if !linkage.Status.CanTransitionTo(target) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "linkage already resolved")
	}

	if err := s.buyerRepo.UpdateLinkageStatus(ctx, linkageID, target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update linkage")
	}
	return nil
}

func (s *service) ListLinkages(ctx context.Context, buyerID int64) ([]models.BuyerLinkage, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	linkages, err := s.buyerRepo.ListLinkages(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list linkages")
	}
	return linkages, nil
}

// FollowSeller is idempotent; the followers count and the notification fire
// only when a new edge is written.
func (s *service) FollowSeller(ctx context.Context, buyerID, sellerID int64) error {
	if buyerID <= 0 || sellerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ids must be positive")
	}

	if _, err := s.sellerRepo.FindByUserID(ctx, sellerID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "seller not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller")
	}

	created, err := s.buyerRepo.Follow(ctx, buyerID, sellerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "follow seller")
	}
	if !created {
		return nil
	}

	if err := s.sellerRepo.AdjustFollowers(ctx, sellerID, 1); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump followers")
	}
	if _, err := s.notifications.Push(ctx, notifications.PushParams{
		RecipientID: sellerID,
		Category:    enums.NotificationCategoryNewFollower,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify seller")
	}
	return nil
}

func (s *service) UnfollowSeller(ctx context.Context, buyerID, sellerID int64) error {
	if buyerID <= 0 || sellerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "ids must be positive")
	}

	removed, err := s.buyerRepo.Unfollow(ctx, buyerID, sellerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unfollow seller")
	}
	if !removed {
		return nil
	}
	if err := s.sellerRepo.AdjustFollowers(ctx, sellerID, -1); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop follower count")
	}
	return nil
}

func (s *service) ListFollowedSellers(ctx context.Context, buyerID int64) ([]models.Seller, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	sellerRows, err := s.buyerRepo.ListFollowedSellers(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followed sellers")
	}
	return sellerRows, nil
}
