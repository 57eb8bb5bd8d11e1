package wallets

import (
	"context"
	"errors"

	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// DebitWalletParams describes a wallet debit. OrderID, when set, ties the
// debit to an order and triggers a payment confirmation notification.
type DebitWalletParams struct {
	BuyerID int64
	Amount  decimal.Decimal
	OrderID *int64
}

// AddCardParams describes a new dummy card.
type AddCardParams struct {
	BuyerID  int64
	LastFour string
	Balance  decimal.Decimal
}

// Service defines dummy wallet and card operations. No real money moves.
type Service interface {
	CreateWallet(ctx context.Context, buyerID int64) (*models.DummyWallet, error)
	GetWallet(ctx context.Context, buyerID int64) (*models.DummyWallet, error)
	CreditWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) (*models.DummyWallet, error)
	DebitWallet(ctx context.Context, params DebitWalletParams) (*models.DummyWallet, error)
	AddCard(ctx context.Context, params AddCardParams) (*models.DummyCard, error)
	GetCard(ctx context.Context, id int64) (*models.DummyCard, error)
	ListCards(ctx context.Context, buyerID int64) ([]models.DummyCard, error)
	CreditCard(ctx context.Context, id int64, amount decimal.Decimal) (*models.DummyCard, error)
	DebitCard(ctx context.Context, id int64, amount decimal.Decimal) (*models.DummyCard, error)
	RemoveCard(ctx context.Context, id int64) error
}

// ServiceParams groups dependencies for the wallet service. Notifications is
// optional; without it debits simply skip the payment confirmation push.
type ServiceParams struct {
	Repo          Repository
	Notifications notifications.Service
}

type service struct {
	repo          Repository
	notifications notifications.Service
}

// NewService builds a wallet service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "wallet repository required")
	}
	return &service{repo: params.Repo, notifications: params.Notifications}, nil
}

func (s *service) CreateWallet(ctx context.Context, buyerID int64) (*models.DummyWallet, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}

	wallet := &models.DummyWallet{BuyerID: buyerID, Balance: decimal.Zero}
	if err := s.repo.CreateWallet(ctx, wallet); err != nil {
		if db.IsUniqueViolation(err, "") || pkgerrors.As(err).Code() == pkgerrors.CodeConflict {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "buyer already has a wallet")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wallet")
	}
	return wallet, nil
}

func (s *service) GetWallet(ctx context.Context, buyerID int64) (*models.DummyWallet, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}

	wallet, err := s.repo.FindWalletByBuyer(ctx, buyerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	return wallet, nil
}

func (s *service) CreditWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) (*models.DummyWallet, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	if err := s.repo.CreditWallet(ctx, buyerID, amount); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet")
	}
	return s.GetWallet(ctx, buyerID)
}

func (s *service) DebitWallet(ctx context.Context, params DebitWalletParams) (*models.DummyWallet, error) {
	if params.BuyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	if !params.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	if err := s.repo.DebitWallet(ctx, params.BuyerID, params.Amount); err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds), pkgerrors.As(err).Code() == pkgerrors.CodeConflict:
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "insufficient funds")
		case db.IsNotFound(err):
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "wallet not found")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit wallet")
		}
	}

	if s.notifications != nil && params.OrderID != nil {
		if _, err := s.notifications.Push(ctx, notifications.PushParams{
			RecipientID: params.BuyerID,
			Category:    enums.NotificationCategoryPaymentConfirm,
			OrderID:     params.OrderID,
		}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
		}
	}
	return s.GetWallet(ctx, params.BuyerID)
}

func (s *service) AddCard(ctx context.Context, params AddCardParams) (*models.DummyCard, error) {
	if params.BuyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	if !isLastFour(params.LastFour) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "last four must be exactly four digits")
	}
	if params.Balance.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "balance cannot be negative")
	}

	card := &models.DummyCard{
		BuyerID:  params.BuyerID,
		LastFour: params.LastFour,
		Balance:  params.Balance,
	}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create card")
	}
	return card, nil
}

func (s *service) GetCard(ctx context.Context, id int64) (*models.DummyCard, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id must be positive")
	}

	card, err := s.repo.FindCard(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load card")
	}
	return card, nil
}

func (s *service) ListCards(ctx context.Context, buyerID int64) ([]models.DummyCard, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	cards, err := s.repo.ListCards(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cards")
	}
	return cards, nil
}

func (s *service) CreditCard(ctx context.Context, id int64, amount decimal.Decimal) (*models.DummyCard, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id must be positive")
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	if err := s.repo.CreditCard(ctx, id, amount); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit card")
	}
	return s.GetCard(ctx, id)
}

func (s *service) DebitCard(ctx context.Context, id int64, amount decimal.Decimal) (*models.DummyCard, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id must be positive")
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	if err := s.repo.DebitCard(ctx, id, amount); err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds), pkgerrors.As(err).Code() == pkgerrors.CodeConflict:
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "insufficient funds")
		case db.IsNotFound(err):
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "card not found")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit card")
		}
	}
	return s.GetCard(ctx, id)
}

func (s *service) RemoveCard(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "card id must be positive")
	}

	removed, err := s.repo.DeleteCard(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete card")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
	}
	return nil
}

func isLastFour(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
