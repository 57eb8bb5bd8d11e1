package contracts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/internal/orders"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
)

// CreateContractParams carries the inputs for opening a new chain.
type CreateContractParams struct {
	OrderID              int64
	Content              string
	PredefinedContractID *int64
	StartDate            time.Time
	EndDate              time.Time
}

// RenewContractParams carries the replacement validity window.
type RenewContractParams struct {
	ContractID int64
	StartDate  time.Time
	EndDate    time.Time
}

// Service defines the contract lifecycle operations.
type Service interface {
	CreateContract(ctx context.Context, params CreateContractParams) (*models.Contract, error)
	GetContract(ctx context.Context, id int64) (*models.Contract, error)
	RenewContract(ctx context.Context, params RenewContractParams) (*models.Contract, error)
	ExpireContract(ctx context.Context, id int64) error
	ContractChain(ctx context.Context, id int64) ([]models.Contract, error)
	ListByOrder(ctx context.Context, orderID int64) ([]models.Contract, error)
	GetPredefined(ctx context.Context, id int64) (*models.PredefinedContract, error)
	ListPredefined(ctx context.Context) ([]models.PredefinedContract, error)
	AttachPDF(ctx context.Context, contractID int64, file []byte) (*models.ContractPDF, error)
	GetPDF(ctx context.Context, id int64) (*models.ContractPDF, error)
}

// ServiceParams groups dependencies for the contract service. OrderRepo and
// Notifications are optional as a pair; when both are set, renewals and
// expirations notify the buyer behind the contract's order.
type ServiceParams struct {
	Repo          Repository
	OrderRepo     orders.Repository
	Notifications notifications.Service
}

type service struct {
	repo          Repository
	orderRepo     orders.Repository
	notifications notifications.Service
}

// NewService builds a contract service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "contract repository required")
	}
	if (params.OrderRepo == nil) != (params.Notifications == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order repository and notifications must be configured together")
	}
	return &service{
		repo:          params.Repo,
		orderRepo:     params.OrderRepo,
		notifications: params.Notifications,
	}, nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	if start.After(end) {
		return pkgerrors.New(pkgerrors.CodeValidation, "contract start must not be after its end")
	}
	return nil
}

func (s *service) CreateContract(ctx context.Context, params CreateContractParams) (*models.Contract, error) {
	if params.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	if err := validateWindow(params.StartDate, params.EndDate); err != nil {
		return nil, err
	}

	content := params.Content
	if params.PredefinedContractID != nil {
		template, err := s.repo.FindPredefined(ctx, *params.PredefinedContractID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "predefined contract not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load predefined contract")
		}
		if strings.TrimSpace(content) == "" {
			content = template.Content
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract content is required")
	}

	contract := &models.Contract{
		OrderID:              params.OrderID,
		Status:               enums.ContractStatusActive,
		Content:              content,
		PredefinedContractID: params.PredefinedContractID,
		StartDate:            params.StartDate,
		EndDate:              params.EndDate,
	}
	if err := s.repo.Create(ctx, contract); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contract")
	}
	return contract, nil
}

func (s *service) GetContract(ctx context.Context, id int64) (*models.Contract, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id must be positive")
	}
	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	return contract, nil
}

// RenewContract appends a fresh ACTIVE version to the chain. Only the newest
// link may renew; RENEWED and EXPIRED versions are final.
func (s *service) RenewContract(ctx context.Context, params RenewContractParams) (*models.Contract, error) {
	if params.ContractID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id must be positive")
	}
	if err := validateWindow(params.StartDate, params.EndDate); err != nil {
		return nil, err
	}

	predecessor, err := s.repo.FindByID(ctx, params.ContractID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	if !predecessor.Status.CanTransitionTo(enums.ContractStatusRenewed) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only the active version of a chain can renew")
	}

	predecessorID := predecessor.ID
	successor := &models.Contract{
		OrderID:               predecessor.OrderID,
		Status:                enums.ContractStatusActive,
		Content:               predecessor.Content,
		RenewalCount:          predecessor.RenewalCount + 1,
		PredefinedContractID:  predecessor.PredefinedContractID,
		RenewedFromContractID: &predecessorID,
		StartDate:             params.StartDate,
		EndDate:               params.EndDate,
	}
	if err := s.repo.Renew(ctx, predecessorID, successor); err != nil {
		switch {
		case errors.Is(err, ErrNotActive), pkgerrors.As(err).Code() == pkgerrors.CodeStateConflict:
			return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "contract already renewed or expired")
		case db.IsNotFound(err):
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "renew contract")
		}
	}

	if err := s.notifyBuyer(ctx, successor.OrderID, successor.ID, enums.NotificationCategoryContractRenewal, &successor.EndDate); err != nil {
		return nil, err
	}
	return successor, nil
}

func (s *service) ExpireContract(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "contract id must be positive")
	}

	contract, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contract")
	}
	if !contract.Status.CanTransitionTo(enums.ContractStatusExpired) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "contract is not active")
	}

	if err := s.repo.UpdateStatus(ctx, id, enums.ContractStatusActive, enums.ContractStatusExpired); err != nil {
		switch {
		case errors.Is(err, ErrNotActive), pkgerrors.As(err).Code() == pkgerrors.CodeStateConflict:
			return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "contract is not active")
		case db.IsNotFound(err):
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire contract")
		}
	}

	return s.notifyBuyer(ctx, contract.OrderID, contract.ID, enums.NotificationCategoryContractExpiration, nil)
}

func (s *service) notifyBuyer(ctx context.Context, orderID, contractID int64, category enums.NotificationCategory, expiration *time.Time) error {
	if s.notifications == nil {
		return nil
	}
	order, err := s.orderRepo.FindOrder(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for notification")
	}
	if _, err := s.notifications.Push(ctx, notifications.PushParams{
		RecipientID:    order.BuyerID,
		Category:       category,
		ContractID:     &contractID,
		ExpirationDate: expiration,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify buyer")
	}
	return nil
}

func (s *service) ContractChain(ctx context.Context, id int64) ([]models.Contract, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id must be positive")
	}
	chain, err := s.repo.Chain(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "walk contract chain")
	}
	return chain, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID int64) ([]models.Contract, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	contractRows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contracts")
	}
	return contractRows, nil
}

func (s *service) GetPredefined(ctx context.Context, id int64) (*models.PredefinedContract, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "predefined contract id must be positive")
	}
	template, err := s.repo.FindPredefined(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "predefined contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load predefined contract")
	}
	return template, nil
}

func (s *service) ListPredefined(ctx context.Context) ([]models.PredefinedContract, error) {
	templates, err := s.repo.ListPredefined(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list predefined contracts")
	}
	return templates, nil
}

func (s *service) AttachPDF(ctx context.Context, contractID int64, file []byte) (*models.ContractPDF, error) {
	if contractID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contract id must be positive")
	}
	if len(file) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pdf file is required")
	}

	pdf := &models.ContractPDF{ContractID: contractID, File: file}
	if err := s.repo.AttachPDF(ctx, pdf); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach pdf")
	}
	return pdf, nil
}

func (s *service) GetPDF(ctx context.Context, id int64) (*models.ContractPDF, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pdf id must be positive")
	}
	pdf, err := s.repo.FindPDF(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "pdf not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pdf")
	}
	return pdf, nil
}
