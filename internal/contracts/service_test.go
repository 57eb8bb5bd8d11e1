package contracts

import (
	"context"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeRepository struct {
	createFn         func(ctx context.Context, contract *models.Contract) error
	findByIDFn       func(ctx context.Context, id int64) (*models.Contract, error)
	renewFn          func(ctx context.Context, predecessorID int64, successor *models.Contract) error
	updateStatusFn   func(ctx context.Context, id int64, from, to enums.ContractStatus) error
	chainFn          func(ctx context.Context, id int64) ([]models.Contract, error)
	findPredefinedFn func(ctx context.Context, id int64) (*models.PredefinedContract, error)
	attachPDFFn      func(ctx context.Context, pdf *models.ContractPDF) error
}

func (f *fakeRepository) Create(ctx context.Context, contract *models.Contract) error {
	if f.createFn != nil {
		return f.createFn(ctx, contract)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.Contract, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Renew(ctx context.Context, predecessorID int64, successor *models.Contract) error {
	if f.renewFn != nil {
		return f.renewFn(ctx, predecessorID, successor)
	}
	return nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id int64, from, to enums.ContractStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, from, to)
	}
	return nil
}

func (f *fakeRepository) Chain(ctx context.Context, id int64) ([]models.Contract, error) {
	if f.chainFn != nil {
		return f.chainFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.Contract, error) {
	return nil, nil
}

func (f *fakeRepository) FindPredefined(ctx context.Context, id int64) (*models.PredefinedContract, error) {
	if f.findPredefinedFn != nil {
		return f.findPredefinedFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListPredefined(ctx context.Context) ([]models.PredefinedContract, error) {
	return nil, nil
}

func (f *fakeRepository) AttachPDF(ctx context.Context, pdf *models.ContractPDF) error {
	if f.attachPDFFn != nil {
		return f.attachPDFFn(ctx, pdf)
	}
	return nil
}

func (f *fakeRepository) FindPDF(ctx context.Context, id int64) (*models.ContractPDF, error) {
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

var (
	windowStart = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	windowEnd   = windowStart.AddDate(1, 0, 0)
)

func TestCreateContractUsesTemplateContent(t *testing.T) {
	templateID := int64(5)
	var created *models.Contract
	repo := &fakeRepository{
		findPredefinedFn: func(ctx context.Context, id int64) (*models.PredefinedContract, error) {
			return &models.PredefinedContract{ID: id, Content: "standard terms"}, nil
		},
		createFn: func(ctx context.Context, contract *models.Contract) error {
			contract.ID = 1
			created = contract
			return nil
		},
	}
	svc := newTestService(t, repo)

	contract, err := svc.CreateContract(context.Background(), CreateContractParams{
		OrderID:              9,
		PredefinedContractID: &templateID,
		StartDate:            windowStart,
		EndDate:              windowEnd,
	})
	if err != nil {
		t.Fatalf("CreateContract: %v", err)
	}
	if contract.Status != enums.ContractStatusActive {
		t.Fatalf("expected active contract, got %q", contract.Status)
	}
	if created.Content != "standard terms" {
		t.Fatalf("expected template content, got %q", created.Content)
	}
}

func TestCreateContractRejectsInvertedWindow(t *testing.T) {
	svc := newTestService(t, &fakeRepository{})
	_, err := svc.CreateContract(context.Background(), CreateContractParams{
		OrderID:   9,
		Content:   "terms",
		StartDate: windowEnd,
		EndDate:   windowStart,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenewContractBuildsSuccessor(t *testing.T) {
	var successor *models.Contract
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Contract, error) {
			return &models.Contract{
				ID:           id,
				OrderID:      9,
				Status:       enums.ContractStatusActive,
				Content:      "terms",
				RenewalCount: 2,
			}, nil
		},
		renewFn: func(ctx context.Context, predecessorID int64, next *models.Contract) error {
			next.ID = 40
			successor = next
			return nil
		},
	}
	svc := newTestService(t, repo)

	renewed, err := svc.RenewContract(context.Background(), RenewContractParams{
		ContractID: 33,
		StartDate:  windowStart,
		EndDate:    windowEnd,
	})
	if err != nil {
		t.Fatalf("RenewContract: %v", err)
	}
	if renewed.Status != enums.ContractStatusActive {
		t.Fatalf("expected active successor, got %q", renewed.Status)
	}
	if successor.RenewedFromContractID == nil || *successor.RenewedFromContractID != 33 {
		t.Fatalf("expected chain link to 33, got %v", successor.RenewedFromContractID)
	}
	if successor.RenewalCount != 3 {
		t.Fatalf("expected renewal count 3, got %d", successor.RenewalCount)
	}
}

func TestRenewContractRejectsRenewedVersion(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Contract, error) {
			return &models.Contract{ID: id, Status: enums.ContractStatusRenewed}, nil
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.RenewContract(context.Background(), RenewContractParams{
		ContractID: 33,
		StartDate:  windowStart,
		EndDate:    windowEnd,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRenewContractRacingUpdate(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Contract, error) {
			return &models.Contract{ID: id, Status: enums.ContractStatusActive}, nil
		},
		renewFn: func(ctx context.Context, predecessorID int64, successor *models.Contract) error {
			return ErrNotActive
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.RenewContract(context.Background(), RenewContractParams{
		ContractID: 33,
		StartDate:  windowStart,
		EndDate:    windowEnd,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestExpireContractRejectsExpired(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Contract, error) {
			return &models.Contract{ID: id, Status: enums.ContractStatusExpired}, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.ExpireContract(context.Background(), 33)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestContractChainNewestFirst(t *testing.T) {
	second := int64(1)
	repo := &fakeRepository{
		chainFn: func(ctx context.Context, id int64) ([]models.Contract, error) {
			return []models.Contract{
				{ID: 2, Status: enums.ContractStatusActive, RenewedFromContractID: &second},
				{ID: 1, Status: enums.ContractStatusRenewed},
			}, nil
		},
	}
	svc := newTestService(t, repo)

	chain, err := svc.ContractChain(context.Background(), 2)
	if err != nil {
		t.Fatalf("ContractChain: %v", err)
	}
	if len(chain) != 2 || chain[0].ID != 2 || chain[1].ID != 1 {
		t.Fatalf("unexpected chain %+v", chain)
	}
}

func TestAttachPDFRequiresFile(t *testing.T) {
	svc := newTestService(t, &fakeRepository{})
	_, err := svc.AttachPDF(context.Background(), 33, nil)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type fakeOrderRepository struct {
	findOrderFn func(ctx context.Context, id int64) (*models.Order, error)
}

func (f *fakeOrderRepository) PlaceOrder(ctx context.Context, order *models.Order, summary *models.OrderSummary) error {
	return nil
}

func (f *fakeOrderRepository) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	if f.findOrderFn != nil {
		return f.findOrderFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepository) ListBetween(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepository) SearchByProductName(ctx context.Context, buyerID int64, name string) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepository) FindSummary(ctx context.Context, id int64) (*models.OrderSummary, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepository) ListHistories(ctx context.Context, buyerID int64) ([]models.OrderHistory, error) {
	return nil, nil
}

func (f *fakeOrderRepository) ProductsFromHistory(ctx context.Context, historyID int64) ([]models.Product, error) {
	return nil, nil
}

type fakeNotifications struct {
	pushed []notifications.PushParams
}

func (f *fakeNotifications) Push(ctx context.Context, params notifications.PushParams) (*models.Notification, error) {
	f.pushed = append(f.pushed, params)
	return &models.Notification{}, nil
}

func (f *fakeNotifications) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (f *fakeNotifications) MarkRead(ctx context.Context, recipientID, notificationID int64) error {
	return nil
}

func (f *fakeNotifications) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return 0, nil
}

func TestRenewContractNotifiesBuyer(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Contract, error) {
			return &models.Contract{ID: id, OrderID: 9, Status: enums.ContractStatusActive, Content: "terms"}, nil
		},
		renewFn: func(ctx context.Context, predecessorID int64, successor *models.Contract) error {
			successor.ID = 40
			return nil
		},
	}
	orderRepo := &fakeOrderRepository{
		findOrderFn: func(ctx context.Context, id int64) (*models.Order, error) {
			return &models.Order{ID: id, BuyerID: 7}, nil
		},
	}
	notifs := &fakeNotifications{}
	svc, err := NewService(ServiceParams{Repo: repo, OrderRepo: orderRepo, Notifications: notifs})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if _, err := svc.RenewContract(context.Background(), RenewContractParams{
		ContractID: 33,
		StartDate:  windowStart,
		EndDate:    windowEnd,
	}); err != nil {
		t.Fatalf("RenewContract: %v", err)
	}
	if len(notifs.pushed) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifs.pushed))
	}
	push := notifs.pushed[0]
	if push.RecipientID != 7 || push.Category != enums.NotificationCategoryContractRenewal {
		t.Fatalf("unexpected push %+v", push)
	}
	if push.ContractID == nil || *push.ContractID != 40 {
		t.Fatalf("expected successor contract reference, got %v", push.ContractID)
	}
}
