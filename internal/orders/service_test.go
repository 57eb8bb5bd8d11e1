package orders

import (
	"context"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/internal/products"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"gorm.io/gorm"
)

type fakeRepository struct {
	calls int

	placeOrderFn          func(ctx context.Context, order *models.Order, summary *models.OrderSummary) error
	findOrderFn           func(ctx context.Context, id int64) (*models.Order, error)
	listBetweenFn         func(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error)
	searchByProductNameFn func(ctx context.Context, buyerID int64, name string) ([]models.Order, error)
	productsFromHistoryFn func(ctx context.Context, historyID int64) ([]models.Product, error)
}

func (f *fakeRepository) PlaceOrder(ctx context.Context, order *models.Order, summary *models.OrderSummary) error {
	f.calls++
	if f.placeOrderFn != nil {
		return f.placeOrderFn(ctx, order, summary)
	}
	return nil
}

func (f *fakeRepository) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	f.calls++
	if f.findOrderFn != nil {
		return f.findOrderFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error) {
	f.calls++
	return nil, nil
}

func (f *fakeRepository) ListBetween(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error) {
	f.calls++
	if f.listBetweenFn != nil {
		return f.listBetweenFn(ctx, buyerID, from, to)
	}
	return nil, nil
}

func (f *fakeRepository) SearchByProductName(ctx context.Context, buyerID int64, name string) ([]models.Order, error) {
	f.calls++
	if f.searchByProductNameFn != nil {
		return f.searchByProductNameFn(ctx, buyerID, name)
	}
	return nil, nil
}

func (f *fakeRepository) FindSummary(ctx context.Context, id int64) (*models.OrderSummary, error) {
	f.calls++
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListHistories(ctx context.Context, buyerID int64) ([]models.OrderHistory, error) {
	f.calls++
	return nil, nil
}

func (f *fakeRepository) ProductsFromHistory(ctx context.Context, historyID int64) ([]models.Product, error) {
	f.calls++
	if f.productsFromHistoryFn != nil {
		return f.productsFromHistoryFn(ctx, historyID)
	}
	return nil, nil
}

type fakeProductRepository struct {
	findByIDFn func(ctx context.Context, id int64) (*models.Product, error)
}

func (f *fakeProductRepository) Create(ctx context.Context, product *models.Product) error {
	return nil
}

func (f *fakeProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepository) Update(ctx context.Context, product *models.Product) error {
	return nil
}

func (f *fakeProductRepository) Delete(ctx context.Context, id int64) error { return nil }

func (f *fakeProductRepository) List(ctx context.Context, params products.ListQuery) ([]models.Product, *pagination.Cursor, error) {
	return nil, nil, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(t *testing.T, repo *fakeRepository, productRepo *fakeProductRepository, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, ProductRepo: productRepo, Clock: fixedClock(now)})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func TestPlaceOrderComputesCost(t *testing.T) {
	var placed *models.Order
	repo := &fakeRepository{
		placeOrderFn: func(ctx context.Context, order *models.Order, summary *models.OrderSummary) error {
			order.ID = 10
			order.OrderHistoryID = 4
			placed = order
			return nil
		},
	}
	productRepo := &fakeProductRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, SellerID: 3, PriceCents: 250, Stock: 9}, nil
		},
	}
	svc := newTestService(t, repo, productRepo, testNow)

	order, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		BuyerID:       7,
		ProductID:     11,
		Quantity:      4,
		PaymentMethod: enums.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if placed.CostCents != 1000 {
		t.Fatalf("expected cost 1000, got %d", placed.CostCents)
	}
	if placed.SellerID != 3 {
		t.Fatalf("expected seller 3 from product, got %d", placed.SellerID)
	}
	if order.OrderHistoryID != 4 {
		t.Fatalf("expected history id propagated, got %d", order.OrderHistoryID)
	}
}

func TestPlaceOrderBuildsSummaryTotals(t *testing.T) {
	var stored *models.OrderSummary
	repo := &fakeRepository{
		placeOrderFn: func(ctx context.Context, order *models.Order, summary *models.OrderSummary) error {
			stored = summary
			return nil
		},
	}
	productRepo := &fakeProductRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, SellerID: 3, PriceCents: 250}, nil
		},
	}
	svc := newTestService(t, repo, productRepo, testNow)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		BuyerID:          7,
		ProductID:        11,
		Quantity:         2,
		PaymentMethod:    enums.PaymentMethodWallet,
		WarrantyTaxCents: 50,
		DeliveryFeeCents: 100,
		Details:          &CheckoutDetails{FullName: "Ana Pop", Email: "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if stored == nil {
		t.Fatal("expected summary to be written")
	}
	if stored.SubtotalCents != 500 || stored.FinalTotalCents != 650 {
		t.Fatalf("unexpected totals %+v", stored)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	repo := &fakeRepository{
		placeOrderFn: func(ctx context.Context, order *models.Order, summary *models.OrderSummary) error {
			return ErrInsufficientStock
		},
	}
	productRepo := &fakeProductRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, PriceCents: 250}, nil
		},
	}
	svc := newTestService(t, repo, productRepo, testNow)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		BuyerID:       7,
		ProductID:     11,
		Quantity:      5,
		PaymentMethod: enums.PaymentMethodCash,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPlaceOrderRejectsZeroQuantity(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, &fakeProductRepository{}, testNow)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		BuyerID:       7,
		ProductID:     11,
		Quantity:      0,
		PaymentMethod: enums.PaymentMethodCard,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}
}

func TestOrdersFromLastSixMonthsWindow(t *testing.T) {
	var gotFrom, gotTo time.Time
	repo := &fakeRepository{
		listBetweenFn: func(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	}
	svc := newTestService(t, repo, &fakeProductRepository{}, testNow)

	if _, err := svc.OrdersFromLastSixMonths(context.Background(), 7); err != nil {
		t.Fatalf("OrdersFromLastSixMonths: %v", err)
	}
	if !gotTo.Equal(testNow) {
		t.Fatalf("expected window end %v, got %v", testNow, gotTo)
	}
	if !gotFrom.Equal(testNow.AddDate(0, -6, 0)) {
		t.Fatalf("expected window start six months back, got %v", gotFrom)
	}
}

func TestOrdersByYearWindow(t *testing.T) {
	var gotFrom, gotTo time.Time
	repo := &fakeRepository{
		listBetweenFn: func(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error) {
			gotFrom, gotTo = from, to
			return nil, nil
		},
	}
	svc := newTestService(t, repo, &fakeProductRepository{}, testNow)

	if _, err := svc.OrdersByYear(context.Background(), 7, 2025); err != nil {
		t.Fatalf("OrdersByYear: %v", err)
	}
	if gotFrom.Year() != 2025 || gotTo.Year() != 2026 {
		t.Fatalf("unexpected window %v..%v", gotFrom, gotTo)
	}
}

func TestOrdersBetweenRejectsInvertedRange(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, &fakeProductRepository{}, testNow)

	_, err := svc.OrdersBetween(context.Background(), 7, testNow, testNow.AddDate(0, 0, -1))
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}
}

func TestProductsFromOrderHistoryRejectsNonPositiveID(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, &fakeProductRepository{}, testNow)

	_, err := svc.ProductsFromOrderHistory(context.Background(), 0)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}
}

func TestSearchOrdersRequiresTerm(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, &fakeProductRepository{}, testNow)
	_, err := svc.SearchOrdersByProductName(context.Background(), 7, "   ")
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
