package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/adrianfloca/marketforge-backend/internal/products"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
)

// CheckoutDetails is the contact snapshot written onto the order summary.
type CheckoutDetails struct {
	FullName       string
	Email          string
	PhoneNumber    string
	Address        string
	PostalCode     string
	AdditionalInfo string
}

// PlaceOrderParams carries a single purchase request.
type PlaceOrderParams struct {
	BuyerID          int64
	ProductID        int64
	Quantity         int
	PaymentMethod    enums.PaymentMethod
	OrderHistoryID   int64
	WarrantyTaxCents int64
	DeliveryFeeCents int64
	Details          *CheckoutDetails
}

// Service defines order placement and history queries.
type Service interface {
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, buyerID int64) ([]models.Order, error)
	OrdersFromLastThreeMonths(ctx context.Context, buyerID int64) ([]models.Order, error)
	OrdersFromLastSixMonths(ctx context.Context, buyerID int64) ([]models.Order, error)
	OrdersByYear(ctx context.Context, buyerID int64, year int) ([]models.Order, error)
	OrdersBetween(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error)
	SearchOrdersByProductName(ctx context.Context, buyerID int64, name string) ([]models.Order, error)
	GetSummary(ctx context.Context, id int64) (*models.OrderSummary, error)
	ListHistories(ctx context.Context, buyerID int64) ([]models.OrderHistory, error)
	ProductsFromOrderHistory(ctx context.Context, historyID int64) ([]models.Product, error)
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo        Repository
	ProductRepo products.Repository
	Clock       func() time.Time
}

type service struct {
	repo        Repository
	productRepo products.Repository
	clock       func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order repository required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{repo: params.Repo, productRepo: params.ProductRepo, clock: params.Clock}, nil
}

func (s *service) PlaceOrder(ctx context.Context, params PlaceOrderParams) (*models.Order, error) {
	if params.BuyerID <= 0 || params.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer and product ids must be positive")
	}
	if params.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
	}
	if !params.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	product, err := s.productRepo.FindByID(ctx, params.ProductID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cost := product.PriceCents * int64(params.Quantity)
	order := &models.Order{
		BuyerID:        params.BuyerID,
		ProductID:      params.ProductID,
		SellerID:       product.SellerID,
		OrderHistoryID: params.OrderHistoryID,
		Quantity:       params.Quantity,
		CostCents:      cost,
		PaymentMethod:  params.PaymentMethod,
		OrderDate:      s.clock().UTC(),
	}

	var summary *models.OrderSummary
	if params.Details != nil {
		summary = &models.OrderSummary{
			SubtotalCents:    cost,
			WarrantyTaxCents: params.WarrantyTaxCents,
			DeliveryFeeCents: params.DeliveryFeeCents,
			FinalTotalCents:  cost + params.WarrantyTaxCents + params.DeliveryFeeCents,
			FullName:         params.Details.FullName,
			Email:            params.Details.Email,
			PhoneNumber:      params.Details.PhoneNumber,
			Address:          params.Details.Address,
			PostalCode:       params.Details.PostalCode,
			AdditionalInfo:   params.Details.AdditionalInfo,
		}
	}

	if err := s.repo.PlaceOrder(ctx, order, summary); err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock), pkgerrors.As(err).Code() == pkgerrors.CodeConflict:
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "insufficient stock")
		case db.IsNotFound(err):
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
		}
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be positive")
	}
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, buyerID int64) ([]models.Order, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	orderRows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderRows, nil
}

func (s *service) ordersSince(ctx context.Context, buyerID int64, months int) ([]models.Order, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	now := s.clock().UTC()
	orderRows, err := s.repo.ListBetween(ctx, buyerID, now.AddDate(0, -months, 0), now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderRows, nil
}

func (s *service) OrdersFromLastThreeMonths(ctx context.Context, buyerID int64) ([]models.Order, error) {
	return s.ordersSince(ctx, buyerID, 3)
}

func (s *service) OrdersFromLastSixMonths(ctx context.Context, buyerID int64) ([]models.Order, error) {
	return s.ordersSince(ctx, buyerID, 6)
}

func (s *service) OrdersByYear(ctx context.Context, buyerID int64, year int) ([]models.Order, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	if year < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year must be positive")
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	orderRows, err := s.repo.ListBetween(ctx, buyerID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderRows, nil
}

func (s *service) OrdersBetween(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	if from.After(to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "range start must not be after its end")
	}
	orderRows, err := s.repo.ListBetween(ctx, buyerID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderRows, nil
}

func (s *service) SearchOrdersByProductName(ctx context.Context, buyerID int64, name string) ([]models.Order, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search term is required")
	}
	orderRows, err := s.repo.SearchByProductName(ctx, buyerID, strings.TrimSpace(name))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search orders")
	}
	return orderRows, nil
}

func (s *service) GetSummary(ctx context.Context, id int64) (*models.OrderSummary, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "summary id must be positive")
	}
	summary, err := s.repo.FindSummary(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order summary not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order summary")
	}
	return summary, nil
}

func (s *service) ListHistories(ctx context.Context, buyerID int64) ([]models.OrderHistory, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	histories, err := s.repo.ListHistories(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order histories")
	}
	return histories, nil
}

func (s *service) ProductsFromOrderHistory(ctx context.Context, historyID int64) ([]models.Product, error) {
	if historyID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order history id must be positive")
	}
	productRows, err := s.repo.ProductsFromHistory(ctx, historyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products from history")
	}
	return productRows, nil
}
