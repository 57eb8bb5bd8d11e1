package cart

import (
	"context"

	"github.com/adrianfloca/marketforge-backend/internal/products"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
)

// Summary is the joined cart view returned to clients.
type Summary struct {
	Lines      []Line `json:"lines"`
	TotalCents int64  `json:"totalCents"`
}

// Service defines shopping cart operations.
type Service interface {
	AddItem(ctx context.Context, buyerID, productID int64, quantity int) (*models.CartItem, error)
	SetQuantity(ctx context.Context, buyerID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, buyerID, productID int64) error
	ClearCart(ctx context.Context, buyerID int64) (int64, error)
	GetCart(ctx context.Context, buyerID int64) (*Summary, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Repo        Repository
	ProductRepo products.Repository
}

type service struct {
	repo        Repository
	productRepo products.Repository
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart repository required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	return &service{repo: params.Repo, productRepo: params.ProductRepo}, nil
}

func (s *service) AddItem(ctx context.Context, buyerID, productID int64, quantity int) (*models.CartItem, error) {
	if buyerID <= 0 || productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer and product ids must be positive")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	item, err := s.repo.AddItem(ctx, buyerID, productID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return item, nil
}

func (s *service) SetQuantity(ctx context.Context, buyerID, productID int64, quantity int) error {
	if buyerID <= 0 || productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer and product ids must be positive")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
	}

	if err := s.repo.SetQuantity(ctx, buyerID, productID, quantity); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set cart quantity")
	}
	return nil
}

func (s *service) RemoveItem(ctx context.Context, buyerID, productID int64) error {
	if buyerID <= 0 || productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer and product ids must be positive")
	}

	removed, err := s.repo.RemoveItem(ctx, buyerID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) ClearCart(ctx context.Context, buyerID int64) (int64, error) {
	if buyerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	cleared, err := s.repo.Clear(ctx, buyerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return cleared, nil
}

func (s *service) GetCart(ctx context.Context, buyerID int64) (*Summary, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}

	lines, err := s.repo.List(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	var total int64
	for i := range lines {
		lines[i].TotalCents = int64(lines[i].Quantity) * lines[i].PriceCents
		total += lines[i].TotalCents
	}
	return &Summary{Lines: lines, TotalCents: total}, nil
}
