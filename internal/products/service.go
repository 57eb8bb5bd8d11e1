package products

import (
	"context"
	"strings"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"github.com/lib/pq"
)

// RestockAnnouncer fans out availability notices when a listing comes back in
// stock. Implemented by the waitlist service.
type RestockAnnouncer interface {
	AnnounceRestock(ctx context.Context, productID int64) error
}

// ProductParams carries product fields for create and update.
type ProductParams struct {
	ID          int64
	SellerID    int64
	Name        string
	Description string
	PriceCents  int64
	Stock       int
	ProductType enums.ProductType
	Tags        []string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ListParams configures product listing queries.
type ListParams struct {
	SellerID *int64
	Limit    int
	Cursor   string
}

// ListResult wraps a product page and the cursor for the next one.
type ListResult struct {
	Items  []models.Product `json:"items"`
	Cursor string           `json:"cursor"`
}

// Service defines product catalog operations.
type Service interface {
	AddProduct(ctx context.Context, params ProductParams) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, params ProductParams) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, params ListParams) (*ListResult, error)
}

// ServiceParams groups dependencies for the product service. Announcer is
// optional; when set, restocks notify waitlisted buyers.
type ServiceParams struct {
	Repo      Repository
	Announcer RestockAnnouncer
}

type service struct {
	repo      Repository
	announcer RestockAnnouncer
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repository required")
	}
	return &service{repo: params.Repo, announcer: params.Announcer}, nil
}

// validateParams runs the argument guards ahead of any repository call.
func validateParams(params ProductParams) error {
	if params.SellerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller id must be positive")
	}
	if strings.TrimSpace(params.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if params.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if params.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if !params.ProductType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	if params.ProductType == enums.ProductTypeBorrowed &&
		params.StartDate != nil && params.EndDate != nil &&
		params.StartDate.After(*params.EndDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "borrow window start must not be after its end")
	}
	return nil
}

func (s *service) AddProduct(ctx context.Context, params ProductParams) (*models.Product, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:    params.SellerID,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		PriceCents:  params.PriceCents,
		Stock:       params.Stock,
		ProductType: params.ProductType,
		Tags:        pq.StringArray(params.Tags),
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, params ProductParams) (*models.Product, error) {
	if params.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, params.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	restocked := product.Stock == 0 && params.Stock > 0

	product.Name = strings.TrimSpace(params.Name)
	product.Description = params.Description
	product.PriceCents = params.PriceCents
	product.Stock = params.Stock
	product.ProductType = params.ProductType
	product.Tags = pq.StringArray(params.Tags)
	product.StartDate = params.StartDate
	product.EndDate = params.EndDate

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	if restocked && s.announcer != nil {
		if err := s.announcer.AnnounceRestock(ctx, product.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "announce restock")
		}
	}
	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) ListProducts(ctx context.Context, params ListParams) (*ListResult, error) {
	query := ListQuery{SellerID: params.SellerID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}
