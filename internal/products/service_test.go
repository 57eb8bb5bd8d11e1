package products

import (
	"context"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"gorm.io/gorm"
)

type fakeRepository struct {
	calls int

	createFn   func(ctx context.Context, product *models.Product) error
	findByIDFn func(ctx context.Context, id int64) (*models.Product, error)
	updateFn   func(ctx context.Context, product *models.Product) error
	deleteFn   func(ctx context.Context, id int64) error
	listFn     func(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error)
}

func (f *fakeRepository) Create(ctx context.Context, product *models.Product) error {
	f.calls++
	if f.createFn != nil {
		return f.createFn(ctx, product)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	f.calls++
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, product *models.Product) error {
	f.calls++
	if f.updateFn != nil {
		return f.updateFn(ctx, product)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error {
	f.calls++
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error) {
	f.calls++
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

type fakeAnnouncer struct {
	announced []int64
	err       error
}

func (f *fakeAnnouncer) AnnounceRestock(ctx context.Context, productID int64) error {
	f.announced = append(f.announced, productID)
	return f.err
}

func newTestService(t *testing.T, repo Repository, announcer RestockAnnouncer) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Announcer: announcer})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func timePtr(v time.Time) *time.Time { return &v }

func TestUpdateProductNegativePriceSkipsRepository(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, nil)

	_, err := svc.UpdateProduct(context.Background(), ProductParams{
		ID:          1,
		SellerID:    2,
		Name:        "Lamp",
		PriceCents:  -100,
		ProductType: enums.ProductTypeNew,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}
}

func TestUpdateProductBorrowedWindowInverted(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, nil)

	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-48 * time.Hour)
	_, err := svc.UpdateProduct(context.Background(), ProductParams{
		ID:          1,
		SellerID:    2,
		Name:        "Drill",
		PriceCents:  500,
		ProductType: enums.ProductTypeBorrowed,
		StartDate:   timePtr(start),
		EndDate:     timePtr(end),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}
}

func TestAddProductRejectsNegativeStock(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo, nil)

	_, err := svc.AddProduct(context.Background(), ProductParams{
		SellerID:    2,
		Name:        "Lamp",
		PriceCents:  100,
		Stock:       -1,
		ProductType: enums.ProductTypeNew,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls, got %d", repo.calls)
	}
}

func TestAddProductStoresTags(t *testing.T) {
	var created *models.Product
	repo := &fakeRepository{
		createFn: func(ctx context.Context, product *models.Product) error {
			product.ID = 11
			created = product
			return nil
		},
	}
	svc := newTestService(t, repo, nil)

	product, err := svc.AddProduct(context.Background(), ProductParams{
		SellerID:    2,
		Name:        "  Lamp  ",
		PriceCents:  100,
		Stock:       3,
		ProductType: enums.ProductTypeUsed,
		Tags:        []string{"home", "light"},
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if product.Name != "Lamp" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if len(created.Tags) != 2 || created.Tags[0] != "home" {
		t.Fatalf("unexpected tags %v", created.Tags)
	}
}

func TestUpdateProductRestockAnnounces(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, SellerID: 2, Name: "Lamp", Stock: 0, ProductType: enums.ProductTypeNew}, nil
		},
	}
	announcer := &fakeAnnouncer{}
	svc := newTestService(t, repo, announcer)

	_, err := svc.UpdateProduct(context.Background(), ProductParams{
		ID:          11,
		SellerID:    2,
		Name:        "Lamp",
		PriceCents:  100,
		Stock:       4,
		ProductType: enums.ProductTypeNew,
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if len(announcer.announced) != 1 || announcer.announced[0] != 11 {
		t.Fatalf("expected restock announcement for product 11, got %v", announcer.announced)
	}
}

func TestUpdateProductNoAnnounceWhenStockStaysPositive(t *testing.T) {
	repo := &fakeRepository{
		findByIDFn: func(ctx context.Context, id int64) (*models.Product, error) {
			return &models.Product{ID: id, SellerID: 2, Name: "Lamp", Stock: 2, ProductType: enums.ProductTypeNew}, nil
		},
	}
	announcer := &fakeAnnouncer{}
	svc := newTestService(t, repo, announcer)

	if _, err := svc.UpdateProduct(context.Background(), ProductParams{
		ID:          11,
		SellerID:    2,
		Name:        "Lamp",
		PriceCents:  100,
		Stock:       6,
		ProductType: enums.ProductTypeNew,
	}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if len(announcer.announced) != 0 {
		t.Fatalf("expected no announcement, got %v", announcer.announced)
	}
}

func TestListProductsFiltersBySeller(t *testing.T) {
	var gotSeller *int64
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error) {
			gotSeller = params.SellerID
			return []models.Product{{ID: 1}}, nil, nil
		},
	}
	svc := newTestService(t, repo, nil)

	sellerID := int64(2)
	result, err := svc.ListProducts(context.Background(), ListParams{SellerID: &sellerID, Limit: 10})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if gotSeller == nil || *gotSeller != 2 {
		t.Fatalf("expected seller filter 2, got %v", gotSeller)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 product, got %d", len(result.Items))
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)
	_, err := svc.GetProduct(context.Background(), 99)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
