package products

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the product repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) Create(ctx context.Context, product *models.Product) error {
	return p.client.Post(ctx, "api/v1/products", product, product)
}

func (p *proxyRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *proxyRepository) Update(ctx context.Context, product *models.Product) error {
	return p.client.Put(ctx, fmt.Sprintf("api/v1/products/%d", product.ID), product, product)
}

func (p *proxyRepository) Delete(ctx context.Context, id int64) error {
	return p.client.Delete(ctx, fmt.Sprintf("api/v1/products/%d", id), nil)
}

func (p *proxyRepository) List(ctx context.Context, params ListQuery) ([]models.Product, *pagination.Cursor, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.SellerID != nil {
		query.Set("sellerId", strconv.FormatInt(*params.SellerID, 10))
	}
	if params.Cursor != nil {
		query.Set("cursor", pagination.EncodeCursor(*params.Cursor))
	}

	var out struct {
		Items  []models.Product `json:"items"`
		Cursor string           `json:"cursor"`
	}
	if err := p.client.Get(ctx, "api/v1/products", query, &out); err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if out.Cursor != "" {
		parsed, err := pagination.ParseCursor(out.Cursor)
		if err != nil {
			return nil, nil, err
		}
		next = parsed
	}
	if out.Items == nil {
		out.Items = []models.Product{}
	}
	return out.Items, next, nil
}
