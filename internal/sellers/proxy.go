package sellers

import (
	"context"
	"fmt"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
	"github.com/shopspring/decimal"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the seller repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) Create(ctx context.Context, seller *models.Seller) error {
	return p.client.Post(ctx, "api/v1/sellers", seller, seller)
}

func (p *proxyRepository) FindByUserID(ctx context.Context, userID int64) (*models.Seller, error) {
	var seller models.Seller
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/sellers/%d", userID), nil, &seller); err != nil {
		return nil, err
	}
	return &seller, nil
}

func (p *proxyRepository) Update(ctx context.Context, seller *models.Seller) error {
	return p.client.Put(ctx, fmt.Sprintf("api/v1/sellers/%d", seller.UserID), seller, seller)
}

func (p *proxyRepository) UpdateTrustScore(ctx context.Context, userID int64, score decimal.Decimal) error {
	body := map[string]any{"trustScore": score}
	return p.client.Patch(ctx, fmt.Sprintf("api/v1/sellers/%d/trust-score", userID), body, nil)
}

func (p *proxyRepository) AdjustFollowers(ctx context.Context, userID int64, delta int) error {
	body := map[string]any{"delta": delta}
	return p.client.Patch(ctx, fmt.Sprintf("api/v1/sellers/%d/followers", userID), body, nil)
}

func (p *proxyRepository) Delete(ctx context.Context, userID int64) error {
	return p.client.Delete(ctx, fmt.Sprintf("api/v1/sellers/%d", userID), nil)
}
