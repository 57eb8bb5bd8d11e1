package waitlist

import (
	"context"
	"fmt"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the waitlist repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) Join(ctx context.Context, productID, buyerID int64, at time.Time) (bool, error) {
	body := struct {
		BuyerID  int64     `json:"buyerId"`
		JoinedAt time.Time `json:"joinedAt"`
	}{BuyerID: buyerID, JoinedAt: at}

	var out struct {
		Joined bool `json:"joined"`
	}
	path := fmt.Sprintf("api/v1/products/%d/waitlist", productID)
	if err := p.client.Post(ctx, path, body, &out); err != nil {
		return false, err
	}
	return out.Joined, nil
}

func (p *proxyRepository) Leave(ctx context.Context, productID, buyerID int64) (bool, error) {
	var out struct {
		Removed bool `json:"removed"`
	}
	path := fmt.Sprintf("api/v1/products/%d/waitlist/%d", productID, buyerID)
	if err := p.client.Delete(ctx, path, &out); err != nil {
		return false, err
	}
	return out.Removed, nil
}

func (p *proxyRepository) Position(ctx context.Context, productID, buyerID int64) (int, error) {
	var out struct {
		Position int `json:"position"`
	}
	path := fmt.Sprintf("api/v1/products/%d/waitlist/%d/position", productID, buyerID)
	if err := p.client.Get(ctx, path, nil, &out); err != nil {
		return 0, err
	}
	return out.Position, nil
}

func (p *proxyRepository) ListBuyers(ctx context.Context, productID int64) ([]models.WaitlistEntry, error) {
	entries := []models.WaitlistEntry{}
	path := fmt.Sprintf("api/v1/products/%d/waitlist", productID)
	if err := p.client.Get(ctx, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *proxyRepository) ListProducts(ctx context.Context, buyerID int64) ([]models.WaitlistEntry, error) {
	entries := []models.WaitlistEntry{}
	path := fmt.Sprintf("api/v1/buyers/%d/waitlists", buyerID)
	if err := p.client.Get(ctx, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
