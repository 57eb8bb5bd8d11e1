package cart

import (
	"context"
	"fmt"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the cart repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) AddItem(ctx context.Context, buyerID, productID int64, quantity int) (*models.CartItem, error) {
	body := struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	var item models.CartItem
	if err := p.client.Post(ctx, fmt.Sprintf("api/v1/buyers/%d/cart/items", buyerID), body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (p *proxyRepository) SetQuantity(ctx context.Context, buyerID, productID int64, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	path := fmt.Sprintf("api/v1/buyers/%d/cart/items/%d", buyerID, productID)
	return p.client.Put(ctx, path, body, nil)
}

func (p *proxyRepository) RemoveItem(ctx context.Context, buyerID, productID int64) (bool, error) {
	var out struct {
		Removed bool `json:"removed"`
	}
	path := fmt.Sprintf("api/v1/buyers/%d/cart/items/%d", buyerID, productID)
	if err := p.client.Delete(ctx, path, &out); err != nil {
		return false, err
	}
	return out.Removed, nil
}

func (p *proxyRepository) Clear(ctx context.Context, buyerID int64) (int64, error) {
	var out struct {
		Cleared int64 `json:"cleared"`
	}
	if err := p.client.Delete(ctx, fmt.Sprintf("api/v1/buyers/%d/cart", buyerID), &out); err != nil {
		return 0, err
	}
	return out.Cleared, nil
}

func (p *proxyRepository) List(ctx context.Context, buyerID int64) ([]Line, error) {
	lines := []Line{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/cart", buyerID), nil, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (p *proxyRepository) Total(ctx context.Context, buyerID int64) (int64, error) {
	var out struct {
		TotalCents int64 `json:"totalCents"`
	}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/cart/total", buyerID), nil, &out); err != nil {
		return 0, err
	}
	return out.TotalCents, nil
}
