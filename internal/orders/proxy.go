package orders

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the order repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

type placeOrderRequest struct {
	Order   *models.Order        `json:"order"`
	Summary *models.OrderSummary `json:"summary,omitempty"`
}

type placeOrderResponse struct {
	Order   *models.Order        `json:"order"`
	Summary *models.OrderSummary `json:"summary,omitempty"`
}

func (p *proxyRepository) PlaceOrder(ctx context.Context, order *models.Order, summary *models.OrderSummary) error {
	var out placeOrderResponse
	if err := p.client.Post(ctx, "api/v1/orders", placeOrderRequest{Order: order, Summary: summary}, &out); err != nil {
		return err
	}
	if out.Order != nil {
		*order = *out.Order
	}
	if summary != nil && out.Summary != nil {
		*summary = *out.Summary
	}
	return nil
}

func (p *proxyRepository) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (p *proxyRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error) {
	orderRows := []models.Order{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/orders", buyerID), nil, &orderRows); err != nil {
		return nil, err
	}
	return orderRows, nil
}

func (p *proxyRepository) ListBetween(ctx context.Context, buyerID int64, from, to time.Time) ([]models.Order, error) {
	query := url.Values{}
	query.Set("from", from.Format(time.RFC3339))
	query.Set("to", to.Format(time.RFC3339))

	orderRows := []models.Order{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/orders", buyerID), query, &orderRows); err != nil {
		return nil, err
	}
	return orderRows, nil
}

func (p *proxyRepository) SearchByProductName(ctx context.Context, buyerID int64, name string) ([]models.Order, error) {
	query := url.Values{}
	query.Set("q", name)

	orderRows := []models.Order{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/orders/search", buyerID), query, &orderRows); err != nil {
		return nil, err
	}
	return orderRows, nil
}

func (p *proxyRepository) FindSummary(ctx context.Context, id int64) (*models.OrderSummary, error) {
	var summary models.OrderSummary
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/order-summaries/%d", id), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (p *proxyRepository) ListHistories(ctx context.Context, buyerID int64) ([]models.OrderHistory, error) {
	histories := []models.OrderHistory{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/order-histories", buyerID), nil, &histories); err != nil {
		return nil, err
	}
	return histories, nil
}

func (p *proxyRepository) ProductsFromHistory(ctx context.Context, historyID int64) ([]models.Product, error) {
	productRows := []models.Product{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/order-histories/%d/products", historyID), nil, &productRows); err != nil {
		return nil, err
	}
	return productRows, nil
}
