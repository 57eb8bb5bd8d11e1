package tracking

import (
	"context"
	"fmt"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the tracking repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) Create(ctx context.Context, tracked *models.TrackedOrder) error {
	return p.client.Post(ctx, "api/v1/tracked-orders", tracked, tracked)
}

func (p *proxyRepository) FindByID(ctx context.Context, id int64) (*models.TrackedOrder, error) {
	var tracked models.TrackedOrder
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/tracked-orders/%d", id), nil, &tracked); err != nil {
		return nil, err
	}
	return &tracked, nil
}

func (p *proxyRepository) FindByOrderID(ctx context.Context, orderID int64) (*models.TrackedOrder, error) {
	var tracked models.TrackedOrder
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/orders/%d/tracking", orderID), nil, &tracked); err != nil {
		return nil, err
	}
	return &tracked, nil
}

func (p *proxyRepository) UpdateEstimatedDelivery(ctx context.Context, id int64, tracked *models.TrackedOrder) error {
	return p.client.Patch(ctx, fmt.Sprintf("api/v1/tracked-orders/%d/delivery", id), tracked, tracked)
}

func (p *proxyRepository) AppendCheckpoint(ctx context.Context, checkpoint *models.OrderCheckpoint) error {
	path := fmt.Sprintf("api/v1/tracked-orders/%d/checkpoints", checkpoint.TrackedOrderID)
	return p.client.Post(ctx, path, checkpoint, checkpoint)
}

func (p *proxyRepository) ListCheckpoints(ctx context.Context, trackedOrderID int64) ([]models.OrderCheckpoint, error) {
	checkpoints := []models.OrderCheckpoint{}
	path := fmt.Sprintf("api/v1/tracked-orders/%d/checkpoints", trackedOrderID)
	if err := p.client.Get(ctx, path, nil, &checkpoints); err != nil {
		return nil, err
	}
	return checkpoints, nil
}

func (p *proxyRepository) LatestCheckpoint(ctx context.Context, trackedOrderID int64) (*models.OrderCheckpoint, error) {
	var checkpoint models.OrderCheckpoint
	path := fmt.Sprintf("api/v1/tracked-orders/%d/checkpoints/latest", trackedOrderID)
	if err := p.client.Get(ctx, path, nil, &checkpoint); err != nil {
		return nil, err
	}
	return &checkpoint, nil
}
