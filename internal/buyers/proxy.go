package buyers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the buyer repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) Create(ctx context.Context, buyer *models.Buyer) error {
	return p.client.Post(ctx, "api/v1/buyers", buyer, buyer)
}

func (p *proxyRepository) FindByUserID(ctx context.Context, userID int64) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d", userID), nil, &buyer); err != nil {
		return nil, err
	}
	return &buyer, nil
}

func (p *proxyRepository) Update(ctx context.Context, buyer *models.Buyer) error {
	return p.client.Put(ctx, fmt.Sprintf("api/v1/buyers/%d", buyer.UserID), buyer, buyer)
}

func (p *proxyRepository) FindBuyersWithShippingAddress(ctx context.Context, address models.Address) ([]models.Buyer, error) {
	query := url.Values{}
	if address.StreetLine != "" {
		query.Set("streetLine", address.StreetLine)
	}
	if address.City != "" {
		query.Set("city", address.City)
	}
	if address.Country != "" {
		query.Set("country", address.Country)
	}
	if address.PostalCode != "" {
		query.Set("postalCode", address.PostalCode)
	}

	buyers := []models.Buyer{}
	if err := p.client.Get(ctx, "api/v1/buyers/by-shipping-address", query, &buyers); err != nil {
		return nil, err
	}
	return buyers, nil
}

func (p *proxyRepository) Delete(ctx context.Context, userID int64) error {
	return p.client.Delete(ctx, fmt.Sprintf("api/v1/buyers/%d", userID), nil)
}

func (p *proxyRepository) CreateLinkage(ctx context.Context, linkage *models.BuyerLinkage) error {
	return p.client.Post(ctx, "api/v1/buyers/linkages", linkage, linkage)
}

func (p *proxyRepository) FindLinkage(ctx context.Context, id int64) (*models.BuyerLinkage, error) {
	var linkage models.BuyerLinkage
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/linkages/%d", id), nil, &linkage); err != nil {
		return nil, err
	}
	return &linkage, nil
}

func (p *proxyRepository) FindLinkageBetween(ctx context.Context, buyerA, buyerB int64) (*models.BuyerLinkage, error) {
	query := url.Values{}
	query.Set("buyerA", fmt.Sprintf("%d", buyerA))
	query.Set("buyerB", fmt.Sprintf("%d", buyerB))

	var linkage models.BuyerLinkage
	if err := p.client.Get(ctx, "api/v1/buyers/linkages/between", query, &linkage); err != nil {
		return nil, err
	}
	return &linkage, nil
}

func (p *proxyRepository) UpdateLinkageStatus(ctx context.Context, id int64, status enums.LinkageStatus) error {
	body := map[string]any{"status": status}
	return p.client.Patch(ctx, fmt.Sprintf("api/v1/buyers/linkages/%d/status", id), body, nil)
}

func (p *proxyRepository) ListLinkages(ctx context.Context, buyerID int64) ([]models.BuyerLinkage, error) {
	linkages := []models.BuyerLinkage{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/linkages", buyerID), nil, &linkages); err != nil {
		return nil, err
	}
	return linkages, nil
}

func (p *proxyRepository) Follow(ctx context.Context, buyerID, sellerID int64) (bool, error) {
	var out struct {
		Created bool `json:"created"`
	}
	if err := p.client.Post(ctx, fmt.Sprintf("api/v1/buyers/%d/followings/%d", buyerID, sellerID), nil, &out); err != nil {
		return false, err
	}
	return out.Created, nil
}

func (p *proxyRepository) Unfollow(ctx context.Context, buyerID, sellerID int64) (bool, error) {
	var out struct {
		Removed bool `json:"removed"`
	}
	if err := p.client.Delete(ctx, fmt.Sprintf("api/v1/buyers/%d/followings/%d", buyerID, sellerID), &out); err != nil {
		return false, err
	}
	return out.Removed, nil
}

func (p *proxyRepository) ListFollowedSellers(ctx context.Context, buyerID int64) ([]models.Seller, error) {
	sellers := []models.Seller{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/buyers/%d/followings", buyerID), nil, &sellers); err != nil {
		return nil, err
	}
	return sellers, nil
}
