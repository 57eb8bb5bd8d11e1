package wallets

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

// NewProxyRepository binds the wallet repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (p *proxyRepository) CreateWallet(ctx context.Context, wallet *models.DummyWallet) error {
	path := fmt.Sprintf("api/v1/buyers/%d/wallet", wallet.BuyerID)
	return p.client.Post(ctx, path, wallet, wallet)
}

func (p *proxyRepository) FindWalletByBuyer(ctx context.Context, buyerID int64) (*models.DummyWallet, error) {
	var wallet models.DummyWallet
	path := fmt.Sprintf("api/v1/buyers/%d/wallet", buyerID)
	if err := p.client.Get(ctx, path, nil, &wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (p *proxyRepository) CreditWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) error {
	path := fmt.Sprintf("api/v1/buyers/%d/wallet/credit", buyerID)
	return p.client.Post(ctx, path, amountRequest{Amount: amount}, nil)
}

func (p *proxyRepository) DebitWallet(ctx context.Context, buyerID int64, amount decimal.Decimal) error {
	path := fmt.Sprintf("api/v1/buyers/%d/wallet/debit", buyerID)
	return p.client.Post(ctx, path, amountRequest{Amount: amount}, nil)
}

func (p *proxyRepository) CreateCard(ctx context.Context, card *models.DummyCard) error {
	path := fmt.Sprintf("api/v1/buyers/%d/cards", card.BuyerID)
	return p.client.Post(ctx, path, card, card)
}

func (p *proxyRepository) FindCard(ctx context.Context, id int64) (*models.DummyCard, error) {
	var card models.DummyCard
	path := fmt.Sprintf("api/v1/cards/%d", id)
	if err := p.client.Get(ctx, path, nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (p *proxyRepository) ListCards(ctx context.Context, buyerID int64) ([]models.DummyCard, error) {
	cards := []models.DummyCard{}
	path := fmt.Sprintf("api/v1/buyers/%d/cards", buyerID)
	if err := p.client.Get(ctx, path, nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (p *proxyRepository) CreditCard(ctx context.Context, id int64, amount decimal.Decimal) error {
	path := fmt.Sprintf("api/v1/cards/%d/credit", id)
	return p.client.Post(ctx, path, amountRequest{Amount: amount}, nil)
}

func (p *proxyRepository) DebitCard(ctx context.Context, id int64, amount decimal.Decimal) error {
	path := fmt.Sprintf("api/v1/cards/%d/debit", id)
	return p.client.Post(ctx, path, amountRequest{Amount: amount}, nil)
}

func (p *proxyRepository) DeleteCard(ctx context.Context, id int64) (bool, error) {
	var out struct {
		Removed bool `json:"removed"`
	}
	path := fmt.Sprintf("api/v1/cards/%d", id)
	if err := p.client.Delete(ctx, path, &out); err != nil {
		return false, err
	}
	return out.Removed, nil
}
