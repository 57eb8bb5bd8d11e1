package contracts

import (
	"context"
	"fmt"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the contract repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) Create(ctx context.Context, contract *models.Contract) error {
	return p.client.Post(ctx, "api/v1/contracts", contract, contract)
}

func (p *proxyRepository) FindByID(ctx context.Context, id int64) (*models.Contract, error) {
	var contract models.Contract
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/contracts/%d", id), nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (p *proxyRepository) Renew(ctx context.Context, predecessorID int64, successor *models.Contract) error {
	return p.client.Post(ctx, fmt.Sprintf("api/v1/contracts/%d/renew", predecessorID), successor, successor)
}

func (p *proxyRepository) UpdateStatus(ctx context.Context, id int64, from, to enums.ContractStatus) error {
	body := struct {
		From enums.ContractStatus `json:"from"`
		To   enums.ContractStatus `json:"to"`
	}{From: from, To: to}
	return p.client.Patch(ctx, fmt.Sprintf("api/v1/contracts/%d/status", id), body, nil)
}

func (p *proxyRepository) Chain(ctx context.Context, id int64) ([]models.Contract, error) {
	chain := []models.Contract{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/contracts/%d/chain", id), nil, &chain); err != nil {
		return nil, err
	}
	return chain, nil
}

func (p *proxyRepository) ListByOrder(ctx context.Context, orderID int64) ([]models.Contract, error) {
	contractRows := []models.Contract{}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/orders/%d/contracts", orderID), nil, &contractRows); err != nil {
		return nil, err
	}
	return contractRows, nil
}

func (p *proxyRepository) FindPredefined(ctx context.Context, id int64) (*models.PredefinedContract, error) {
	var template models.PredefinedContract
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/predefined-contracts/%d", id), nil, &template); err != nil {
		return nil, err
	}
	return &template, nil
}

func (p *proxyRepository) ListPredefined(ctx context.Context) ([]models.PredefinedContract, error) {
	templates := []models.PredefinedContract{}
	if err := p.client.Get(ctx, "api/v1/predefined-contracts", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (p *proxyRepository) AttachPDF(ctx context.Context, pdf *models.ContractPDF) error {
	body := struct {
		ContractID int64  `json:"contractId"`
		File       []byte `json:"file"`
	}{ContractID: pdf.ContractID, File: pdf.File}
	return p.client.Post(ctx, fmt.Sprintf("api/v1/contracts/%d/pdf", pdf.ContractID), body, pdf)
}

func (p *proxyRepository) FindPDF(ctx context.Context, id int64) (*models.ContractPDF, error) {
	// File carries json:"-" on the model, so the wire shape is explicit here.
	var out struct {
		ID         int64  `json:"id"`
		ContractID int64  `json:"contractId"`
		File       []byte `json:"file"`
	}
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/contract-pdfs/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &models.ContractPDF{ID: out.ID, ContractID: out.ContractID, File: out.File}, nil
}
