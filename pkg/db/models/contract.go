package models

import (
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/enums"
)

// Contract is one version in an append-only renewal chain. Renewing a
// contract inserts a fresh ACTIVE row whose RenewedFromContractID points at
// the predecessor; the predecessor flips to RENEWED and is never touched
// again.
type Contract struct {
	ID                    int64                `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID               int64                `gorm:"column:order_id;not null;index" json:"orderId"`
	Status                enums.ContractStatus `gorm:"column:status;not null;default:ACTIVE" json:"status"`
	Content               string               `gorm:"column:content;not null;default:''" json:"content"`
	RenewalCount          int                  `gorm:"column:renewal_count;not null;default:0" json:"renewalCount"`
	PredefinedContractID  *int64               `gorm:"column:predefined_contract_id" json:"predefinedContractId,omitempty"`
	PDFID                 *int64               `gorm:"column:pdf_id" json:"pdfId,omitempty"`
	RenewedFromContractID *int64               `gorm:"column:renewed_from_contract_id;index" json:"renewedFromContractId,omitempty"`
	StartDate             time.Time            `gorm:"column:start_date;not null" json:"startDate"`
	EndDate               time.Time            `gorm:"column:end_date;not null" json:"endDate"`
	CreatedAt             time.Time            `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// PredefinedContract is a reusable contract template.
type PredefinedContract struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"column:name;not null" json:"name"`
	Content string `gorm:"column:content;not null" json:"content"`
}

// ContractPDF stores the rendered document for a contract version.
type ContractPDF struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContractID int64     `gorm:"column:contract_id;not null;index" json:"contractId"`
	File       []byte    `gorm:"column:file;type:bytea;not null" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}
