package notifications

import (
	"context"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
)

// PushParams carries the inputs for raising a notification. The category
// dictates which reference ids must be present.
type PushParams struct {
	RecipientID    int64
	Category       enums.NotificationCategory
	ContractID     *int64
	ProductID      *int64
	OrderID        *int64
	ExpirationDate *time.Time
}

// ListParams configures pagination for notifications.
type ListParams struct {
	RecipientID int64
	Limit       int
	Cursor      string
	UnreadOnly  bool
}

// ListResult wraps returned notifications and the cursor for the next page.
type ListResult struct {
	Items  []models.Notification `json:"items"`
	Cursor string                `json:"cursor"`
}

// Service defines notification push/list/read operations.
type Service interface {
	Push(ctx context.Context, params PushParams) (*models.Notification, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	MarkRead(ctx context.Context, recipientID, notificationID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

type service struct {
	repo Repository
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Push(ctx context.Context, params PushParams) (*models.Notification, error) {
	if params.RecipientID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id must be positive")
	}
	if !params.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification category")
	}

	refs := params.Category.Refs()
	if refs.Contract && (params.ContractID == nil || *params.ContractID <= 0) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category requires a contract reference")
	}
	if refs.Product && (params.ProductID == nil || *params.ProductID <= 0) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category requires a product reference")
	}
	if refs.Order && (params.OrderID == nil || *params.OrderID <= 0) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category requires an order reference")
	}

	notification := &models.Notification{
		RecipientID:    params.RecipientID,
		Category:       params.Category,
		ContractID:     params.ContractID,
		ProductID:      params.ProductID,
		OrderID:        params.OrderID,
		ExpirationDate: params.ExpirationDate,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return notification, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.RecipientID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id must be positive")
	}

	query := listNotificationsParams{
		RecipientID: params.RecipientID,
		Limit:       params.Limit,
		UnreadOnly:  params.UnreadOnly,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) MarkRead(ctx context.Context, recipientID, notificationID int64) error {
	if recipientID <= 0 || notificationID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient and notification ids must be positive")
	}

	mark, err := s.repo.MarkRead(ctx, recipientID, notificationID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !mark.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	if recipientID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "recipient id must be positive")
	}

	count, err := s.repo.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark all notifications read")
	}
	return count, nil
}
