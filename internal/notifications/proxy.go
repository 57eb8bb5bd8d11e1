package notifications

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the notifications repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

func (p *proxyRepository) Create(ctx context.Context, notification *models.Notification) error {
	return p.client.Post(ctx, "api/v1/notifications", notification, notification)
}

func (p *proxyRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(params.Limit))
	if params.Cursor != nil {
		query.Set("cursor", pagination.EncodeCursor(*params.Cursor))
	}
	if params.UnreadOnly {
		query.Set("unread", "true")
	}

	var out struct {
		Items  []models.Notification `json:"items"`
		Cursor string                `json:"cursor"`
	}
	path := fmt.Sprintf("api/v1/users/%d/notifications", params.RecipientID)
	if err := p.client.Get(ctx, path, query, &out); err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if out.Cursor != "" {
		parsed, err := pagination.ParseCursor(out.Cursor)
		if err != nil {
			return nil, nil, err
		}
		next = parsed
	}
	if out.Items == nil {
		out.Items = []models.Notification{}
	}
	return out.Items, next, nil
}

func (p *proxyRepository) MarkRead(ctx context.Context, recipientID, notificationID int64) (notificationMarkResult, error) {
	var out struct {
		Updated bool `json:"updated"`
		Found   bool `json:"found"`
	}
	path := fmt.Sprintf("api/v1/users/%d/notifications/%d/read", recipientID, notificationID)
	if err := p.client.Patch(ctx, path, nil, &out); err != nil {
		return notificationMarkResult{}, err
	}
	return notificationMarkResult{Updated: out.Updated, Found: out.Found}, nil
}

func (p *proxyRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	var out struct {
		Updated int64 `json:"updated"`
	}
	path := fmt.Sprintf("api/v1/users/%d/notifications/read-all", recipientID)
	if err := p.client.Patch(ctx, path, nil, &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}
