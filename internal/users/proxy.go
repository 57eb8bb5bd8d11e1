package users

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	"github.com/adrianfloca/marketforge-backend/pkg/pagination"
	"github.com/adrianfloca/marketforge-backend/pkg/proxy"
)

// proxyRepository implements Repository by forwarding every call to the API
// server. Routes are deterministic functions of the operation and arguments.
type proxyRepository struct {
	client *proxy.Client
}

// NewProxyRepository binds the user repository interface to the remote API.
func NewProxyRepository(client *proxy.Client) Repository {
	return &proxyRepository{client: client}
}

// wireUser carries the password hash explicitly; the model hides it from
// JSON, but repository reads and writes must transmit it so authentication
// works the same against a remote repository.
type wireUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

func (w wireUser) user() *models.User {
	user := w.User
	user.PasswordHash = w.PasswordHash
	return &user
}

func (p *proxyRepository) Create(ctx context.Context, user *models.User) error {
	body := wireUser{User: *user, PasswordHash: user.PasswordHash}
	if err := p.client.Post(ctx, "api/v1/users", body, user); err != nil {
		return err
	}
	return nil
}

func (p *proxyRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var out wireUser
	if err := p.client.Get(ctx, fmt.Sprintf("api/v1/users/records/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out.user(), nil
}

func (p *proxyRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var out wireUser
	path := "api/v1/users/records/by-username/" + url.PathEscape(username)
	if err := p.client.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.user(), nil
}

func (p *proxyRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var out wireUser
	path := "api/v1/users/records/by-email/" + url.PathEscape(email)
	if err := p.client.Get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out.user(), nil
}

func (p *proxyRepository) Update(ctx context.Context, user *models.User) error {
	body := wireUser{User: *user, PasswordHash: user.PasswordHash}
	return p.client.Put(ctx, fmt.Sprintf("api/v1/users/%d", user.ID), body, user)
}

func (p *proxyRepository) UpdateRole(ctx context.Context, id int64, role enums.UserRole) error {
	body := map[string]any{"role": role}
	return p.client.Patch(ctx, fmt.Sprintf("api/v1/users/%d/role", id), body, nil)
}

func (p *proxyRepository) RecordLoginFailure(ctx context.Context, id int64) (int, error) {
	var out struct {
		FailedLogins int `json:"failedLogins"`
	}
	if err := p.client.Post(ctx, fmt.Sprintf("api/v1/users/%d/login-failure", id), nil, &out); err != nil {
		return 0, err
	}
	return out.FailedLogins, nil
}

func (p *proxyRepository) RecordLoginSuccess(ctx context.Context, id int64, at time.Time) error {
	body := map[string]any{"at": at}
	return p.client.Post(ctx, fmt.Sprintf("api/v1/users/%d/login-success", id), body, nil)
}

func (p *proxyRepository) SetBan(ctx context.Context, id int64, banned bool, until *time.Time) error {
	body := map[string]any{"banned": banned, "until": until}
	return p.client.Patch(ctx, fmt.Sprintf("api/v1/users/%d/ban", id), body, nil)
}

func (p *proxyRepository) ListByRole(ctx context.Context, role enums.UserRole, limit int, cursor *pagination.Cursor) ([]models.User, *pagination.Cursor, error) {
	query := url.Values{}
	query.Set("role", string(role))
	query.Set("limit", strconv.Itoa(limit))
	if cursor != nil {
		query.Set("cursor", pagination.EncodeCursor(*cursor))
	}

	var out struct {
		Items  []models.User `json:"items"`
		Cursor string        `json:"cursor"`
	}
	if err := p.client.Get(ctx, "api/v1/users", query, &out); err != nil {
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
		out.Items = []models.User{}
	}
	return out.Items, next, nil
}

func (p *proxyRepository) Delete(ctx context.Context, id int64) error {
	return p.client.Delete(ctx, fmt.Sprintf("api/v1/users/%d", id), nil)
}
