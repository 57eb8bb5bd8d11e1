package waitlist

import (
	"context"
	"time"

	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/pkg/db"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
)

// QueueEntry is a waitlist row with its computed 1-based position.
type QueueEntry struct {
	models.WaitlistEntry
	Position int `json:"position"`
}

// Service defines waitlist operations. It also serves as the restock
// announcer for the product service.
type Service interface {
	Join(ctx context.Context, productID, buyerID int64) (int, error)
	Leave(ctx context.Context, productID, buyerID int64) error
	Position(ctx context.Context, productID, buyerID int64) (int, error)
	ListBuyers(ctx context.Context, productID int64) ([]QueueEntry, error)
	ListProducts(ctx context.Context, buyerID int64) ([]models.WaitlistEntry, error)
	AnnounceRestock(ctx context.Context, productID int64) error
}

// ServiceParams groups dependencies for the waitlist service.
type ServiceParams struct {
	Repo          Repository
	Notifications notifications.Service
	Clock         func() time.Time
}

type service struct {
	repo          Repository
	notifications notifications.Service
	clock         func() time.Time
}

// NewService builds a waitlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "waitlist repository required")
	}
	if params.Notifications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service required")
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{repo: params.Repo, notifications: params.Notifications, clock: params.Clock}, nil
}

// Join is idempotent; rejoining keeps the original place in the queue. The
// returned position is the buyer's current 1-based rank.
func (s *service) Join(ctx context.Context, productID, buyerID int64) (int, error) {
	if productID <= 0 || buyerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product and buyer ids must be positive")
	}

	if _, err := s.repo.Join(ctx, productID, buyerID, s.clock().UTC()); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "join waitlist")
	}

	position, err := s.repo.Position(ctx, productID, buyerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read waitlist position")
	}
	return position, nil
}

func (s *service) Leave(ctx context.Context, productID, buyerID int64) error {
	if productID <= 0 || buyerID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product and buyer ids must be positive")
	}

	removed, err := s.repo.Leave(ctx, productID, buyerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "leave waitlist")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "buyer is not on the waitlist")
	}
	return nil
}

func (s *service) Position(ctx context.Context, productID, buyerID int64) (int, error) {
	if productID <= 0 || buyerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "product and buyer ids must be positive")
	}

	position, err := s.repo.Position(ctx, productID, buyerID)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "buyer is not on the waitlist")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read waitlist position")
	}
	return position, nil
}

func (s *service) ListBuyers(ctx context.Context, productID int64) ([]QueueEntry, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}

	entries, err := s.repo.ListBuyers(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list waitlist")
	}

	queue := make([]QueueEntry, len(entries))
	for i, entry := range entries {
		queue[i] = QueueEntry{WaitlistEntry: entry, Position: i + 1}
	}
	return queue, nil
}

func (s *service) ListProducts(ctx context.Context, buyerID int64) ([]models.WaitlistEntry, error) {
	if buyerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id must be positive")
	}
	entries, err := s.repo.ListProducts(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list waited products")
	}
	return entries, nil
}

// AnnounceRestock notifies every queued buyer that the product is available
// again. The queue is left intact; buyers leave on their own.
func (s *service) AnnounceRestock(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}

	entries, err := s.repo.ListBuyers(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list waitlist")
	}

	for _, entry := range entries {
		id := entry.ProductID
		if _, err := s.notifications.Push(ctx, notifications.PushParams{
			RecipientID: entry.BuyerID,
			Category:    enums.NotificationCategoryProductAvailable,
			ProductID:   &id,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify waitlisted buyer")
		}
	}
	return nil
}
