package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/internal/notifications"
	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	"gorm.io/gorm"
)

type fakeRepository struct {
	joinFn       func(ctx context.Context, productID, buyerID int64, at time.Time) (bool, error)
	leaveFn      func(ctx context.Context, productID, buyerID int64) (bool, error)
	positionFn   func(ctx context.Context, productID, buyerID int64) (int, error)
	listBuyersFn func(ctx context.Context, productID int64) ([]models.WaitlistEntry, error)
}

func (f *fakeRepository) Join(ctx context.Context, productID, buyerID int64, at time.Time) (bool, error) {
	if f.joinFn != nil {
		return f.joinFn(ctx, productID, buyerID, at)
	}
	return true, nil
}

func (f *fakeRepository) Leave(ctx context.Context, productID, buyerID int64) (bool, error) {
	if f.leaveFn != nil {
		return f.leaveFn(ctx, productID, buyerID)
	}
	return false, nil
}

func (f *fakeRepository) Position(ctx context.Context, productID, buyerID int64) (int, error) {
	if f.positionFn != nil {
		return f.positionFn(ctx, productID, buyerID)
	}
	return 0, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListBuyers(ctx context.Context, productID int64) ([]models.WaitlistEntry, error) {
	if f.listBuyersFn != nil {
		return f.listBuyersFn(ctx, productID)
	}
	return nil, nil
}

func (f *fakeRepository) ListProducts(ctx context.Context, buyerID int64) ([]models.WaitlistEntry, error) {
	return nil, nil
}

type fakeNotifications struct {
	pushed []notifications.PushParams
}

func (f *fakeNotifications) Push(ctx context.Context, params notifications.PushParams) (*models.Notification, error) {
	f.pushed = append(f.pushed, params)
	return &models.Notification{}, nil
}

func (f *fakeNotifications) List(ctx context.Context, params notifications.ListParams) (*notifications.ListResult, error) {
	return &notifications.ListResult{}, nil
}

func (f *fakeNotifications) MarkRead(ctx context.Context, recipientID, notificationID int64) error {
	return nil
}

func (f *fakeNotifications) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return 0, nil
}

func newTestService(t *testing.T, repo Repository, notifs notifications.Service) Service {
	t.Helper()
	if notifs == nil {
		notifs = &fakeNotifications{}
	}
	svc, err := NewService(ServiceParams{
		Repo:          repo,
		Notifications: notifs,
		Clock:         func() time.Time { return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestJoinReturnsPosition(t *testing.T) {
	repo := &fakeRepository{
		positionFn: func(ctx context.Context, productID, buyerID int64) (int, error) {
			return 3, nil
		},
	}
	svc := newTestService(t, repo, nil)

	position, err := svc.Join(context.Background(), 11, 7)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if position != 3 {
		t.Fatalf("expected position 3, got %d", position)
	}
}

func TestJoinIdempotentKeepsPosition(t *testing.T) {
	repo := &fakeRepository{
		joinFn: func(ctx context.Context, productID, buyerID int64, at time.Time) (bool, error) {
			return false, nil
		},
		positionFn: func(ctx context.Context, productID, buyerID int64) (int, error) {
			return 1, nil
		},
	}
	svc := newTestService(t, repo, nil)

	position, err := svc.Join(context.Background(), 11, 7)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if position != 1 {
		t.Fatalf("expected original position 1, got %d", position)
	}
}

func TestLeaveNotQueued(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)
	err := svc.Leave(context.Background(), 11, 7)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPositionNotQueued(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, nil)
	_, err := svc.Position(context.Background(), 11, 7)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListBuyersNumbersQueue(t *testing.T) {
	repo := &fakeRepository{
		listBuyersFn: func(ctx context.Context, productID int64) ([]models.WaitlistEntry, error) {
			return []models.WaitlistEntry{
				{ID: 1, ProductID: productID, BuyerID: 7},
				{ID: 2, ProductID: productID, BuyerID: 9},
				{ID: 3, ProductID: productID, BuyerID: 4},
			}, nil
		},
	}
	svc := newTestService(t, repo, nil)

	queue, err := svc.ListBuyers(context.Background(), 11)
	if err != nil {
		t.Fatalf("ListBuyers: %v", err)
	}
	if len(queue) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(queue))
	}
	for i, entry := range queue {
		if entry.Position != i+1 {
			t.Fatalf("expected position %d, got %d", i+1, entry.Position)
		}
	}
}

func TestAnnounceRestockNotifiesEveryBuyer(t *testing.T) {
	repo := &fakeRepository{
		listBuyersFn: func(ctx context.Context, productID int64) ([]models.WaitlistEntry, error) {
			return []models.WaitlistEntry{
				{ID: 1, ProductID: productID, BuyerID: 7},
				{ID: 2, ProductID: productID, BuyerID: 9},
			}, nil
		},
	}
	notifs := &fakeNotifications{}
	svc := newTestService(t, repo, notifs)

	if err := svc.AnnounceRestock(context.Background(), 11); err != nil {
		t.Fatalf("AnnounceRestock: %v", err)
	}
	if len(notifs.pushed) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifs.pushed))
	}
	for _, push := range notifs.pushed {
		if push.Category != enums.NotificationCategoryProductAvailable {
			t.Fatalf("unexpected category %q", push.Category)
		}
		if push.ProductID == nil || *push.ProductID != 11 {
			t.Fatalf("expected product reference 11, got %v", push.ProductID)
		}
	}
}
