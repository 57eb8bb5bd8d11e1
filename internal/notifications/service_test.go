package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adrianfloca/marketforge-backend/pkg/db/models"
	"github.com/adrianfloca/marketforge-backend/pkg/enums"
	pkgerrors "github.com/adrianfloca/marketforge-backend/pkg/errors"
	paginationpkg "github.com/adrianfloca/marketforge-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn      func(ctx context.Context, notification *models.Notification) error
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error)
	markReadFn    func(ctx context.Context, recipientID, notificationID int64) (notificationMarkResult, error)
	markAllReadFn func(ctx context.Context, recipientID int64) (int64, error)
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, recipientID, notificationID int64) (notificationMarkResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, recipientID, notificationID)
	}
	return notificationMarkResult{}, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, recipientID)
	}
	return 0, nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func int64Ptr(v int64) *int64 { return &v }

func TestPushValidatesCategoryRefs(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})

	_, err := svc.Push(context.Background(), PushParams{
		RecipientID: 1,
		Category:    enums.NotificationCategoryContractRenewal,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing contract ref, got %v", err)
	}

	_, err = svc.Push(context.Background(), PushParams{
		RecipientID: 1,
		Category:    enums.NotificationCategoryContractRenewal,
		ContractID:  int64Ptr(9),
	})
	if err != nil {
		t.Fatalf("expected push to succeed, got %v", err)
	}
}

func TestPushNewFollowerNeedsNoRefs(t *testing.T) {
	var created *models.Notification
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			notification.ID = 4
			created = notification
			return nil
		},
	}
	svc := newServiceWithRepo(repo)

	_, err := svc.Push(context.Background(), PushParams{
		RecipientID: 8,
		Category:    enums.NotificationCategoryNewFollower,
	})
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if created.RecipientID != 8 {
		t.Fatalf("unexpected recipient %d", created.RecipientID)
	}
}

func TestPushRejectsUnknownCategory(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.Push(context.Background(), PushParams{
		RecipientID: 1,
		Category:    enums.NotificationCategory("carrier_pigeon"),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListNotifications(t *testing.T) {
	first := models.Notification{ID: 1, CreatedAt: time.Now().Add(-time.Hour)}
	second := models.Notification{ID: 2, CreatedAt: time.Now()}

	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, *paginationpkg.Cursor, error) {
			return []models.Notification{first}, &paginationpkg.Cursor{CreatedAt: second.CreatedAt, ID: second.ID}, nil
		},
	}
	svc := newServiceWithRepo(repo)

	result, err := svc.List(context.Background(), ListParams{RecipientID: 1, Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("invalid cursor %q: %v", result.Cursor, err)
	}
	if decoded.ID != second.ID {
		t.Fatalf("expected cursor id %d got %d", second.ID, decoded.ID)
	}
}

func TestListNotificationsInvalidCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{})
	_, err := svc.List(context.Background(), ListParams{RecipientID: 1, Cursor: "bad"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, recipientID, notificationID int64) (notificationMarkResult, error) {
			return notificationMarkResult{Found: false}, nil
		},
	}
	svc := newServiceWithRepo(repo)
	if err := svc.MarkRead(context.Background(), 1, 2); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, recipientID int64) (int64, error) {
			return 3, nil
		},
	}
	svc := newServiceWithRepo(repo)
	count, err := svc.MarkAllRead(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected mark all read error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 updated rows, got %d", count)
	}
}

func TestMarkAllReadError(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, recipientID int64) (int64, error) {
			return 0, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(repo)
	if _, err := svc.MarkAllRead(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
}
