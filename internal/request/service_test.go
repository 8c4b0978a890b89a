package request

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/outsourcebot/internal/model"
)

// --- モック ---

type mockRequestRepo struct {
	createFn     func(ctx context.Context, userID int64, text string, optionID *int64) (int64, error)
	listFn       func(ctx context.Context) ([]*model.Request, error)
	deleteByIDFn func(ctx context.Context, id int64) (int64, error)
	deleteAllFn  func(ctx context.Context) (int64, error)
}

func (m *mockRequestRepo) Create(ctx context.Context, userID int64, text string, optionID *int64) (int64, error) {
	return m.createFn(ctx, userID, text, optionID)
}
func (m *mockRequestRepo) FindByID(ctx context.Context, id int64) (*model.Request, error) {
	return nil, nil
}
func (m *mockRequestRepo) List(ctx context.Context) ([]*model.Request, error) {
	return m.listFn(ctx)
}
func (m *mockRequestRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	return m.deleteByIDFn(ctx, id)
}
func (m *mockRequestRepo) DeleteAll(ctx context.Context) (int64, error) {
	return m.deleteAllFn(ctx)
}
func (m *mockRequestRepo) DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	return 0, nil
}

// --- テスト ---

func TestCreate_ReturnsAssignedID(t *testing.T) {
	repo := &mockRequestRepo{
		createFn: func(ctx context.Context, userID int64, text string, optionID *int64) (int64, error) {
			if userID != 42 || text != "I need a landing page by June" || optionID != nil {
				t.Errorf("Create(%d, %q, %v)", userID, text, optionID)
			}
			return 17, nil
		},
	}

	id, err := NewService(repo).Create(context.Background(), 42, "I need a landing page by June", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 17 {
		t.Errorf("id = %d, want 17", id)
	}
}

func TestCreate_StoreUnavailable_PropagatesWithoutRetry(t *testing.T) {
	calls := 0
	dbErr := errors.New("connection refused")
	repo := &mockRequestRepo{
		createFn: func(ctx context.Context, userID int64, text string, optionID *int64) (int64, error) {
			calls++
			return 0, dbErr
		},
	}

	_, err := NewService(repo).Create(context.Background(), 1, "x", nil)
	if !errors.Is(err, dbErr) {
		t.Errorf("err = %v, want %v", err, dbErr)
	}
	if calls != 1 {
		t.Errorf("Create called %d times, want 1 (no retry)", calls)
	}
}

func TestDelete_ReportsWhetherRowWasRemoved(t *testing.T) {
	repo := &mockRequestRepo{
		deleteByIDFn: func(ctx context.Context, id int64) (int64, error) {
			if id == 5 {
				return 1, nil
			}
			return 0, nil
		},
	}
	svc := NewService(repo)

	deleted, err := svc.Delete(context.Background(), 5)
	if err != nil || !deleted {
		t.Errorf("Delete(5) = %v, %v; want true, nil", deleted, err)
	}

	deleted, err = svc.Delete(context.Background(), 9999)
	if err != nil || deleted {
		t.Errorf("Delete(9999) = %v, %v; want false, nil", deleted, err)
	}
}

func TestClear_ReturnsDeletedCount(t *testing.T) {
	repo := &mockRequestRepo{
		deleteAllFn: func(ctx context.Context) (int64, error) { return 3, nil },
	}

	n, err := NewService(repo).Clear(context.Background())
	if err != nil || n != 3 {
		t.Errorf("Clear = %d, %v; want 3, nil", n, err)
	}
}

func TestList_PassesThroughOrder(t *testing.T) {
	repo := &mockRequestRepo{
		listFn: func(ctx context.Context) ([]*model.Request, error) {
			return []*model.Request{{ID: 2}, {ID: 1}}, nil
		},
	}

	list, err := NewService(repo).List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 || list[0].ID != 2 {
		t.Errorf("List = %+v", list)
	}
}
