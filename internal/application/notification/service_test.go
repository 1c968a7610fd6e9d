package notification

import (
	"context"
	"testing"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFeedStore struct{ mock.Mock }

func (m *mockFeedStore) List(ctx context.Context, schoolID, userID uint, f domain.FeedFilter) ([]domain.FeedItem, int64, error) {
	args := m.Called(ctx, schoolID, userID, f)
	items, _ := args.Get(0).([]domain.FeedItem)
	return items, args.Get(1).(int64), args.Error(2)
}
func (m *mockFeedStore) Get(ctx context.Context, schoolID, userID, id uint) (*domain.FeedItem, error) {
	args := m.Called(ctx, schoolID, userID, id)
	if n, _ := args.Get(0).(*domain.FeedItem); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockFeedStore) MarkRead(ctx context.Context, schoolID, userID, id uint, at time.Time) (int64, error) {
	args := m.Called(ctx, schoolID, userID, id, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockFeedStore) MarkAllRead(ctx context.Context, schoolID, userID uint, at time.Time) (int64, error) {
	args := m.Called(ctx, schoolID, userID, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockFeedStore) CountUnread(ctx context.Context, schoolID, userID uint) (int64, error) {
	args := m.Called(ctx, schoolID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func caller() domain.Caller {
	sid := uint(5)
	return domain.Caller{UserID: 11, SchoolID: &sid, Role: domain.RoleTeacher}
}

func uintPtr(v uint) *uint { return &v }

func TestMarkRead_RequiresExactlyOneShape(t *testing.T) {
	repo := &mockFeedStore{}
	svc := NewService(repo)

	_, err := svc.MarkRead(context.Background(), caller(), domain.MarkReadRequest{})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.MarkRead(context.Background(), caller(), domain.MarkReadRequest{NotificationID: uintPtr(1), All: true})
	require.ErrorIs(t, err, domain.ErrValidation)

	repo.AssertNotCalled(t, "MarkAllRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_AllReportsAffectedRows(t *testing.T) {
	repo := &mockFeedStore{}
	repo.On("MarkAllRead", mock.Anything, uint(5), uint(11), mock.AnythingOfType("time.Time")).Return(int64(4), nil).Once()
	repo.On("MarkAllRead", mock.Anything, uint(5), uint(11), mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
	svc := NewService(repo)

	res, err := svc.MarkRead(context.Background(), caller(), domain.MarkReadRequest{All: true})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Updated)

	res, err = svc.MarkRead(context.Background(), caller(), domain.MarkReadRequest{All: true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Updated)
}

func TestMarkRead_ForeignItemNotFound(t *testing.T) {
	repo := &mockFeedStore{}
	repo.On("Get", mock.Anything, uint(5), uint(11), uint(77)).Return(nil, domain.ErrNotFound)

	_, err := NewService(repo).MarkRead(context.Background(), caller(), domain.MarkReadRequest{NotificationID: uintPtr(77)})

	require.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_AlreadyReadIsNoop(t *testing.T) {
	repo := &mockFeedStore{}
	repo.On("Get", mock.Anything, uint(5), uint(11), uint(3)).Return(&domain.FeedItem{ID: 3, IsRead: true}, nil)

	res, err := NewService(repo).MarkRead(context.Background(), caller(), domain.MarkReadRequest{NotificationID: uintPtr(3)})

	require.NoError(t, err)
	assert.Zero(t, res.Updated)
	repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRead_Unread(t *testing.T) {
	repo := &mockFeedStore{}
	repo.On("Get", mock.Anything, uint(5), uint(11), uint(3)).Return(&domain.FeedItem{ID: 3}, nil)
	repo.On("MarkRead", mock.Anything, uint(5), uint(11), uint(3), mock.AnythingOfType("time.Time")).Return(int64(1), nil)

	res, err := NewService(repo).MarkRead(context.Background(), caller(), domain.MarkReadRequest{NotificationID: uintPtr(3)})

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Updated)
}

func TestList_NormalizesPagination(t *testing.T) {
	repo := &mockFeedStore{}
	read := false
	repo.On("List", mock.Anything, uint(5), uint(11), mock.MatchedBy(func(f domain.FeedFilter) bool {
		return f.Page == 1 && f.Limit == domain.MaxPageSize && f.Search == "exam" && f.IsRead != nil && !*f.IsRead
	})).Return([]domain.FeedItem{{ID: 1}}, int64(31), nil)

	page, err := NewService(repo).List(context.Background(), caller(), domain.FeedFilter{
		IsRead:     &read,
		Search:     "  exam ",
		Pagination: domain.Pagination{Page: 0, Limit: 500},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(31), page.Total)
	assert.Equal(t, domain.MaxPageSize, page.Limit)
}
