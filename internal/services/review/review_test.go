package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/lib/dateutil"
	"github.com/readsphere/readsphere-backend/internal/models"
	"github.com/readsphere/readsphere-backend/internal/storage"
)

type QMock struct{ mock.Mock }

func (m *QMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}
func (m *QMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *QMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *QMock) GetUserByUsernameForUpdate(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *QMock) UpdateUserPoints(ctx context.Context, username string, points int) error {
	return m.Called(ctx, username, points).Error(0)
}
func (m *QMock) UpdateUserProfile(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *QMock) GetPublication(ctx context.Context, id int64) (*models.Publication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Publication), args.Error(1)
}
func (m *QMock) ListPublications(ctx context.Context) ([]*models.Publication, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Publication), args.Error(1)
}
func (m *QMock) ListPublicationsByType(ctx context.Context, t models.PublicationType) ([]*models.Publication, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Publication), args.Error(1)
}
func (m *QMock) ListFeaturedPublications(ctx context.Context) ([]*models.Publication, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Publication), args.Error(1)
}
func (m *QMock) SearchPublications(ctx context.Context, query string) ([]*models.Publication, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Publication), args.Error(1)
}

func (m *QMock) CreateSubscription(ctx context.Context, sub models.UserSubscription) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}
func (m *QMock) GetSubscription(ctx context.Context, id int64) (*models.UserSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}
func (m *QMock) GetSubscriptionForUpdate(ctx context.Context, id int64) (*models.UserSubscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}
func (m *QMock) SubscriptionNumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}
func (m *QMock) MarkSubscriptionCancelled(ctx context.Context, sub models.UserSubscription) error {
	return m.Called(ctx, sub).Error(0)
}
func (m *QMock) ListSubscriptionsByUser(ctx context.Context, userID int64) ([]*models.UserSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSubscription), args.Error(1)
}

func (m *QMock) CreateReview(ctx context.Context, review models.Review) (int64, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(int64), args.Error(1)
}
func (m *QMock) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *QMock) GetReviewForUpdate(ctx context.Context, id int64) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
func (m *QMock) UpdateReviewModeration(ctx context.Context, review models.Review) error {
	return m.Called(ctx, review).Error(0)
}
func (m *QMock) ListReviewsByStatus(ctx context.Context, status models.ReviewStatus) ([]*models.Review, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}
func (m *QMock) ListReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}
func (m *QMock) ListReviewsByPublication(ctx context.Context, publicationID int64) ([]*models.Review, error) {
	args := m.Called(ctx, publicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

// StoreMock прогоняет fn через мок запросов, имитируя транзакцию.
type StoreMock struct {
	mock.Mock
	q *QMock
}

func (m *StoreMock) WithinTx(ctx context.Context, fn func(q storage.Q) error) error {
	m.Called(ctx)
	return fn(m.q)
}
func (m *StoreMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *StoreMock) ListReviewsByStatus(ctx context.Context, status models.ReviewStatus) ([]*models.Review, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}
func (m *StoreMock) ListReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}
func (m *StoreMock) ListReviewsByPublication(ctx context.Context, publicationID int64) ([]*models.Review, error) {
	args := m.Called(ctx, publicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

type LedgerMock struct{ mock.Mock }

func (m *LedgerMock) Credit(ctx context.Context, q storage.UserQueries, username string, amount int) (int, error) {
	args := m.Called(ctx, username, amount)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(q *QMock, ledger *LedgerMock) (*ReviewService, *StoreMock) {
	store := &StoreMock{q: q}
	return NewReviewService(store, ledger, nil, newNoopLogger()), store
}

// validContent — 50 слов и 5 предложений, минимально проходной текст.
func validContent() string {
	sentence := strings.TrimSpace(strings.Repeat("word ", 10)) + "."
	return strings.Repeat(sentence+" ", 5)
}

func validRequest() models.ReviewRequest {
	return models.ReviewRequest{
		SubscriptionID:  42,
		IssueNumber:     "2026-08",
		PublicationDate: dateutil.Today().Format("2006-01-02"),
		ArticleName:     "The State of Print",
		AuthorLastName:  "Smith",
		Content:         validContent(),
	}
}

func TestSubmit_Success(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, store := newTestService(q, ledger)

	store.On("WithinTx", mock.Anything).Return(nil).Once()
	q.On("GetUserByUsername", mock.Anything, "reader").
		Return(&models.User{ID: 7, Username: "reader"}, nil).Once()
	q.On("GetSubscription", mock.Anything, int64(42)).
		Return(&models.UserSubscription{ID: 42, UserID: 7, PublicationID: 3}, nil).Once()
	q.On("CreateReview", mock.Anything, mock.MatchedBy(func(r models.Review) bool {
		return r.UserID == 7 &&
			r.SubscriptionID == 42 &&
			r.PublicationID == 3 &&
			r.Status == models.ReviewPending &&
			r.WordCount == 50 &&
			r.SentenceCount == 5 &&
			r.PointsAwarded == 0
	})).Return(int64(11), nil).Once()

	review, err := svc.Submit(context.Background(), "reader", validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(11), review.ID)
	assert.Equal(t, models.ReviewPending, review.Status)
	q.AssertExpectations(t)
}

func TestSubmit_CancelledSubscriptionStillAllowed(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, store := newTestService(q, ledger)

	store.On("WithinTx", mock.Anything).Return(nil).Once()
	q.On("GetUserByUsername", mock.Anything, "reader").
		Return(&models.User{ID: 7, Username: "reader"}, nil).Once()
	q.On("GetSubscription", mock.Anything, int64(42)).
		Return(&models.UserSubscription{ID: 42, UserID: 7, PublicationID: 3, Status: models.SubscriptionCancelled}, nil).Once()
	q.On("CreateReview", mock.Anything, mock.Anything).Return(int64(12), nil).Once()

	_, err := svc.Submit(context.Background(), "reader", validRequest())

	require.NoError(t, err)
}

func TestSubmit_NotOwner(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, store := newTestService(q, ledger)

	store.On("WithinTx", mock.Anything).Return(nil).Once()
	q.On("GetUserByUsername", mock.Anything, "intruder").
		Return(&models.User{ID: 9, Username: "intruder"}, nil).Once()
	q.On("GetSubscription", mock.Anything, int64(42)).
		Return(&models.UserSubscription{ID: 42, UserID: 7}, nil).Once()

	_, err := svc.Submit(context.Background(), "intruder", validRequest())

	var ua *apperr.UnauthorizedError
	require.ErrorAs(t, err, &ua)
	q.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
}

func TestSubmit_WindowRules(t *testing.T) {
	tests := []struct {
		name    string
		daysAgo int
		wantErr bool
	}{
		{name: "today", daysAgo: 0},
		{name: "exactly 30 days is allowed", daysAgo: 30},
		{name: "31 days is expired", daysAgo: 31, wantErr: true},
		{name: "future issue date is allowed", daysAgo: -14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(QMock)
			ledger := new(LedgerMock)
			svc, store := newTestService(q, ledger)

			store.On("WithinTx", mock.Anything).Return(nil).Once()
			q.On("GetUserByUsername", mock.Anything, "reader").
				Return(&models.User{ID: 7, Username: "reader"}, nil).Once()
			q.On("GetSubscription", mock.Anything, int64(42)).
				Return(&models.UserSubscription{ID: 42, UserID: 7, PublicationID: 3}, nil).Once()
			if !tt.wantErr {
				q.On("CreateReview", mock.Anything, mock.Anything).Return(int64(13), nil).Once()
			}

			req := validRequest()
			req.PublicationDate = dateutil.Today().AddDate(0, 0, -tt.daysAgo).Format("2006-01-02")

			_, err := svc.Submit(context.Background(), "reader", req)

			if tt.wantErr {
				var ve *apperr.ValidationError
				require.ErrorAs(t, err, &ve)
				q.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSubmit_ContentRules(t *testing.T) {
	fortyNineWords := strings.TrimSpace(strings.Repeat("word. ", 49))
	fourSentences := strings.Repeat(strings.TrimSpace(strings.Repeat("word ", 13))+". ", 4)

	tests := []struct {
		name    string
		content string
	}{
		{name: "49 words rejected", content: fortyNineWords},
		{name: "4 sentences rejected", content: fourSentences},
		{name: "punctuation only rejected", content: strings.Repeat(". ", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(QMock)
			ledger := new(LedgerMock)
			svc, store := newTestService(q, ledger)

			store.On("WithinTx", mock.Anything).Return(nil).Once()
			q.On("GetUserByUsername", mock.Anything, "reader").
				Return(&models.User{ID: 7, Username: "reader"}, nil).Once()
			q.On("GetSubscription", mock.Anything, int64(42)).
				Return(&models.UserSubscription{ID: 42, UserID: 7, PublicationID: 3}, nil).Once()

			req := validRequest()
			req.Content = tt.content

			_, err := svc.Submit(context.Background(), "reader", req)

			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			q.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_InvalidDate(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, _ := newTestService(q, ledger)

	req := validRequest()
	req.PublicationDate = "15-08-2026"

	_, err := svc.Submit(context.Background(), "reader", req)

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestApprove_AwardsPoints(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, store := newTestService(q, ledger)

	store.On("WithinTx", mock.Anything).Return(nil).Once()
	q.On("GetReviewForUpdate", mock.Anything, int64(11)).
		Return(&models.Review{ID: 11, UserID: 7, Status: models.ReviewPending}, nil).Once()
	q.On("GetUserByID", mock.Anything, int64(7)).
		Return(&models.User{ID: 7, Username: "reader"}, nil).Once()
	q.On("UpdateReviewModeration", mock.Anything, mock.MatchedBy(func(r models.Review) bool {
		return r.Status == models.ReviewApproved && r.PointsAwarded == 200
	})).Return(nil).Once()
	ledger.On("Credit", mock.Anything, "reader", 200).Return(200, nil).Once()

	review, err := svc.Approve(context.Background(), 11)

	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, review.Status)
	assert.Equal(t, 200, review.PointsAwarded)
	q.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestApprove_AlreadyModerated(t *testing.T) {
	for _, status := range []models.ReviewStatus{models.ReviewApproved, models.ReviewRejected} {
		t.Run(string(status), func(t *testing.T) {
			q := new(QMock)
			ledger := new(LedgerMock)
			svc, store := newTestService(q, ledger)

			store.On("WithinTx", mock.Anything).Return(nil).Once()
			q.On("GetReviewForUpdate", mock.Anything, int64(11)).
				Return(&models.Review{ID: 11, UserID: 7, Status: status}, nil).Once()

			_, err := svc.Approve(context.Background(), 11)

			var is *apperr.InvalidStateError
			require.ErrorAs(t, err, &is)
			ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestApprove_CreditFailureRollsBack(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, store := newTestService(q, ledger)

	store.On("WithinTx", mock.Anything).Return(nil).Once()
	q.On("GetReviewForUpdate", mock.Anything, int64(11)).
		Return(&models.Review{ID: 11, UserID: 7, Status: models.ReviewPending}, nil).Once()
	q.On("GetUserByID", mock.Anything, int64(7)).
		Return(&models.User{ID: 7, Username: "reader"}, nil).Once()
	q.On("UpdateReviewModeration", mock.Anything, mock.Anything).Return(nil).Once()
	ledger.On("Credit", mock.Anything, "reader", 200).
		Return(0, fmt.Errorf("storage unavailable")).Once()

	_, err := svc.Approve(context.Background(), 11)

	require.Error(t, err)
}

func TestReject_KeepsPointsUntouched(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, store := newTestService(q, ledger)

	store.On("WithinTx", mock.Anything).Return(nil).Once()
	q.On("GetReviewForUpdate", mock.Anything, int64(11)).
		Return(&models.Review{ID: 11, UserID: 7, Status: models.ReviewPending}, nil).Once()
	q.On("GetUserByID", mock.Anything, int64(7)).
		Return(&models.User{ID: 7, Username: "reader"}, nil).Once()
	q.On("UpdateReviewModeration", mock.Anything, mock.MatchedBy(func(r models.Review) bool {
		return r.Status == models.ReviewRejected &&
			r.PointsAwarded == 0 &&
			r.RejectionReason == "too shallow"
	})).Return(nil).Once()

	review, err := svc.Reject(context.Background(), 11, "too shallow")

	require.NoError(t, err)
	assert.Equal(t, models.ReviewRejected, review.Status)
	ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
}

func TestListByStatus_UnknownStatus(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, _ := newTestService(q, ledger)

	_, err := svc.ListByStatus(context.Background(), "DELETED")

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestListByStatus(t *testing.T) {
	q := new(QMock)
	ledger := new(LedgerMock)
	svc, store := newTestService(q, ledger)

	reviews := []*models.Review{{ID: 1, Status: models.ReviewPending}}
	store.On("ListReviewsByStatus", mock.Anything, models.ReviewPending).Return(reviews, nil).Once()

	got, err := svc.ListByStatus(context.Background(), models.ReviewPending)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}
