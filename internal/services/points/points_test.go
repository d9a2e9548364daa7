package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/models"
)

type UserQueriesMock struct{ mock.Mock }

func (m *UserQueriesMock) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}
func (m *UserQueriesMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserQueriesMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserQueriesMock) GetUserByUsernameForUpdate(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserQueriesMock) UpdateUserPoints(ctx context.Context, username string, points int) error {
	return m.Called(ctx, username, points).Error(0)
}
func (m *UserQueriesMock) UpdateUserProfile(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRewardPoints(t *testing.T) {
	tests := []struct {
		name    string
		payable float64
		pubType models.PublicationType
		want    int
	}{
		{name: "magazine 10 percent", payable: 189.99, pubType: models.PublicationMagazine, want: 1899},
		{name: "newspaper 20 percent", payable: 38.99, pubType: models.PublicationNewspaper, want: 779},
		{name: "truncates fraction", payable: 29.99, pubType: models.PublicationMagazine, want: 299},
		{name: "zero price", payable: 0, pubType: models.PublicationMagazine, want: 0},
		{name: "negative payable clamps to zero", payable: -10, pubType: models.PublicationNewspaper, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewardPoints(tt.payable, tt.pubType))
		})
	}
}

func TestLedger_Credit(t *testing.T) {
	q := new(UserQueriesMock)
	q.On("GetUserByUsernameForUpdate", mock.Anything, "reader").
		Return(&models.User{Username: "reader", Points: 100}, nil).Once()
	q.On("UpdateUserPoints", mock.Anything, "reader", 350).Return(nil).Once()

	ledger := NewLedger(newNoopLogger())
	balance, err := ledger.Credit(context.Background(), q, "reader", 250)

	require.NoError(t, err)
	assert.Equal(t, 350, balance)
	q.AssertExpectations(t)
}

func TestLedger_Credit_NegativeAmount(t *testing.T) {
	q := new(UserQueriesMock)
	ledger := NewLedger(newNoopLogger())

	_, err := ledger.Credit(context.Background(), q, "reader", -5)

	assert.Error(t, err)
	q.AssertNotCalled(t, "UpdateUserPoints", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_Debit(t *testing.T) {
	tests := []struct {
		name        string
		balance     int
		amount      int
		wantBalance int
		wantErr     bool
	}{
		{name: "success debit", balance: 500, amount: 200, wantBalance: 300},
		{name: "debit to zero", balance: 200, amount: 200, wantBalance: 0},
		{name: "insufficient points", balance: 100, amount: 200, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(UserQueriesMock)
			q.On("GetUserByUsernameForUpdate", mock.Anything, "reader").
				Return(&models.User{Username: "reader", Points: tt.balance}, nil).Once()
			if !tt.wantErr {
				q.On("UpdateUserPoints", mock.Anything, "reader", tt.wantBalance).Return(nil).Once()
			}

			ledger := NewLedger(newNoopLogger())
			balance, err := ledger.Debit(context.Background(), q, "reader", tt.amount)

			if tt.wantErr {
				var ip *apperr.InsufficientPointsError
				require.ErrorAs(t, err, &ip)
				assert.Equal(t, tt.amount, ip.Required)
				assert.Equal(t, tt.balance, ip.Available)
				q.AssertNotCalled(t, "UpdateUserPoints", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
			q.AssertExpectations(t)
		})
	}
}

func TestLedger_Clawback(t *testing.T) {
	tests := []struct {
		name        string
		balance     int
		amount      int
		wantBalance int
	}{
		{name: "full clawback", balance: 500, amount: 200, wantBalance: 300},
		{name: "clamped when points already spent", balance: 50, amount: 200, wantBalance: 0},
		{name: "zero balance stays zero", balance: 0, amount: 200, wantBalance: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(UserQueriesMock)
			q.On("GetUserByUsernameForUpdate", mock.Anything, "reader").
				Return(&models.User{Username: "reader", Points: tt.balance}, nil).Once()
			q.On("UpdateUserPoints", mock.Anything, "reader", tt.wantBalance).Return(nil).Once()

			ledger := NewLedger(newNoopLogger())
			balance, err := ledger.Clawback(context.Background(), q, "reader", tt.amount)

			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
			q.AssertExpectations(t)
		})
	}
}

func TestLedger_Debit_StorageError(t *testing.T) {
	q := new(UserQueriesMock)
	q.On("GetUserByUsernameForUpdate", mock.Anything, "reader").
		Return(nil, errors.New("connection lost")).Once()

	ledger := NewLedger(newNoopLogger())
	_, err := ledger.Debit(context.Background(), q, "reader", 10)

	assert.Error(t, err)
	assert.False(t, apperr.IsDomain(err))
}
