package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/readsphere/readsphere-backend/internal/apperr"
	"github.com/readsphere/readsphere-backend/internal/http/middlewarectx"
	"github.com/readsphere/readsphere-backend/internal/models"
)

// MockService реализует интерфейс purchase.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Purchase(ctx context.Context, username string, req models.PurchaseRequest) (*models.UserSubscription, error) {
	args := m.Called(ctx, username, req)
	if res := args.Get(0); res != nil {
		return res.(*models.UserSubscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPurchaseHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		username       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешная покупка картой",
			body:     `{"publication_id":1,"payment_method":"card"}`,
			username: "reader",
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "reader", models.PurchaseRequest{
					PublicationID: 1,
					PaymentMethod: "card",
				}).Return(&models.UserSubscription{
					ID:                 42,
					SubscriptionNumber: "SUB-1A2B3C4D",
					Status:             models.SubscriptionActive,
					PointsAwarded:      1899,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription_number":"SUB-1A2B3C4D"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{invalid`,
			username:       "reader",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "неизвестный способ оплаты",
			body:           `{"publication_id":1,"payment_method":"crypto"}`,
			username:       "reader",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"publication_id":1,"payment_method":"card"}`,
			username:       "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:     "недостаточно баллов",
			body:     `{"publication_id":1,"payment_method":"points","points_to_use":2999}`,
			username: "reader",
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "reader", mock.Anything).
					Return(nil, apperr.InsufficientPoints(2999, 100))
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `insufficient points`,
		},
		{
			name:     "издание не найдено",
			body:     `{"publication_id":99,"payment_method":"card"}`,
			username: "reader",
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "reader", mock.Anything).
					Return(nil, apperr.NotFound("publication", int64(99)))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `publication 99 not found`,
		},
		{
			name:     "исчерпан бюджет повторов номера",
			body:     `{"publication_id":1,"payment_method":"card"}`,
			username: "reader",
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "reader", mock.Anything).
					Return(nil, apperr.Conflict("subscription number generation exhausted retry budget"))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:     "ошибка хранилища",
			body:     `{"publication_id":1,"payment_method":"card"}`,
			username: "reader",
			setupMock: func(m *MockService) {
				m.On("Purchase", mock.Anything, "reader", mock.Anything).
					Return(nil, errors.New("connection lost"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"internal error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(tt.body))
			if tt.username != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.User, tt.username))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
