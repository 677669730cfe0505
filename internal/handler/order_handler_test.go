package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"loomcart/internal/middleware"
	"loomcart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func requestAs(req *http.Request, role string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), middleware.Principal{
		UserID: uuid.New(),
		Role:   role,
	}))
}

func TestOrderHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	orderID := uuid.New()
	testOrder := &model.OrderResponse{
		Order: model.Order{
			ID:             orderID,
			Name:           "Asha Rao",
			AmountPaise:    259800,
			PaymentStatus:  model.PaymentStatusPaid,
			DeliveryStatus: model.DeliveryStatusProcessing,
		},
		Items: []model.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New().String(), Name: "Kurta", PricePaise: 129900, Quantity: 2},
		},
	}

	tests := []struct {
		name           string
		path           string
		mockReturn     *model.OrderResponse
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			path:           "/api/orders/" + orderID.String(),
			mockReturn:     testOrder,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Not found",
			path:           "/api/orders/" + uuid.New().String(),
			mockReturn:     nil,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Malformed ID",
			path:           "/api/orders/not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing ID",
			path:           "/api/orders/",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()

			handler.GetByID(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.mockReturn != nil {
				var resp model.OrderResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, orderID, resp.ID)
				assert.Len(t, resp.Items, 1)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	logger := zerolog.Nop()

	orders := []model.Order{
		{ID: uuid.New(), Name: "Asha Rao", Email: "asha@example.com", AmountPaise: 259800},
	}

	t.Run("Admin sees all orders", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("List", mock.Anything, "").Return(orders, nil)

		handler := NewOrderHandler(mockService, logger)

		req := requestAs(httptest.NewRequest(http.MethodGet, "/api/orders", nil), model.RoleAdmin)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Storefront user filters by email", func(t *testing.T) {
		mockService := new(MockOrderService)
		mockService.On("List", mock.Anything, "asha@example.com").Return(orders, nil)

		handler := NewOrderHandler(mockService, logger)

		req := requestAs(httptest.NewRequest(http.MethodGet, "/api/orders?email=asha@example.com", nil), model.RoleUser)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Storefront user without email filter is rejected", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		req := requestAs(httptest.NewRequest(http.MethodGet, "/api/orders", nil), model.RoleUser)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mockService.AssertNotCalled(t, "List")
	})

	t.Run("No principal is unauthorised", func(t *testing.T) {
		mockService := new(MockOrderService)
		handler := NewOrderHandler(mockService, logger)

		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()

	orderID := uuid.New()
	updated := &model.Order{ID: orderID, DeliveryStatus: model.DeliveryStatusShipping}

	tests := []struct {
		name           string
		path           string
		body           interface{}
		mockReturn     *model.Order
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			path:           "/api/orders/" + orderID.String() + "/status",
			body:           model.StatusUpdateRequest{Status: model.DeliveryStatusShipping},
			mockReturn:     updated,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid status value",
			path:           "/api/orders/" + orderID.String() + "/status",
			body:           model.StatusUpdateRequest{Status: "Teleported"},
			mockError:      model.ErrInvalidStatus,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
		{
			name:           "Unknown order",
			path:           "/api/orders/" + uuid.New().String() + "/status",
			body:           model.StatusUpdateRequest{Status: model.DeliveryStatusDelivered},
			mockError:      model.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Malformed ID",
			path:           "/api/orders/nope/status",
			body:           model.StatusUpdateRequest{Status: model.DeliveryStatusShipping},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			handler := NewOrderHandler(mockService, logger)

			if tt.expectService {
				mockService.On("UpdateDeliveryStatus", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("string")).
					Return(tt.mockReturn, tt.mockError)
			}

			payload, err := json.Marshal(tt.body)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPut, tt.path, bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.UpdateStatus(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}
