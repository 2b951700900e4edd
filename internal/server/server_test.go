package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/service"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

type fakeService struct {
	views     []models.ProductView
	getErr    error
	orderID   uuid.UUID
	createErr error
	category  string
}

func (f *fakeService) GetProducts(ctx context.Context, category string) ([]models.ProductView, error) {
	f.category = category
	return f.views, f.getErr
}

func (f *fakeService) CreateOrder(ctx context.Context, req service.CreateOrderRequest) (uuid.UUID, error) {
	return f.orderID, f.createErr
}

func testHandler(svc OrderService) http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewServer(svc, logger).Handler()
}

func decodeEnvelope(t *testing.T, body io.Reader) response {
	t.Helper()
	var resp response
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestGetProductsEnvelope(t *testing.T) {
	svc := &fakeService{views: []models.ProductView{
		{ID: uuid.New(), Description: "milk", Category: "dairy", Unit: "l", UnitPrice: decimal.RequireFromString("1.10")},
	}}
	rr := httptest.NewRecorder()
	testHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products?category=dairy", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "dairy", svc.category)
	resp := decodeEnvelope(t, rr.Body)
	require.Equal(t, statusSuccess, resp.Status)
	require.Empty(t, resp.ErrorCode)
	require.NotNil(t, resp.Data)
}

func TestGetProductsFailureEnvelope(t *testing.T) {
	svc := &fakeService{getErr: fmt.Errorf("%w: down", service.ErrCatalogUnavailable)}
	rr := httptest.NewRecorder()
	testHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeEnvelope(t, rr.Body)
	require.Equal(t, statusFailed, resp.Status)
	require.Equal(t, codeProductRetrieval, resp.ErrorCode)
}

func orderBody() *strings.Reader {
	return strings.NewReader(`{
		"customerName": "A",
		"customerEmail": "a@example.com",
		"customerPhone": "5551234567",
		"lines": [{"productId": "` + uuid.NewString() + `", "unitPrice": "9.99", "quantity": 1}]
	}`)
}

func TestCreateOrderSuccess(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{orderID: id}
	rr := httptest.NewRecorder()
	testHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", orderBody()))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr.Body)
	require.Equal(t, statusSuccess, resp.Status)
	require.Equal(t, id.String(), resp.Data)
}

func TestCreateOrderValidationListsViolations(t *testing.T) {
	svc := &fakeService{createErr: &service.ValidationError{
		Violations: []string{"CustomerName is required", "CustomerEmail must be a valid email address"},
	}}
	rr := httptest.NewRecorder()
	testHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", orderBody()))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeEnvelope(t, rr.Body)
	require.Equal(t, statusFailed, resp.Status)
	require.Equal(t, codeValidation, resp.ErrorCode)
	violations, ok := resp.Data.([]any)
	require.True(t, ok, "data should list every violated rule")
	require.Len(t, violations, 2)
}

func TestCreateOrderDegradedSuccess(t *testing.T) {
	id := uuid.New()
	svc := &fakeService{
		orderID:   id,
		createErr: fmt.Errorf("%w: broker unreachable", service.ErrConfirmationNotQueued),
	}
	rr := httptest.NewRecorder()
	testHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", orderBody()))

	// order is created even though the confirmation never reached the queue
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decodeEnvelope(t, rr.Body)
	require.Equal(t, statusSuccess, resp.Status)
	require.Equal(t, codeMessageQueue, resp.ErrorCode)
	require.Equal(t, id.String(), resp.Data)
}

func TestCreateOrderPersistenceFailure(t *testing.T) {
	svc := &fakeService{createErr: fmt.Errorf("%w: tx aborted", service.ErrOrderPersistence)}
	rr := httptest.NewRecorder()
	testHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", orderBody()))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeEnvelope(t, rr.Body)
	require.Equal(t, statusFailed, resp.Status)
	require.Equal(t, codeOrderCreation, resp.ErrorCode)
}

func TestCreateOrderMalformedBody(t *testing.T) {
	rr := httptest.NewRecorder()
	testHandler(&fakeService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeEnvelope(t, rr.Body)
	require.Equal(t, codeValidation, resp.ErrorCode)
}

func TestRequestIDEchoed(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	testHandler(&fakeService{}).ServeHTTP(rr, req)

	require.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
}
