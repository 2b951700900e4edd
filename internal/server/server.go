package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/service"
	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

// OrderService is the command/query surface the HTTP layer exposes.
type OrderService interface {
	GetProducts(ctx context.Context, category string) ([]models.ProductView, error)
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (uuid.UUID, error)
}

type Server struct {
	svc    OrderService
	logger *slog.Logger
}

func NewServer(svc OrderService, logger *slog.Logger) *Server {
	return &Server{svc: svc, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", s.handleGetProducts)
	mux.HandleFunc("POST /api/orders", s.handleCreateOrder)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return chainMiddlewares(otelhttp.NewHandler(mux, "http.server"), s.logger)
}

func (s *Server) handleGetProducts(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	views, err := s.svc.GetProducts(r.Context(), category)
	if err != nil {
		s.logger.Error("get products", "err", err, "category", category)
		writeJSON(w, http.StatusInternalServerError,
			failure("An error occurred while retrieving products", codeProductRetrieval, nil))
		return
	}
	writeJSON(w, http.StatusOK, success(views, "Products retrieved successfully"))
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest,
			failure("Request body is not valid JSON", codeValidation, nil))
		return
	}

	id, err := s.svc.CreateOrder(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, success(id, "Order created successfully"))
	case errors.Is(err, service.ErrValidation):
		var verr *service.ValidationError
		var details any
		if errors.As(err, &verr) {
			details = verr.Violations
		}
		writeJSON(w, http.StatusBadRequest,
			failure("Order request failed validation", codeValidation, details))
	case errors.Is(err, service.ErrConfirmationNotQueued):
		// the order is durably created; only the confirmation enqueue
		// failed, so the request still succeeds, flagged with the
		// queue error code
		s.logger.Error("degraded order creation", "err", err, "order_id", id)
		resp := success(id, "Order created; confirmation email is delayed")
		resp.ErrorCode = codeMessageQueue
		writeJSON(w, http.StatusOK, resp)
	default:
		s.logger.Error("create order", "err", err)
		writeJSON(w, http.StatusInternalServerError,
			failure("An error occurred while processing your order", codeOrderCreation, nil))
	}
}

// Start runs the HTTP server and shuts down gracefully on context
// cancel.
func Start(ctx context.Context, addr string, svc OrderService, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewServer(svc, logger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
