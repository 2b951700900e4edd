// order-generator fires randomized CreateOrder requests at a running
// instance, handy for exercising the catalog cache and the mail queue
// locally.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/srcnozturk/ECommerce-Mobiliva/internal/service"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	count := flag.Int("n", 1, "number of orders to create")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	for i := 0; i < *count; i++ {
		req := fakeOrder()
		body, err := json.Marshal(req)
		if err != nil {
			logger.Error("marshal", "err", err)
			return
		}
		resp, err := http.Post(*baseURL+"/api/orders", "application/json", bytes.NewReader(body))
		if err != nil {
			logger.Error("post", "err", err)
			return
		}
		resp.Body.Close()
		logger.Info("order submitted", "customer", req.CustomerEmail, "status", resp.StatusCode)
	}
}

func fakeOrder() service.CreateOrderRequest {
	lines := make([]service.OrderLineRequest, gofakeit.Number(1, 4))
	for i := range lines {
		price := decimal.NewFromFloat(gofakeit.Price(1, 200)).Round(2)
		lines[i] = service.OrderLineRequest{
			ProductID: uuid.New(),
			UnitPrice: price,
			Quantity:  int32(gofakeit.Number(1, 5)),
		}
	}
	return service.CreateOrderRequest{
		CustomerName:  gofakeit.Name(),
		CustomerEmail: gofakeit.Email(),
		CustomerPhone: fmt.Sprintf("5%09d", gofakeit.Number(0, 999999999)),
		Lines:         lines,
	}
}
