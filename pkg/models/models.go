package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog row as stored. Only active products ever leave
// the read path; the write path that mutates products lives outside
// this service.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// ProductView is the public shape of a product as served to clients
// and as stored in the catalog snapshot cache.
type ProductView struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Order is created exactly once, atomically with its lines, and never
// updated afterwards. TotalAmount equals the exact sum of
// unit price * quantity over Lines.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Lines         []OrderLine     `json:"lines"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OrderLine captures the unit price at order time; later catalog price
// changes must not rewrite history.
type OrderLine struct {
	ProductID uuid.UUID       `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity"`
}

// ConfirmationMessage is the envelope carried on the mail queue. It
// has no identity of its own beyond its position in the queue.
type ConfirmationMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
