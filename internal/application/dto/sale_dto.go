package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
// Total es opcional; si viene, debe coincidir con Σ quantity * unit_price.
type CreateSaleRequest struct {
	Items      []SaleItemRequest `json:"items"`
	CustomerID string            `json:"customer_id,omitempty"`
	Total      *decimal.Decimal  `json:"total,omitempty"`
}

// SaleItemRequest línea de venta enviada por el panel.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleResponse venta con sus líneas, enriquecida con nombres para mostrar.
type SaleResponse struct {
	ID           string             `json:"id"`
	SaleDate     time.Time          `json:"sale_date"`
	CustomerID   string             `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name"`
	Total        decimal.Decimal    `json:"total"`
	ItemCount    int                `json:"item_count"`
	Items        []SaleItemResponse `json:"items"`
}

// SaleItemResponse línea de una venta registrada.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartResponse estado del carrito de la sesión.
type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total decimal.Decimal    `json:"total"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// AddCartItemRequest body para POST /api/cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
}

// SetCartQuantityRequest body para PUT /api/cart/items/:productId.
type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest body para POST /api/cart/checkout.
type CheckoutRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
}
