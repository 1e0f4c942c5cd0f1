package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta registrada en el libro de ventas. Es inmutable una vez creada.
// Total = Σ Quantity * UnitPrice de Items, calculado al confirmar la venta.
type Sale struct {
	ID         string
	SaleDate   time.Time
	CustomerID string // vacío si la venta no tiene cliente
	Total      decimal.Decimal
	Items      []SaleItem
}

// SaleItem copia de una línea del carrito al momento de la venta.
// ProductID queda vacío si el producto fue eliminado del catálogo después.
type SaleItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Subtotal devuelve Quantity * UnitPrice.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
