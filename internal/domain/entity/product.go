package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockAlert umbral de alerta cuando el producto se crea sin uno explícito.
const DefaultLowStockAlert = 5

// Product representa un producto del catálogo.
// Stock solo lo modifican las operaciones de catálogo y el commit de una venta.
type Product struct {
	ID            string
	Name          string
	Price         decimal.Decimal // precio de venta unitario
	Stock         int
	Category      string
	LowStockAlert int // umbral de alerta de stock bajo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock cayó al umbral de alerta o por debajo.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockAlert
}
