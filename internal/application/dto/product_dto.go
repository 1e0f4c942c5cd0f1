package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// LowStockAlert nil usa el umbral por defecto (5).
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock" validate:"min=0"`
	Category      string          `json:"category"`
	LowStockAlert *int            `json:"low_stock_alert" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar un producto. Solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock"`
	Category      *string          `json:"category"`
	LowStockAlert *int             `json:"low_stock_alert"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Category      string          `json:"category"`
	LowStockAlert int             `json:"low_stock_alert"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
