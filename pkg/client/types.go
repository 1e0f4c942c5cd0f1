package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto tal como lo devuelve la API.
type Product struct {
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

// ProductInput datos para crear un producto. LowStockAlert nil usa el umbral del servidor.
type ProductInput struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Category      string          `json:"category,omitempty"`
	LowStockAlert *int            `json:"low_stock_alert,omitempty"`
}

// ProductPatch campos a modificar; nil deja el valor actual.
type ProductPatch struct {
	Name          *string          `json:"name,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Stock         *int             `json:"stock,omitempty"`
	Category      *string          `json:"category,omitempty"`
	LowStockAlert *int             `json:"low_stock_alert,omitempty"`
}

func (p ProductPatch) apply(prod Product) Product {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.LowStockAlert != nil {
		prod.LowStockAlert = *p.LowStockAlert
	}
	prod.LowStock = prod.Stock <= prod.LowStockAlert
	return prod
}

// State estado visible de la sesión.
type State struct {
	SignedIn  bool
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
