package sales

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/cart"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// SaleTxRunner ejecuta fn dentro de una transacción con repos de catálogo y ventas atados a ella.
// Si fn retorna error no queda nada persistido.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// CartStore guarda un carrito por dueño (usuario de la sesión).
// WithCart serializa el acceso al carrito de ownerID; si no existe lo crea vacío.
type CartStore interface {
	WithCart(ownerID string, fn func(c *cart.Cart) error) error
	Discard(ownerID string)
}
