package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe; Update y Delete devuelven
// domain.ErrNotFound.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error

	// GetForUpdate bloquea las filas de los productos indicados hasta el fin de la
	// transacción (SELECT FOR UPDATE). Los IDs inexistentes no aparecen en el mapa.
	GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// DecrementStock resta quantity al stock del producto.
	DecrementStock(ctx context.Context, id string, quantity int) error
}
