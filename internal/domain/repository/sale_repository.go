package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// SaleRepository define el puerto del libro de ventas: solo alta y lectura.
// Los listados devuelven las ventas en orden de registro (sale_date ascendente)
// con sus líneas en el orden original.
type SaleRepository interface {
	// Create persiste cabecera y líneas. Debe ejecutarse dentro de la transacción del commit.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context) ([]*entity.Sale, error)
	// ListBetween devuelve las ventas con start <= sale_date < end.
	ListBetween(ctx context.Context, start, end time.Time) ([]*entity.Sale, error)
}
