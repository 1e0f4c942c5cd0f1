package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas sobre PostgreSQL (sales + sale_items).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Create debe recibir la tx del commit.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y líneas. Las líneas van en un único batch.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, sale_date, customer_id, total) VALUES ($1, $2, $3, $4)`,
		sale.ID, sale.SaleDate, nullable(sale.CustomerID), sale.Total,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("venta %s: %w", sale.ID, domain.ErrDuplicate)
		}
		return wrap("insert sale", err)
	}
	if len(sale.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i, it := range sale.Items {
		batch.Queue(
			`INSERT INTO sale_items (sale_id, line_no, product_id, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			sale.ID, i+1, nullable(it.ProductID), it.ProductName, it.Quantity, it.UnitPrice,
		)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return wrap("insert sale items", err)
	}
	return nil
}

// GetByID obtiene una venta con sus líneas. (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if !validID(id) {
		return nil, nil
	}
	list, err := r.query(ctx, `WHERE s.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List devuelve todo el libro en orden de registro.
func (r *SaleRepo) List(ctx context.Context) ([]*entity.Sale, error) {
	return r.query(ctx, ``)
}

// ListBetween devuelve las ventas con start <= sale_date < end.
func (r *SaleRepo) ListBetween(ctx context.Context, start, end time.Time) ([]*entity.Sale, error) {
	return r.query(ctx, `WHERE s.sale_date >= $1 AND s.sale_date < $2`, start, end)
}

// query lee cabeceras y líneas en una sola sentencia (LEFT JOIN) para ver un snapshot consistente.
func (r *SaleRepo) query(ctx context.Context, where string, args ...any) ([]*entity.Sale, error) {
	sql := `
		SELECT s.id, s.sale_date, s.customer_id, s.total,
		       i.line_no, i.product_id, i.product_name, i.quantity, i.unit_price
		FROM sales s
		LEFT JOIN sale_items i ON i.sale_id = s.id
		` + where + `
		ORDER BY s.sale_date, s.id, i.line_no`
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrap("list sales", err)
	}
	defer rows.Close()

	out := make([]*entity.Sale, 0)
	var current *entity.Sale
	for rows.Next() {
		var (
			id                  string
			saleDate            time.Time
			customerID          *string
			total               decimal.Decimal
			lineNo, quantity    *int
			productID, prodName *string
			unitPrice           decimal.NullDecimal
		)
		if err := rows.Scan(&id, &saleDate, &customerID, &total,
			&lineNo, &productID, &prodName, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if current == nil || current.ID != id {
			current = &entity.Sale{
				ID:         id,
				SaleDate:   saleDate.UTC(),
				CustomerID: deref(customerID),
				Total:      total,
				Items:      make([]entity.SaleItem, 0),
			}
			out = append(out, current)
		}
		if lineNo == nil {
			continue
		}
		current.Items = append(current.Items, entity.SaleItem{
			ProductID:   deref(productID),
			ProductName: deref(prodName),
			Quantity:    *quantity,
			UnitPrice:   unitPrice.Decimal,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list sales", err)
	}
	return out, nil
}
