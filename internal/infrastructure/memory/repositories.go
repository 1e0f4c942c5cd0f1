package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepository)(nil)
	_ repository.CustomerRepository = (*CustomerRepository)(nil)
	_ repository.SaleRepository     = (*SaleRepository)(nil)
	_ repository.UserRepository     = (*UserRepository)(nil)
)

// ProductRepository implementación en memoria de repository.ProductRepository.
type ProductRepository struct {
	s    *Store
	inTx bool
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	defer r.s.rlock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]*entity.Product, error) {
	defer r.s.rlock(r.inTx)()
	return sortedProducts(r.s.products), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

// Delete elimina el producto y desvincula las líneas de venta que lo referencian.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	for i := range r.s.sales {
		for j := range r.s.sales[i].Items {
			if r.s.sales[i].Items[j].ProductID == id {
				r.s.sales[i].Items[j].ProductID = ""
			}
		}
	}
	return nil
}

func (r *ProductRepository) GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	defer r.s.rlock(r.inTx)()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			p := p
			out[id] = &p
		}
	}
	return out, nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock < quantity {
		return &domain.InsufficientStockError{ProductID: id, Requested: quantity, Available: p.Stock}
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	r.s.products[id] = p
	return nil
}

// CustomerRepository implementación en memoria de repository.CustomerRepository.
type CustomerRepository struct {
	s *Store
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	defer r.s.lock(false)()
	if _, ok := r.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	defer r.s.rlock(false)()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Customer, error) {
	defer r.s.rlock(false)()
	out := make(map[string]*entity.Customer, len(ids))
	for _, id := range ids {
		if c, ok := r.s.customers[id]; ok {
			c := c
			out[id] = &c
		}
	}
	return out, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*entity.Customer, error) {
	defer r.s.rlock(false)()
	out := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	defer r.s.lock(false)()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

// Delete elimina el cliente; las ventas que lo referencian quedan sin cliente.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(false)()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	for i := range r.s.sales {
		if r.s.sales[i].CustomerID == id {
			r.s.sales[i].CustomerID = ""
		}
	}
	return nil
}

// SaleRepository libro de ventas en memoria. Conserva el orden de registro.
type SaleRepository struct {
	s    *Store
	inTx bool
}

func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	defer r.s.lock(r.inTx)()
	for _, existing := range r.s.sales {
		if existing.ID == sale.ID {
			return fmt.Errorf("venta %s: %w", sale.ID, domain.ErrDuplicate)
		}
	}
	r.s.sales = append(r.s.sales, *cloneSale(*sale))
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	defer r.s.rlock(r.inTx)()
	for _, sale := range r.s.sales {
		if sale.ID == id {
			return cloneSale(sale), nil
		}
	}
	return nil, nil
}

func (r *SaleRepository) List(ctx context.Context) ([]*entity.Sale, error) {
	defer r.s.rlock(r.inTx)()
	return r.filter(func(entity.Sale) bool { return true }), nil
}

func (r *SaleRepository) ListBetween(ctx context.Context, start, end time.Time) ([]*entity.Sale, error) {
	defer r.s.rlock(r.inTx)()
	return r.filter(func(s entity.Sale) bool {
		return !s.SaleDate.Before(start) && s.SaleDate.Before(end)
	}), nil
}

func (r *SaleRepository) filter(keep func(entity.Sale) bool) []*entity.Sale {
	out := make([]*entity.Sale, 0)
	for _, sale := range r.s.sales {
		if keep(sale) {
			out = append(out, cloneSale(sale))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.Before(out[j].SaleDate) })
	return out
}

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	defer r.s.lock(false)()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	defer r.s.rlock(false)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.s.rlock(false)()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}
