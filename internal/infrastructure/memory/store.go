// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory y en las pruebas de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var (
	_ sales.SaleTxRunner       = (*Store)(nil)
	_ analytics.SnapshotReader = (*Store)(nil)
)

// Store guarda el estado completo detrás de un único RWMutex.
// RunSale toma el lock de escritura durante toda la transacción.
type Store struct {
	mu        sync.RWMutex
	products  map[string]entity.Product
	customers map[string]entity.Customer
	users     map[string]entity.User
	sales     []entity.Sale
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:  make(map[string]entity.Product),
		customers: make(map[string]entity.Customer),
		users:     make(map[string]entity.User),
	}
}

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

// Customers devuelve el repositorio de clientes.
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s: s} }

// Sales devuelve el repositorio del libro de ventas.
func (s *Store) Sales() *SaleRepository { return &SaleRepository{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Ping siempre responde; existe para que /health trate igual a ambos drivers.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// RunSale ejecuta fn con repos que operan sin tomar el lock (ya lo tiene la transacción).
// Si fn falla se restaura el catálogo y el libro de ventas al estado previo.
func (s *Store) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make(map[string]entity.Product, len(s.products))
	for k, v := range s.products {
		products[k] = v
	}
	salesLen := len(s.sales)

	err := fn(&ProductRepository{s: s, inTx: true}, &SaleRepository{s: s, inTx: true})
	if err != nil {
		s.products = products
		s.sales = s.sales[:salesLen]
		return err
	}
	return nil
}

// ReadSnapshot ejecuta fn con el lock de lectura tomado; ningún commit entra mientras tanto.
// Los repos recibidos son de solo lectura.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&ProductRepository{s: s, inTx: true}, &SaleRepository{s: s, inTx: true})
}

func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func cloneSale(sale entity.Sale) *entity.Sale {
	out := sale
	out.Items = append([]entity.SaleItem(nil), sale.Items...)
	return &out
}

func sortedProducts(m map[string]entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(m))
	for _, p := range m {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
