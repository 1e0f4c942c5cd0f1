package client

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const tempIDPrefix = "tmp-"

// ProductList copia local del catálogo. Las mutaciones se aplican primero en local
// y se revierten si la API las rechaza.
type ProductList struct {
	c *Client

	mu    sync.RWMutex
	items []Product
}

// NewProductList crea la colección vacía; Load la llena.
func NewProductList(c *Client) *ProductList {
	return &ProductList{c: c}
}

// Load reemplaza la colección con el catálogo del servidor.
func (l *ProductList) Load(ctx context.Context) error {
	items, err := l.c.ListProducts(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.items = items
	sortProducts(l.items)
	l.mu.Unlock()
	return nil
}

// Items copia de la colección ordenada por nombre.
func (l *ProductList) Items() []Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

// Get busca un producto en la colección local.
func (l *ProductList) Get(id string) (Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.index(id)
	if i < 0 {
		return Product{}, false
	}
	return l.items[i], true
}

// Create agrega un elemento provisional, lo reemplaza por el guardado o lo quita si falla.
func (l *ProductList) Create(ctx context.Context, in ProductInput) (*Product, error) {
	tmp := Product{
		ID:       tempIDPrefix + uuid.NewString(),
		Name:     in.Name,
		Price:    in.Price,
		Stock:    in.Stock,
		Category: in.Category,
	}
	if in.LowStockAlert != nil {
		tmp.LowStockAlert = *in.LowStockAlert
	}
	l.mu.Lock()
	l.items = append(l.items, tmp)
	sortProducts(l.items)
	l.mu.Unlock()

	saved, err := l.c.CreateProduct(ctx, in)

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(tmp.ID)
	if err != nil {
		if i >= 0 {
			l.items = slices.Delete(l.items, i, i+1)
		}
		return nil, err
	}
	if i >= 0 {
		l.items[i] = *saved
	} else {
		l.items = append(l.items, *saved)
	}
	sortProducts(l.items)
	return saved, nil
}

// Update aplica el patch en local, confirma con la API y restaura el valor previo si falla.
func (l *ProductList) Update(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	l.mu.Lock()
	i := l.index(id)
	var (
		prev  Product
		found = i >= 0
	)
	if found {
		prev = l.items[i]
		l.items[i] = patch.apply(prev)
		sortProducts(l.items)
	}
	l.mu.Unlock()

	saved, err := l.c.UpdateProduct(ctx, id, patch)

	l.mu.Lock()
	defer l.mu.Unlock()
	i = l.index(id)
	if err != nil {
		if found && i >= 0 {
			l.items[i] = prev
			sortProducts(l.items)
		}
		return nil, err
	}
	if i >= 0 {
		l.items[i] = *saved
	} else {
		l.items = append(l.items, *saved)
	}
	sortProducts(l.items)
	return saved, nil
}

// Delete quita el elemento en local y lo reinserta si la API rechaza el borrado.
func (l *ProductList) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	i := l.index(id)
	var (
		prev  Product
		found = i >= 0
	)
	if found {
		prev = l.items[i]
		l.items = slices.Delete(l.items, i, i+1)
	}
	l.mu.Unlock()

	if err := l.c.DeleteProduct(ctx, id); err != nil {
		if found {
			l.mu.Lock()
			if l.index(id) < 0 {
				l.items = append(l.items, prev)
				sortProducts(l.items)
			}
			l.mu.Unlock()
		}
		return err
	}
	return nil
}

// index posición de id; requiere el lock tomado.
func (l *ProductList) index(id string) int {
	return slices.IndexFunc(l.items, func(p Product) bool { return p.ID == id })
}

func sortProducts(items []Product) {
	slices.SortStableFunc(items, func(a, b Product) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
