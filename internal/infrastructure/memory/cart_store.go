package memory

import (
	"sync"

	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain/cart"
)

var _ sales.CartStore = (*CartStore)(nil)

type ownedCart struct {
	mu   sync.Mutex
	cart *cart.Cart
}

// CartStore mantiene un carrito por dueño. Cada carrito tiene su propio mutex, así
// dos sesiones distintas no se bloquean entre sí.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*ownedCart
}

// NewCartStore crea el store vacío.
func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[string]*ownedCart)}
}

// WithCart ejecuta fn con acceso exclusivo al carrito de ownerID.
func (s *CartStore) WithCart(ownerID string, fn func(c *cart.Cart) error) error {
	s.mu.Lock()
	oc, ok := s.carts[ownerID]
	if !ok {
		oc = &ownedCart{cart: cart.New()}
		s.carts[ownerID] = oc
	}
	s.mu.Unlock()

	oc.mu.Lock()
	defer oc.mu.Unlock()
	return fn(oc.cart)
}

// Discard elimina el carrito de ownerID. Una llamada concurrente a WithCart que ya
// obtuvo el carrito termina sobre la instancia descartada.
func (s *CartStore) Discard(ownerID string) {
	s.mu.Lock()
	delete(s.carts, ownerID)
	s.mu.Unlock()
}

// Len devuelve cuántos carritos hay abiertos.
func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
