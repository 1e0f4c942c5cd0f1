package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/cart"
)

// AddToCart agrega una unidad del producto al carrito de ownerID.
// Lee el producto del catálogo para copiar nombre y precio.
func (uc *CommitSaleUseCase) AddToCart(ctx context.Context, ownerID, productID string) (*dto.CartResponse, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "producto requerido")
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	var resp *dto.CartResponse
	err = uc.carts.WithCart(ownerID, func(c *cart.Cart) error {
		if err := c.Add(product); err != nil {
			return err
		}
		resp = toCartResponse(c)
		return nil
	})
	return resp, err
}

// SetCartQuantity reemplaza la cantidad de la línea; quantity <= 0 la elimina.
func (uc *CommitSaleUseCase) SetCartQuantity(ownerID, productID string, quantity int) (*dto.CartResponse, error) {
	var resp *dto.CartResponse
	err := uc.carts.WithCart(ownerID, func(c *cart.Cart) error {
		c.SetQuantity(productID, quantity)
		resp = toCartResponse(c)
		return nil
	})
	return resp, err
}

// RemoveFromCart elimina la línea del producto.
func (uc *CommitSaleUseCase) RemoveFromCart(ownerID, productID string) (*dto.CartResponse, error) {
	var resp *dto.CartResponse
	err := uc.carts.WithCart(ownerID, func(c *cart.Cart) error {
		c.Remove(productID)
		resp = toCartResponse(c)
		return nil
	})
	return resp, err
}

// GetCart devuelve el carrito actual de ownerID (vacío si no hay).
func (uc *CommitSaleUseCase) GetCart(ownerID string) (*dto.CartResponse, error) {
	var resp *dto.CartResponse
	err := uc.carts.WithCart(ownerID, func(c *cart.Cart) error {
		resp = toCartResponse(c)
		return nil
	})
	return resp, err
}

// CancelCart descarta el carrito sin tocar el catálogo.
func (uc *CommitSaleUseCase) CancelCart(ownerID string) {
	uc.carts.Discard(ownerID)
}
