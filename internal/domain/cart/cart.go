// Package cart contiene el carrito de venta: las líneas pendientes de una venta en curso.
//
// Un Cart tiene un único dueño (el flujo de "nueva venta" de una sesión) y no usa
// bloqueos; quien lo comparta entre goroutines debe serializar el acceso.
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// Line línea del carrito. Nombre y precio son copias tomadas al agregar el producto.
type Line struct {
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// Subtotal devuelve UnitPrice * Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart mantiene como máximo una línea por producto, en orden de inserción.
type Cart struct {
	lines []Line
}

// New crea un carrito vacío.
func New() *Cart {
	return &Cart{}
}

// Add agrega una unidad del producto. Si ya hay línea para el producto incrementa su
// cantidad; si no, crea la línea con cantidad 1 y copia nombre y precio.
// No reserva stock en el catálogo.
func (c *Cart) Add(product *entity.Product) error {
	if product == nil || product.ID == "" {
		return domain.NewValidationError("product_id", "producto requerido")
	}
	if product.Stock <= 0 {
		return domain.ErrOutOfStock
	}
	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity++
		return nil
	}
	c.lines = append(c.lines, Line{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    1,
	})
	return nil
}

// Merge incorpora una línea ya armada (p. ej. desde una venta enviada por el cliente).
// Si el producto ya está, suma la cantidad y conserva el precio de la primera línea.
func (c *Cart) Merge(line Line) {
	if line.Quantity <= 0 {
		return
	}
	if i := c.indexOf(line.ProductID); i >= 0 {
		c.lines[i].Quantity += line.Quantity
		return
	}
	c.lines = append(c.lines, line)
}

// Remove elimina la línea del producto; no hace nada si no existe.
func (c *Cart) Remove(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// SetQuantity reemplaza la cantidad de la línea. Una cantidad <= 0 equivale a Remove.
// No se valida contra el stock actual; eso ocurre al confirmar la venta.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Quantity = quantity
	}
}

// Total devuelve Σ UnitPrice * Quantity. Un carrito vacío suma cero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Lines devuelve una copia de las líneas en orden de inserción.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line devuelve la línea del producto, si existe.
func (c *Cart) Line(productID string) (Line, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Clear descarta todas las líneas.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
