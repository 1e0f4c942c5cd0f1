package cart_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/cart"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func product(id, price string, stock int) *entity.Product {
	return &entity.Product{
		ID:    id,
		Name:  "Producto " + id,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func TestCart_AddIncrementaLineaExistente(t *testing.T) {
	c := cart.New()
	a := product("a", "9.99", 10)

	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(a))

	require.Equal(t, 1, c.Len(), "un producto repetido no debe duplicar la línea")
	line, ok := c.Line("a")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "Producto a", line.ProductName)
}

func TestCart_AddSinStock(t *testing.T) {
	c := cart.New()

	err := c.Add(product("a", "1.00", 0))

	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.True(t, c.IsEmpty())
}

func TestCart_AddCopiaPrecio(t *testing.T) {
	c := cart.New()
	a := product("a", "5.00", 3)
	require.NoError(t, c.Add(a))

	// Un cambio posterior en el catálogo no altera la línea.
	a.Price = decimal.RequireFromString("7.00")

	line, _ := c.Line("a")
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestCart_SetQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		wantLen  int
		wantQty  int
	}{
		{name: "reemplaza la cantidad", quantity: 7, wantLen: 1, wantQty: 7},
		{name: "sin límite contra el stock", quantity: 500, wantLen: 1, wantQty: 500},
		{name: "cero elimina la línea", quantity: 0, wantLen: 0},
		{name: "negativo elimina la línea", quantity: -3, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cart.New()
			require.NoError(t, c.Add(product("a", "2.50", 4)))

			c.SetQuantity("a", tt.quantity)

			require.Equal(t, tt.wantLen, c.Len())
			if tt.wantLen > 0 {
				line, _ := c.Line("a")
				assert.Equal(t, tt.wantQty, line.Quantity)
			}
		})
	}
}

func TestCart_SetQuantityProductoAusente(t *testing.T) {
	c := cart.New()
	c.SetQuantity("x", 3)
	assert.True(t, c.IsEmpty())
}

func TestCart_RemoveNoOp(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(product("a", "1.00", 1)))

	c.Remove("no-existe")
	assert.Equal(t, 1, c.Len())

	c.Remove("a")
	assert.True(t, c.IsEmpty())
}

func TestCart_TotalEjemplo(t *testing.T) {
	c := cart.New()
	a := product("a", "9.99", 10)
	b := product("b", "5.00", 10)
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))

	assert.Equal(t, "24.98", c.Total().StringFixed(2))
}

func TestCart_TotalVacio(t *testing.T) {
	assert.True(t, cart.New().Total().IsZero())
}

func TestCart_Merge(t *testing.T) {
	c := cart.New()
	c.Merge(cart.Line{ProductID: "a", UnitPrice: decimal.RequireFromString("3.00"), Quantity: 2})
	c.Merge(cart.Line{ProductID: "a", UnitPrice: decimal.RequireFromString("9.00"), Quantity: 1})
	c.Merge(cart.Line{ProductID: "b", UnitPrice: decimal.RequireFromString("1.00"), Quantity: 0})

	require.Equal(t, 1, c.Len())
	line, _ := c.Line("a")
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "9.00", c.Total().StringFixed(2), "se conserva el precio de la primera línea")
}

func TestCart_LinesEsCopia(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(product("a", "1.00", 1)))

	lines := c.Lines()
	lines[0].Quantity = 99

	line, _ := c.Line("a")
	assert.Equal(t, 1, line.Quantity)
}

// Para cualquier secuencia de operaciones: una línea por producto y
// Total() == Σ precio * cantidad de las líneas actuales.
func TestCart_InvariantesSecuenciaAleatoria(t *testing.T) {
	faker := gofakeit.New(42)
	catalog := make([]*entity.Product, 5)
	for i := range catalog {
		catalog[i] = &entity.Product{
			ID:    faker.UUID(),
			Name:  faker.ProductName(),
			Price: decimal.NewFromFloat(faker.Price(1, 100)).Round(2),
			Stock: faker.IntRange(1, 20),
		}
	}

	c := cart.New()
	for step := 0; step < 500; step++ {
		p := catalog[faker.IntRange(0, len(catalog)-1)]
		switch faker.IntRange(0, 2) {
		case 0:
			require.NoError(t, c.Add(p))
		case 1:
			c.Remove(p.ID)
		case 2:
			c.SetQuantity(p.ID, faker.IntRange(-2, 10))
		}

		seen := map[string]bool{}
		want := decimal.Zero
		for _, l := range c.Lines() {
			require.False(t, seen[l.ProductID], "línea duplicada para %s", l.ProductID)
			seen[l.ProductID] = true
			require.GreaterOrEqual(t, l.Quantity, 1)
			want = want.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		require.True(t, want.Equal(c.Total()), "paso %d: total %s != %s", step, c.Total(), want)
	}
}
