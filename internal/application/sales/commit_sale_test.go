package sales_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/cart"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ────────────────────────────────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	carts *memory.CartStore
	uc    *sales.CommitSaleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	carts := memory.NewCartStore()
	uc := sales.NewCommitSaleUseCase(
		store, store.Products(), store.Customers(), store.Sales(), carts, zerolog.Nop(),
	).WithClock(func() time.Time { return fixedNow })
	return &fixture{store: store, carts: carts, uc: uc}
}

func (f *fixture) product(t *testing.T, id, price string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:            id,
		Name:          "Producto " + id,
		Price:         decimal.RequireFromString(price),
		Stock:         stock,
		LowStockAlert: entity.DefaultLowStockAlert,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (f *fixture) ledger(t *testing.T) []*entity.Sale {
	t.Helper()
	list, err := f.store.Sales().List(context.Background())
	require.NoError(t, err)
	return list
}

// ────────────────────────────────────────────────────────────────────────────
// Commit
// ────────────────────────────────────────────────────────────────────────────

func TestCommit_CarritoVacio(t *testing.T) {
	f := newFixture(t)

	sale, err := f.uc.Commit(t.Context(), cart.New(), "")

	assert.Nil(t, sale)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, f.ledger(t))
}

func TestCommit_EjemploDescuentaStock(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "a", "9.99", 10)
	b := f.product(t, "b", "5.00", 10)

	c := cart.New()
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))

	sale, err := f.uc.Commit(t.Context(), c, "")
	require.NoError(t, err)

	assert.Equal(t, "24.98", sale.Total.StringFixed(2))
	assert.Equal(t, fixedNow, sale.SaleDate)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.Equal(t, 8, f.stock(t, "a"))
	assert.Equal(t, 9, f.stock(t, "b"))
	assert.True(t, c.IsEmpty(), "el carrito se vacía tras confirmar")
	assert.Len(t, f.ledger(t), 1)
}

func TestCommit_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "a", "2.00", 10)
	b := f.product(t, "b", "3.00", 1)

	c := cart.New()
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))
	c.SetQuantity("b", 2)

	sale, err := f.uc.Commit(t.Context(), c, "")

	assert.Nil(t, sale)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "b", stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	assert.Equal(t, 10, f.stock(t, "a"))
	assert.Equal(t, 1, f.stock(t, "b"))
	assert.Empty(t, f.ledger(t))
	assert.Equal(t, 2, c.Len(), "el carrito se conserva para reintentar")
}

func TestCommit_CantidadIgualAlStock(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "a", "1.00", 3)

	c := cart.New()
	require.NoError(t, c.Add(a))
	c.SetQuantity("a", 3)

	_, err := f.uc.Commit(t.Context(), c, "")
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "a"))
}

func TestCommit_UsaPrecioCopiado(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "a", "5.00", 10)

	c := cart.New()
	require.NoError(t, c.Add(a))

	a.Price = decimal.RequireFromString("50.00")
	require.NoError(t, f.store.Products().Update(context.Background(), a))

	sale, err := f.uc.Commit(t.Context(), c, "")
	require.NoError(t, err)
	assert.Equal(t, "5.00", sale.Total.StringFixed(2))
	assert.Equal(t, "5.00", sale.Items[0].UnitPrice.StringFixed(2))
}

func TestCommit_ProductoEliminado(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "a", "1.00", 5)
	b := f.product(t, "b", "1.00", 5)

	c := cart.New()
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))
	require.NoError(t, f.store.Products().Delete(context.Background(), "b"))

	_, err := f.uc.Commit(t.Context(), c, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 5, f.stock(t, "a"))
	assert.Empty(t, f.ledger(t))
}

func TestCommit_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "a", "1.00", 5)

	c := cart.New()
	require.NoError(t, c.Add(a))

	_, err := f.uc.Commit(t.Context(), c, "no-existe")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 5, f.stock(t, "a"))
	assert.Equal(t, 1, c.Len())
}

func TestCommit_ConcurrenteNuncaStockNegativo(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	a := f.product(t, "a", "1.00", 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := cart.New()
			_ = c.Add(a)
			_, err := f.uc.Commit(context.Background(), c, "")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 15, fail)
	assert.Equal(t, 0, f.stock(t, "a"))
	assert.Len(t, f.ledger(t), 5)
}

// ────────────────────────────────────────────────────────────────────────────
// CreateSale
// ────────────────────────────────────────────────────────────────────────────

func TestCreateSale(t *testing.T) {
	total := decimal.RequireFromString("12.50")
	wrong := decimal.RequireFromString("13.00")

	tests := []struct {
		name    string
		in      dto.CreateSaleRequest
		wantErr error
	}{
		{
			name: "ok con total correcto",
			in: dto.CreateSaleRequest{
				Items: []dto.SaleItemRequest{
					{ProductID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
					{ProductID: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("2.50")},
				},
				Total: &total,
			},
		},
		{
			name: "total no coincide",
			in: dto.CreateSaleRequest{
				Items: []dto.SaleItemRequest{
					{ProductID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
					{ProductID: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("2.50")},
				},
				Total: &wrong,
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "sin líneas",
			in:      dto.CreateSaleRequest{},
			wantErr: domain.ErrEmptyCart,
		},
		{
			name: "cantidad cero",
			in: dto.CreateSaleRequest{
				Items: []dto.SaleItemRequest{{ProductID: "a", Quantity: 0, UnitPrice: decimal.RequireFromString("5.00")}},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "precio negativo",
			in: dto.CreateSaleRequest{
				Items: []dto.SaleItemRequest{{ProductID: "a", Quantity: 1, UnitPrice: decimal.RequireFromString("-1")}},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "producto inexistente",
			in: dto.CreateSaleRequest{
				Items: []dto.SaleItemRequest{{ProductID: "zzz", Quantity: 1, UnitPrice: decimal.RequireFromString("1")}},
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "supera el stock",
			in: dto.CreateSaleRequest{
				Items: []dto.SaleItemRequest{{ProductID: "b", Quantity: 4, UnitPrice: decimal.RequireFromString("2.50")}},
			},
			wantErr: domain.ErrInsufficientStock,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.product(t, "a", "5.00", 10)
			f.product(t, "b", "2.50", 3)

			resp, err := f.uc.CreateSale(t.Context(), tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.ledger(t))
				assert.Equal(t, 10, f.stock(t, "a"))
				assert.Equal(t, 3, f.stock(t, "b"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "12.50", resp.Total.StringFixed(2))
			assert.Equal(t, sales.NoCustomerName, resp.CustomerName)
			assert.Equal(t, 2, resp.ItemCount)
			assert.Equal(t, 8, f.stock(t, "a"))
			assert.Equal(t, 2, f.stock(t, "b"))
		})
	}
}

func TestCreateSale_LineasRepetidasSeAcumulan(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", "5.00", 10)

	resp, err := f.uc.CreateSale(t.Context(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "a", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
			{ProductID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.Equal(t, 7, f.stock(t, "a"))
}

func TestCreateSale_LineasRepetidasConPrecioDistinto(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", "10.00", 10)

	for _, total := range []*decimal.Decimal{nil, decPtr("30.00")} {
		resp, err := f.uc.CreateSale(t.Context(), dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{
				{ProductID: "a", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
				{ProductID: "a", Quantity: 1, UnitPrice: decimal.RequireFromString("20.00")},
			},
			Total: total,
		})

		assert.Nil(t, resp)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "items[1].unit_price", verr.Field)
	}
	assert.Equal(t, 10, f.stock(t, "a"))
	assert.Empty(t, f.ledger(t))
}

func TestCommit_LogUsaElLoggerRecibido(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).With().Str("component", "sales").Logger()
	store := memory.NewStore()
	uc := sales.NewCommitSaleUseCase(store, store.Products(), store.Customers(), store.Sales(), memory.NewCartStore(), log)
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{ID: "a", Name: "A", Price: decimal.NewFromInt(1), Stock: 1}))

	_, err := uc.CreateSale(t.Context(), dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: "a", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"component"`), line)
}

func TestCreateSale_ConCliente(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", "5.00", 10)
	require.NoError(t, f.store.Customers().Create(context.Background(), &entity.Customer{ID: "c1", Name: "Ana"}))

	resp, err := f.uc.CreateSale(t.Context(), dto.CreateSaleRequest{
		Items:      []dto.SaleItemRequest{{ProductID: "a", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")}},
		CustomerID: "c1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana", resp.CustomerName)
	assert.Equal(t, "c1", resp.CustomerID)
}

// ────────────────────────────────────────────────────────────────────────────
// Carrito de sesión y Checkout
// ────────────────────────────────────────────────────────────────────────────

func TestCheckout_FlujoCompleto(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", "9.99", 10)
	f.product(t, "b", "5.00", 10)

	_, err := f.uc.AddToCart(t.Context(), "user-1", "a")
	require.NoError(t, err)
	_, err = f.uc.AddToCart(t.Context(), "user-1", "a")
	require.NoError(t, err)
	cartResp, err := f.uc.AddToCart(t.Context(), "user-1", "b")
	require.NoError(t, err)
	assert.Equal(t, "24.98", cartResp.Total.StringFixed(2))

	// Otra sesión no ve el carrito.
	other, err := f.uc.GetCart("user-2")
	require.NoError(t, err)
	assert.Empty(t, other.Lines)

	resp, err := f.uc.Checkout(t.Context(), "user-1", "")
	require.NoError(t, err)
	assert.Equal(t, "24.98", resp.Total.StringFixed(2))

	after, err := f.uc.GetCart("user-1")
	require.NoError(t, err)
	assert.Empty(t, after.Lines)
	assert.True(t, after.Total.IsZero())
}

func TestCheckout_CarritoVacio(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Checkout(t.Context(), "user-1", "")

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCheckout_FallaConservaCarrito(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", "1.00", 1)

	_, err := f.uc.AddToCart(t.Context(), "user-1", "a")
	require.NoError(t, err)
	_, err = f.uc.SetCartQuantity("user-1", "a", 5)
	require.NoError(t, err)

	_, err = f.uc.Checkout(t.Context(), "user-1", "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	resp, err := f.uc.GetCart("user-1")
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 5, resp.Lines[0].Quantity)
}

func TestCartOps(t *testing.T) {
	f := newFixture(t)
	f.product(t, "a", "2.00", 3)
	f.product(t, "sin-stock", "2.00", 0)

	_, err := f.uc.AddToCart(t.Context(), "u", "sin-stock")
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	_, err = f.uc.AddToCart(t.Context(), "u", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.AddToCart(t.Context(), "u", "a")
	require.NoError(t, err)

	resp, err := f.uc.SetCartQuantity("u", "a", 4)
	require.NoError(t, err)
	assert.Equal(t, "8.00", resp.Total.StringFixed(2))

	resp, err = f.uc.RemoveFromCart("u", "a")
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)

	_, err = f.uc.AddToCart(t.Context(), "u", "a")
	require.NoError(t, err)
	f.uc.CancelCart("u")
	resp, err = f.uc.GetCart("u")
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, 3, f.stock(t, "a"), "el carrito nunca reserva stock")
}

// ────────────────────────────────────────────────────────────────────────────
// Lectura del libro
// ────────────────────────────────────────────────────────────────────────────

func TestList_MasRecientePrimeroYSinCliente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Customers().Create(ctx, &entity.Customer{ID: "c1", Name: "Ana"}))
	require.NoError(t, f.store.Sales().Create(ctx, &entity.Sale{ID: "s1", SaleDate: fixedNow, CustomerID: "c1", Total: decimal.NewFromInt(1)}))
	require.NoError(t, f.store.Sales().Create(ctx, &entity.Sale{ID: "s2", SaleDate: fixedNow.Add(time.Hour), Total: decimal.NewFromInt(2)}))

	list, err := f.uc.List(ctx)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].ID)
	assert.Equal(t, sales.NoCustomerName, list[0].CustomerName)
	assert.Equal(t, "Ana", list[1].CustomerName)

	// Al borrar el cliente la venta queda "Sin cliente".
	require.NoError(t, f.store.Customers().Delete(ctx, "c1"))
	got, err := f.uc.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sales.NoCustomerName, got.CustomerName)

	_, err = f.uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
