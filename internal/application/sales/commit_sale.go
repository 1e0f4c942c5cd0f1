package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/cart"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CommitSaleUseCase confirma carritos como ventas y descuenta el stock en una sola transacción.
type CommitSaleUseCase struct {
	txRunner     SaleTxRunner
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	carts        CartStore
	log          zerolog.Logger
	now          func() time.Time
}

// NewCommitSaleUseCase construye el caso de uso.
func NewCommitSaleUseCase(
	txRunner SaleTxRunner,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	carts CartStore,
	log zerolog.Logger,
) *CommitSaleUseCase {
	return &CommitSaleUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		carts:        carts,
		log:          log,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj usado para la fecha de la venta.
func (uc *CommitSaleUseCase) WithClock(now func() time.Time) *CommitSaleUseCase {
	uc.now = now
	return uc
}

// Commit registra el contenido del carrito como una venta.
//
// Valida contra el stock bloqueado dentro de la transacción y rechaza la venta completa
// si alguna línea supera el disponible. Solo si la transacción confirma se vacía el
// carrito; ante cualquier error el carrito queda intacto y el libro sin cambios.
func (uc *CommitSaleUseCase) Commit(ctx context.Context, c *cart.Cart, customerID string) (*entity.Sale, error) {
	if c == nil || c.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if customerID != "" {
		customer, err := uc.customerRepo.GetByID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("cliente %s: %w", customerID, domain.ErrNotFound)
		}
	}

	lines := c.Lines()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		SaleDate:   uc.now().UTC().Truncate(time.Microsecond),
		CustomerID: customerID,
		Total:      c.Total(),
		Items:      make([]entity.SaleItem, 0, len(lines)),
	}
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		sale.Items = append(sale.Items, entity.SaleItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
		ids = append(ids, l.ProductID)
	}
	// Orden fijo de bloqueo entre commits concurrentes.
	sort.Strings(ids)

	err := uc.txRunner.RunSale(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		locked, err := productRepo.GetForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		for _, l := range lines {
			p, ok := locked[l.ProductID]
			if !ok {
				return fmt.Errorf("producto %s: %w", l.ProductID, domain.ErrNotFound)
			}
			if l.Quantity > p.Stock {
				return &domain.InsufficientStockError{
					ProductID: l.ProductID,
					Requested: l.Quantity,
					Available: p.Stock,
				}
			}
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, l := range lines {
			if err := productRepo.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Int("lines", len(lines)).Msg("venta rechazada")
		return nil, err
	}

	c.Clear()
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("total", sale.Total.StringFixed(2)).
		Int("lines", len(sale.Items)).
		Msg("venta registrada")
	return sale, nil
}

// CreateSale arma un carrito con las líneas enviadas y lo confirma.
// Si el body trae total, debe coincidir con Σ quantity * unit_price.
func (uc *CommitSaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	c := cart.New()
	prices := make(map[string]decimal.Decimal, len(in.Items))
	for i, item := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if item.ProductID == "" {
			return nil, domain.NewValidationError(field+".product_id", "producto requerido")
		}
		if item.Quantity <= 0 {
			return nil, domain.NewValidationError(field+".quantity", "la cantidad debe ser mayor a cero")
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError(field+".unit_price", "el precio no puede ser negativo")
		}
		// Las líneas repetidas se acumulan solo si comparten precio.
		if first, ok := prices[item.ProductID]; ok && !first.Equal(item.UnitPrice) {
			return nil, domain.NewValidationError(field+".unit_price",
				fmt.Sprintf("precio %s distinto al de la línea anterior del mismo producto (%s)", item.UnitPrice.StringFixed(2), first.StringFixed(2)))
		}
		prices[item.ProductID] = item.UnitPrice
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		c.Merge(cart.Line{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	if in.Total != nil && !in.Total.Equal(c.Total()) {
		return nil, domain.NewValidationError("total",
			fmt.Sprintf("el total %s no coincide con la suma de las líneas %s", in.Total.StringFixed(2), c.Total().StringFixed(2)))
	}

	sale, err := uc.Commit(ctx, c, in.CustomerID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, sale)
}

// Checkout confirma el carrito de la sesión de ownerID.
func (uc *CommitSaleUseCase) Checkout(ctx context.Context, ownerID, customerID string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.carts.WithCart(ownerID, func(c *cart.Cart) error {
		var err error
		sale, err = uc.Commit(ctx, c, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.carts.Discard(ownerID)
	return uc.toResponse(ctx, sale)
}

// List devuelve el libro de ventas, la más reciente primero.
func (uc *CommitSaleUseCase) List(ctx context.Context) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := LoadCustomers(ctx, uc.customerRepo, list)
	if err != nil {
		return nil, err
	}
	out := ToSaleResponses(list, customers)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *CommitSaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, sale)
}

func (uc *CommitSaleUseCase) toResponse(ctx context.Context, sale *entity.Sale) (*dto.SaleResponse, error) {
	customers, err := LoadCustomers(ctx, uc.customerRepo, []*entity.Sale{sale})
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale, customers)
	return &resp, nil
}
