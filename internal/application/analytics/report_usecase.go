// Package analytics contiene los casos de uso de reportes sobre el libro de ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/reporting"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// DateLayout formato de las fechas de calendario en query strings y reportes.
const DateLayout = "2006-01-02"

// DailySalesPDFGenerator genera la representación PDF del reporte diario.
type DailySalesPDFGenerator interface {
	GenerateDailySalesPDF(ctx context.Context, report *dto.DailySalesReport, top []dto.TopProductDTO) ([]byte, error)
}

// SnapshotReader ejecuta fn con repos de solo lectura que ven un único estado consistente.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReportUseCase arma los reportes de ventas. Los días se interpretan en la zona loc.
//
// Cada lectura del libro es una sola consulta, así un reporte ve el estado anterior
// o posterior a un commit, nunca uno intermedio.
type ReportUseCase struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	generator    DailySalesPDFGenerator
	snapshot     SnapshotReader
	loc          *time.Location
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. loc nil equivale a UTC.
func NewReportUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	generator DailySalesPDFGenerator,
	loc *time.Location,
) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		generator:    generator,
		loc:          loc,
		now:          time.Now,
	}
}

// WithSnapshot hace que Summary lea catálogo y libro dentro de una misma instantánea.
func (uc *ReportUseCase) WithSnapshot(r SnapshotReader) *ReportUseCase {
	uc.snapshot = r
	return uc
}

func (uc *ReportUseCase) readSnapshot(ctx context.Context, fn func(repository.ProductRepository, repository.SaleRepository) error) error {
	if uc.snapshot == nil {
		return fn(uc.productRepo, uc.saleRepo)
	}
	return uc.snapshot.ReadSnapshot(ctx, fn)
}

// WithClock reemplaza el reloj usado para resolver "hoy".
func (uc *ReportUseCase) WithClock(now func() time.Time) *ReportUseCase {
	uc.now = now
	return uc
}

// Location devuelve la zona horaria del libro.
func (uc *ReportUseCase) Location() *time.Location { return uc.loc }

// ParseDay interpreta date (YYYY-MM-DD) en la zona del libro. Vacío significa hoy.
func (uc *ReportUseCase) ParseDay(date string) (time.Time, error) {
	if date == "" {
		return uc.now().In(uc.loc), nil
	}
	day, err := time.ParseInLocation(DateLayout, date, uc.loc)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "formato esperado YYYY-MM-DD")
	}
	return day, nil
}

// DailySales devuelve las ventas del día con su total. Un día sin ventas suma cero.
func (uc *ReportUseCase) DailySales(ctx context.Context, date string) (*dto.DailySalesReport, error) {
	day, err := uc.ParseDay(date)
	if err != nil {
		return nil, err
	}
	report, _, err := uc.dailyReport(ctx, day)
	return report, err
}

// TopProducts devuelve el ranking de productos vendidos de todo el libro.
// limit <= 0 devuelve todos.
func (uc *ReportUseCase) TopProducts(ctx context.Context, limit int) ([]dto.TopProductDTO, error) {
	list, err := uc.saleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("top productos: %w", err)
	}
	return toTopProducts(reporting.TopProducts(list), limit), nil
}

// Summary arma el resumen del dashboard: catálogo, stock bajo, ventas de hoy y totales.
// Catálogo y libro se leen en la misma instantánea, así el stock bajo y las ventas
// reflejan el mismo conjunto de commits.
func (uc *ReportUseCase) Summary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		products []*entity.Product
		ledger   []*entity.Sale
	)
	err := uc.readSnapshot(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		var err error
		if products, err = productRepo.List(ctx); err != nil {
			return fmt.Errorf("resumen: catálogo: %w", err)
		}
		if ledger, err = saleRepo.List(ctx); err != nil {
			return fmt.Errorf("resumen: ventas: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	today := uc.now().In(uc.loc)
	return &dto.DashboardSummaryDTO{
		TotalProducts: len(products),
		LowStock:      len(reporting.LowStock(products)),
		TodaySales:    reporting.DailyTotal(ledger, today, uc.loc),
		TotalSales:    reporting.GrandTotal(ledger),
		SaleCount:     len(ledger),
		Date:          today.Format(DateLayout),
	}, nil
}

// DailySalesPDF genera el PDF del reporte diario con el ranking de productos de ese día.
func (uc *ReportUseCase) DailySalesPDF(ctx context.Context, date string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("reporte pdf: generador no configurado")
	}
	day, err := uc.ParseDay(date)
	if err != nil {
		return nil, "", err
	}
	report, list, err := uc.dailyReport(ctx, day)
	if err != nil {
		return nil, "", err
	}
	top := toTopProducts(reporting.TopProducts(list), 0)

	pdfBytes, err = uc.generator.GenerateDailySalesPDF(ctx, report, top)
	if err != nil {
		return nil, "", fmt.Errorf("reporte pdf: generar: %w", err)
	}
	return pdfBytes, fmt.Sprintf("ventas_%s.pdf", report.Date), nil
}

func (uc *ReportUseCase) dailyReport(ctx context.Context, day time.Time) (*dto.DailySalesReport, []*entity.Sale, error) {
	start, end := reporting.DayBounds(day, uc.loc)
	list, err := uc.saleRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("reporte diario: ventas: %w", err)
	}
	customers, err := sales.LoadCustomers(ctx, uc.customerRepo, list)
	if err != nil {
		return nil, nil, fmt.Errorf("reporte diario: clientes: %w", err)
	}
	report := &dto.DailySalesReport{
		Date:     start.Format(DateLayout),
		Timezone: uc.loc.String(),
		Total:    reporting.DailyTotal(list, day, uc.loc),
		Count:    len(list),
		Sales:    sales.ToSaleResponses(list, customers),
	}
	return report, list, nil
}

func toTopProducts(ranking []reporting.ProductSales, limit int) []dto.TopProductDTO {
	if limit > 0 && len(ranking) > limit {
		ranking = ranking[:limit]
	}
	out := make([]dto.TopProductDTO, 0, len(ranking))
	for _, r := range ranking {
		out = append(out, dto.TopProductDTO{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			QuantitySold: r.QuantitySold,
			Revenue:      r.Revenue,
		})
	}
	return out
}
