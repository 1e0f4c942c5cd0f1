// Package pdf implementa la representación PDF del reporte diario de ventas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Fecha / Zona horaria                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Hora | Cliente | Líneas | Total                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: N° de ventas / TOTAL DEL DÍA                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MÁS VENDIDOS: Producto | Cantidad | Ingresos                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

var _ analytics.DailySalesPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa analytics.DailySalesPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador para la moneda ISO 4217 indicada.
func NewMarotoPDFGenerator(currencyCode string) (*MarotoPDFGenerator, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("currency[%s] is not valid: %w", currencyCode, err)
	}
	return &MarotoPDFGenerator{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}, nil
}

// GenerateDailySalesPDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDailySalesPDF(
	_ context.Context,
	report *dto.DailySalesReport,
	top []dto.TopProductDTO,
) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}
	loc, err := time.LoadLocation(report.Timezone)
	if err != nil {
		loc = time.UTC
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de ventas "+report.Date, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(salesHeaderRow())
	if len(report.Sales) == 0 {
		m.AddRows(emptyRow("Sin ventas registradas en el día."))
	}
	for _, s := range report.Sales {
		m.AddRows(g.saleRow(s, loc))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(report))

	m.AddRows(line.NewRow(3))
	m.AddRows(topHeaderRows()...)
	if len(top) == 0 {
		m.AddRows(emptyRow("Sin productos vendidos."))
	}
	for _, p := range top {
		m.AddRows(g.topRow(p))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.DailySalesReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE VENTAS DIARIAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+report.Date, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Zona horaria: "+report.Timezone, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorPrimary, Top: 2, Left: 1, Right: 1,
	}))
}

func salesHeaderRow() core.Row {
	return row.New(8).Add(
		headerCell("Hora", 2, align.Left),
		headerCell("Cliente", 5, align.Left),
		headerCell("Líneas", 2, align.Center),
		headerCell("Total", 3, align.Right),
	)
}

func (g *MarotoPDFGenerator) saleRow(s dto.SaleResponse, loc *time.Location) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(s.SaleDate.In(loc).Format("15:04:05"),
			props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(s.CustomerName,
			props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(strconv.Itoa(s.ItemCount),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New(g.formatMoney(s.Total),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func (g *MarotoPDFGenerator) totalsRow(report *dto.DailySalesReport) core.Row {
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			text.New("N° de ventas:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}),
			text.New("TOTAL DEL DÍA:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New(strconv.Itoa(report.Count), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(g.formatMoney(report.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

func topHeaderRows() []core.Row {
	return []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("PRODUCTOS MÁS VENDIDOS", props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(8).Add(
			headerCell("Producto", 7, align.Left),
			headerCell("Cantidad", 2, align.Center),
			headerCell("Ingresos", 3, align.Right),
		),
	}
}

func (g *MarotoPDFGenerator) topRow(p dto.TopProductDTO) core.Row {
	return row.New(7).Add(
		col.New(7).Add(text.New(p.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(strconv.Itoa(p.QuantitySold),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New(g.formatMoney(p.Revenue),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func emptyRow(msg string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney formatea el monto con el símbolo de la moneda y separador de miles.
// Ej: USD 1234.5 → "$ 1,234.50"
func (g *MarotoPDFGenerator) formatMoney(amount decimal.Decimal) string {
	return g.printer.Sprint(currency.Symbol(g.unit.Amount(amount.InexactFloat64())))
}
