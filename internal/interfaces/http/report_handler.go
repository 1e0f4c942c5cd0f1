package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
)

const defaultTopProducts = 5

// ReportHandler maneja los reportes del libro de ventas.
type ReportHandler struct {
	uc *appanalytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *appanalytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// DailySales devuelve las ventas de un día y su total.
// GET /api/reports/daily-sales?date=YYYY-MM-DD
//
// Sin date se usa el día actual en la zona horaria del reporte.
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	report, err := h.uc.DailySales(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// DailySalesPDF GET /api/reports/daily-sales/pdf?date=YYYY-MM-DD
func (h *ReportHandler) DailySalesPDF(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DailySalesPDF(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// TopProducts GET /api/reports/top-products?limit=5. limit <= 0 devuelve el ranking completo.
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	top, err := h.uc.TopProducts(c.UserContext(), c.QueryInt("limit", defaultTopProducts))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(top)
}

// Summary GET /api/reports/summary
//
// Respuesta: DashboardSummaryDTO (total_products, low_stock, today_sales, total_sales,
// sale_count, date).
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
