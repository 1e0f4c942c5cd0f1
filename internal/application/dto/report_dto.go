package dto

import "github.com/shopspring/decimal"

// DailySalesReport respuesta de GET /api/reports/daily-sales.
type DailySalesReport struct {
	Date     string          `json:"date"`     // YYYY-MM-DD en la zona del reporte
	Timezone string          `json:"timezone"` // ej: "UTC"
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Sales    []SaleResponse  `json:"sales"`
}

// TopProductDTO producto en el ranking de ventas.
type TopProductDTO struct {
	ProductID    string          `json:"product_id,omitempty"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DashboardSummaryDTO respuesta de GET /api/reports/summary.
type DashboardSummaryDTO struct {
	TotalProducts int             `json:"total_products"`
	LowStock      int             `json:"low_stock"`
	TodaySales    decimal.Decimal `json:"today_sales"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	SaleCount     int             `json:"sale_count"`
	Date          string          `json:"date"`
}
