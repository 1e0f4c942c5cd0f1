// Package reporting deriva agregados de solo lectura a partir del libro de ventas.
// Todas las funciones son puras: no modifican las ventas recibidas y aceptan listas vacías.
package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// UnknownProductName nombre mostrado cuando una línea no tiene producto ni nombre.
const UnknownProductName = "Producto desconocido"

// ProductSales acumulado de ventas de un producto.
type ProductSales struct {
	ProductID    string // vacío si la línea perdió la referencia al producto
	ProductName  string
	QuantitySold int
	Revenue      decimal.Decimal
}

// DayBounds devuelve [inicio, fin) del día calendario de day en loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// FilterDay devuelve las ventas cuyo SaleDate cae en el día de day (zona loc), en el orden recibido.
func FilterDay(sales []*entity.Sale, day time.Time, loc *time.Location) []*entity.Sale {
	start, end := DayBounds(day, loc)
	out := make([]*entity.Sale, 0)
	for _, s := range sales {
		if !s.SaleDate.Before(start) && s.SaleDate.Before(end) {
			out = append(out, s)
		}
	}
	return out
}

// DailyTotal suma Total de las ventas del día. Sin ventas devuelve cero.
func DailyTotal(sales []*entity.Sale, day time.Time, loc *time.Location) decimal.Decimal {
	return GrandTotal(FilterDay(sales, day, loc))
}

// GrandTotal suma Total de todas las ventas.
func GrandTotal(sales []*entity.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Total)
	}
	return total
}

// TopProducts agrupa las líneas de todas las ventas por producto (o por el nombre copiado
// si la línea no tiene ProductID) y ordena por cantidad vendida descendente.
// Los empates conservan el orden en que cada producto apareció por primera vez.
func TopProducts(sales []*entity.Sale) []ProductSales {
	index := make(map[string]int)
	out := make([]ProductSales, 0)
	for _, s := range sales {
		for _, item := range s.Items {
			key, name := groupKey(item)
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, ProductSales{
					ProductID:   item.ProductID,
					ProductName: name,
					Revenue:     decimal.Zero,
				})
			}
			out[i].QuantitySold += item.Quantity
			out[i].Revenue = out[i].Revenue.Add(item.Subtotal())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].QuantitySold > out[j].QuantitySold
	})
	return out
}

func groupKey(item entity.SaleItem) (key, name string) {
	name = item.ProductName
	if name == "" {
		name = UnknownProductName
	}
	if item.ProductID != "" {
		return "id:" + item.ProductID, name
	}
	return "name:" + name, name
}

// LowStock devuelve los productos con stock igual o menor a su umbral de alerta.
func LowStock(products []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}
