package sales

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/cart"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/reporting"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// NoCustomerName se muestra cuando la venta no tiene cliente o el cliente fue eliminado.
const NoCustomerName = "Sin cliente"

// LoadCustomers trae en una sola consulta los clientes referenciados por las ventas.
func LoadCustomers(ctx context.Context, repo repository.CustomerRepository, list []*entity.Sale) (map[string]*entity.Customer, error) {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, s := range list {
		if s.CustomerID == "" || seen[s.CustomerID] {
			continue
		}
		seen[s.CustomerID] = true
		ids = append(ids, s.CustomerID)
	}
	if len(ids) == 0 {
		return map[string]*entity.Customer{}, nil
	}
	return repo.GetByIDs(ctx, ids)
}

// ToSaleResponses convierte las ventas a DTO resolviendo el nombre del cliente.
func ToSaleResponses(list []*entity.Sale, customers map[string]*entity.Customer) []dto.SaleResponse {
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSaleResponse(s, customers))
	}
	return out
}

// ToSaleResponse convierte una venta a DTO.
func ToSaleResponse(s *entity.Sale, customers map[string]*entity.Customer) dto.SaleResponse {
	name := NoCustomerName
	if c, ok := customers[s.CustomerID]; ok && c != nil {
		name = c.Name
	}
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		productName := it.ProductName
		if productName == "" {
			productName = reporting.UnknownProductName
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: productName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
		})
	}
	return dto.SaleResponse{
		ID:           s.ID,
		SaleDate:     s.SaleDate,
		CustomerID:   s.CustomerID,
		CustomerName: name,
		Total:        s.Total,
		ItemCount:    len(s.Items),
		Items:        items,
	}
}

func toCartResponse(c *cart.Cart) *dto.CartResponse {
	lines := c.Lines()
	out := make([]dto.CartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.CartLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Subtotal:    l.Subtotal(),
		})
	}
	return &dto.CartResponse{Lines: out, Total: c.Total()}
}
