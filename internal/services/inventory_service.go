package services

import (
	"context"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/validate"
)

const (
	StockIn  = "IN_STOCK"
	StockLow = "LOW_STOCK"
	StockOut = "OUT_OF_STOCK"

	lowStockAt = 5
)

type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

// CheckAvailability converts qty -> IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	id, ok := validate.ID(productID)
	if !ok {
		return domain.Availability{}, domain.NotFound("product")
	}
	qty, err := s.Inv.Qty(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}

	status := StockOut
	switch {
	case qty >= lowStockAt:
		status = StockIn
	case qty > 0:
		status = StockLow
	}
	return domain.Availability{ProductID: id, Status: status, Qty: qty}, nil
}

func (s *InventoryService) SetStock(ctx context.Context, productID string, qty int) error {
	id, ok := validate.ID(productID)
	if !ok {
		return domain.NotFound("product")
	}
	if qty < 0 || qty > validate.MaxQty {
		return domain.Invalid("stock must be between 0 and %d", validate.MaxQty)
	}
	return s.Inv.SetQty(ctx, id, qty)
}

// Low lists products that are running out, for the admin dashboard.
func (s *InventoryService) Low(ctx context.Context, limit int) ([]repos.StockRow, error) {
	return s.Inv.Low(ctx, lowStockAt-1, limit)
}
