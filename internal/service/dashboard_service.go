package service

import (
	"context"

	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	categoryRepo repository.CategoryRepository
	log          *zap.Logger
}

func NewDashboardService(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	categoryRepo repository.CategoryRepository,
	log *zap.Logger,
) DashboardService {
	return &dashboardService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		categoryRepo: categoryRepo,
		log:          log.Named("dashboard"),
	}
}

// Stats counts products per stock status and values the stock at retail price. Products without
// a price or a quantity row add nothing to the valuation.
func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "load products", err)
	}

	stats := &DashboardStats{
		TotalProducts:  int64(len(products)),
		StockStatus:    make(map[catalog.StockStatus]int64, len(catalog.StockStatuses)+1),
		TotalValuation: decimal.Zero,
	}
	for _, st := range catalog.StockStatuses {
		stats.StockStatus[st] = 0
	}

	for i := range products {
		p := &products[i]
		stock := p.Stock()
		stats.StockStatus[catalog.ClassifyStock(stock)]++

		price, ok := p.RetailPrice()
		if ok && stock != nil {
			stats.TotalValuation = stats.TotalValuation.Add(price.Mul(decimal.NewFromInt(int64(*stock))))
		}
	}

	if stats.TotalSuppliers, err = s.supplierRepo.Count(ctx); err != nil {
		return nil, persistenceFault(s.log, "count suppliers", err)
	}
	if stats.TotalCategories, err = s.categoryRepo.Count(ctx); err != nil {
		return nil, persistenceFault(s.log, "count categories", err)
	}
	return stats, nil
}
