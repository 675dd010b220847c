// Command seed loads a small demo catalog through the service layer. It does nothing when the
// catalog already has categories.
package main

import (
	"context"

	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"
	"inventory-catalog/internal/service"
	"inventory-catalog/pkg/config"
	"inventory-catalog/pkg/database"
	"inventory-catalog/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type demoProduct struct {
	name     string
	category string
	supplier string
	retail   string
	cost     string
	qty      int
	color    string
}

var (
	demoCategories = []string{"Chairs", "Tables", "Lighting", "Storage"}

	demoSuppliers = []service.CreateSupplierRequest{
		{
			SupplierForm: service.SupplierForm{
				CompanyName: "Narra Woodworks", PersonName: "Lorna Reyes", Email: "lorna@narra.test",
				PhoneNumber: "0917 555 0101", Address: "88 Katipunan Ave, Quezon City", Currency: "PHP",
				PaymentMethod: "Bank Transfer", Courier: "LBC",
			},
			ContactName: "Paolo Cruz", ContactEmail: "paolo@narra.test", ContactPhone: "0917 555 0102",
		},
		{
			SupplierForm: service.SupplierForm{
				CompanyName: "Lumen Trading", PersonName: "Grace Lim", Email: "grace@lumen.test",
				PhoneNumber: "0918 555 0201", Address: "3 Shaw Blvd, Pasig", Currency: "USD",
				PaymentMethod: "Credit", Courier: "J&T", PortalStatus: "Inactive",
			},
		},
	}

	demoProducts = []demoProduct{
		{name: "Oak Dining Chair", category: "Chairs", supplier: "Narra Woodworks", retail: "3499", cost: "2100", qty: 18, color: "Natural"},
		{name: "Rattan Lounge Chair", category: "Chairs", supplier: "Narra Woodworks", retail: "5899", cost: "3600", qty: 27, color: "Honey"},
		{name: "Narra Coffee Table", category: "Tables", supplier: "Narra Woodworks", retail: "8999", cost: "5400", qty: 42, color: "Walnut"},
		{name: "Brass Floor Lamp", category: "Lighting", supplier: "Lumen Trading", retail: "4250", cost: "2500", qty: 75, color: "Gold"},
		{name: "Paper Pendant", category: "Lighting", supplier: "Lumen Trading", retail: "1299", cost: "600", qty: 0, color: "White"},
		{name: "Stacking Crate", category: "Storage", retail: "799", cost: "350", qty: 120},
	}
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if envErr != nil {
		log.Warn(".env file not found")
	}

	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	categoryRepo := repository.NewCategoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)

	if n, err := categoryRepo.Count(ctx); err != nil {
		log.Fatal("count categories", zap.Error(err))
	} else if n > 0 {
		log.Info("catalog already seeded", zap.Int64("categories", n))
		return
	}

	categories := service.NewCategoryService(categoryRepo, nil, log)
	suppliers := service.NewSupplierService(supplierRepo, nil, log)
	products := service.NewCatalogService(repository.NewProductRepo(db), categoryRepo, supplierRepo,
		repository.NewImageRepo(db), nil, log)

	categoryIDs := make(map[string]uint, len(demoCategories))
	for _, name := range demoCategories {
		c, err := categories.Create(ctx, &service.CreateCategoryRequest{Name: name}, service.SystemActor)
		if err != nil {
			log.Fatal("seed category", zap.String("name", name), zap.Error(err))
		}
		categoryIDs[name] = c.ID
	}

	for i := range demoSuppliers {
		req := demoSuppliers[i]
		if _, err := suppliers.CreateSupplier(ctx, &req, service.SystemActor); err != nil {
			log.Fatal("seed supplier", zap.String("name", req.CompanyName), zap.Error(err))
		}
	}

	for _, p := range demoProducts {
		retail := decimal.RequireFromString(p.retail)
		cost := decimal.RequireFromString(p.cost)
		profit := retail.Sub(cost)
		categoryID := categoryIDs[p.category]

		req := &service.CreateProductRequest{ProductForm: service.ProductForm{
			Name:           p.name,
			SupplierName:   p.supplier,
			CategoryID:     &categoryID,
			Color:          p.color,
			WholesalePrice: &cost,
			RetailPrice:    &retail,
			Profit:         &profit,
			Quantity:       p.qty,
		}}
		if _, err := products.CreateProduct(ctx, req, service.SystemActor); err != nil {
			log.Fatal("seed product", zap.String("name", p.name), zap.Error(err))
		}
	}

	log.Info("demo catalog seeded",
		zap.Int("categories", len(demoCategories)),
		zap.Int("suppliers", len(demoSuppliers)),
		zap.Int("products", len(demoProducts)))
}
