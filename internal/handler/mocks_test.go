package handler

import (
	"context"

	"inventory-catalog/internal/service"
)

type mockCatalogService struct {
	listFn   func(q service.ProductQuery) (*service.ProductListing, error)
	getFn    func(id uint) (*service.ProductDetail, error)
	createFn func(req *service.CreateProductRequest, actor service.Actor) (*service.ProductDetail, error)
	updateFn func(id uint, req *service.UpdateProductRequest, actor service.Actor) (*service.ProductDetail, error)
	deleteFn func(id uint, actor service.Actor) error
	exportFn func(q service.ProductQuery) ([]byte, error)
	imageFn  func(id uint) ([]byte, string, error)
}

func (m *mockCatalogService) ListProducts(ctx context.Context, q service.ProductQuery) (*service.ProductListing, error) {
	return m.listFn(q)
}

func (m *mockCatalogService) GetProduct(ctx context.Context, id uint) (*service.ProductDetail, error) {
	return m.getFn(id)
}

func (m *mockCatalogService) CreateProduct(ctx context.Context, req *service.CreateProductRequest, actor service.Actor) (*service.ProductDetail, error) {
	return m.createFn(req, actor)
}

func (m *mockCatalogService) UpdateProduct(ctx context.Context, id uint, req *service.UpdateProductRequest, actor service.Actor) (*service.ProductDetail, error) {
	return m.updateFn(id, req, actor)
}

func (m *mockCatalogService) DeleteProduct(ctx context.Context, id uint, actor service.Actor) error {
	return m.deleteFn(id, actor)
}

func (m *mockCatalogService) ExportProducts(ctx context.Context, q service.ProductQuery) ([]byte, error) {
	return m.exportFn(q)
}

func (m *mockCatalogService) FormOptions(ctx context.Context) (*service.FormOptions, error) {
	return &service.FormOptions{}, nil
}

func (m *mockCatalogService) Image(ctx context.Context, id uint) ([]byte, string, error) {
	return m.imageFn(id)
}

type mockSupplierService struct {
	createFn func(req *service.CreateSupplierRequest) (*service.SupplierDetail, error)
	updateFn func(id uint, req *service.UpdateSupplierRequest) (*service.SupplierDetail, error)
	deleteFn func(id uint) error
	imageFn  func(id uint) ([]byte, string, error)
}

func (m *mockSupplierService) ListSuppliers(ctx context.Context, q service.SupplierQuery) (*service.SupplierListing, error) {
	return &service.SupplierListing{Filters: q}, nil
}

func (m *mockSupplierService) GetSupplierDetail(ctx context.Context, id uint) (*service.SupplierDetail, error) {
	return &service.SupplierDetail{ID: id}, nil
}

func (m *mockSupplierService) CreateSupplier(ctx context.Context, req *service.CreateSupplierRequest, actor service.Actor) (*service.SupplierDetail, error) {
	return m.createFn(req)
}

func (m *mockSupplierService) UpdateSupplier(ctx context.Context, id uint, req *service.UpdateSupplierRequest, actor service.Actor) (*service.SupplierDetail, error) {
	return m.updateFn(id, req)
}

func (m *mockSupplierService) DeleteSupplier(ctx context.Context, id uint, actor service.Actor) error {
	return m.deleteFn(id)
}

func (m *mockSupplierService) SupplierImage(ctx context.Context, id uint) ([]byte, string, error) {
	return m.imageFn(id)
}

type mockAuthService struct {
	loginFn    func(email, password string) (*service.LoginResponse, error)
	validateFn func(token string) (*service.TokenValidationResponse, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	return m.loginFn(email, password)
}

func (m *mockAuthService) ValidateToken(ctx context.Context, tokenString string) (*service.TokenValidationResponse, error) {
	return m.validateFn(tokenString)
}
