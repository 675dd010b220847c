package repository

import (
	"context"

	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/model"

	"gorm.io/gorm"
)

// ImageChanges is the image part of an aggregate update.
type ImageChanges struct {
	Delete []uint
	// New display order of kept images.
	Reorder map[uint]int
	Insert  []model.ImageData
}

type ProductRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	CreateAggregate(ctx context.Context, product *model.Product) error
	SetPrimaryImage(ctx context.Context, productID uint, imageID *uint) error
	UpdateAggregate(ctx context.Context, product *model.Product, images ImageChanges) error
	Delete(ctx context.Context, id uint) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// withoutImageData loads image rows without their payload; listings only need identities and order.
func withoutImageData(db *gorm.DB) *gorm.DB {
	return db.Select("id", "product_id", "image_order")
}

// FindAll loads every product with Category, Description, Quantity and image headers.
func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Description").
		Preload("Quantity").
		Preload("Images", withoutImageData).
		Order("id ASC").
		Find(&products).Error
	return products, translate(err)
}

// FindByID loads one complete aggregate, image payloads included.
func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Description").
		Preload("Quantity").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("image_order ASC NULLS LAST, id ASC")
		}).
		First(&product, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// CreateAggregate inserts the product with its description, quantity and images in one transaction.
// Image identities are assigned on return.
func (r *productRepo) CreateAggregate(ctx context.Context, product *model.Product) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Category", "Supplier").Create(product).Error
	}))
}

func (r *productRepo) SetPrimaryImage(ctx context.Context, productID uint, imageID *uint) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("primary_image_id", imageID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAggregate writes the product's scalar fields, description and quantity, applies the image
// changes, and bumps the version. product.Version must hold the version the edit was based on.
//
// A nil PrimaryImageID is filled with the lowest-ordered image remaining after the changes.
func (r *productRepo) UpdateAggregate(ctx context.Context, product *model.Product, images ImageChanges) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Version check and scalar fields
		res := tx.Model(&model.Product{}).
			Where("id = ? AND version = ?", product.ID, product.Version).
			Updates(map[string]interface{}{
				"name":          product.Name,
				"supplier_name": product.SupplierName,
				"supplier_id":   product.SupplierID,
				"category_id":   product.CategoryID,
				"updated_by":    product.UpdatedBy,
				"version":       gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrStaleVersion
		}

		// 2. Owned one-to-one rows
		if product.Description != nil {
			if err := tx.Where(&model.Description{ProductID: product.ID}).
				Assign(descriptionColumns(product.Description)).
				FirstOrCreate(&model.Description{ProductID: product.ID}).Error; err != nil {
				return err
			}
		}
		if product.Quantity != nil {
			if err := tx.Where(&model.Quantity{ProductID: product.ID}).
				Assign(map[string]interface{}{"qty": product.Quantity.Qty}).
				FirstOrCreate(&model.Quantity{ProductID: product.ID}).Error; err != nil {
				return err
			}
		}

		// 3. Images
		if len(images.Delete) > 0 {
			if err := tx.Model(&model.Product{}).
				Where("id = ? AND primary_image_id IN ?", product.ID, images.Delete).
				Update("primary_image_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ? AND id IN ?", product.ID, images.Delete).
				Delete(&model.ImageData{}).Error; err != nil {
				return err
			}
		}
		for id, order := range images.Reorder {
			if err := tx.Model(&model.ImageData{}).
				Where("id = ? AND product_id = ?", id, product.ID).
				Update("image_order", order).Error; err != nil {
				return err
			}
		}
		for i := range images.Insert {
			images.Insert[i].ProductID = product.ID
		}
		if len(images.Insert) > 0 {
			if err := tx.Create(&images.Insert).Error; err != nil {
				return err
			}
		}

		// 4. Primary image
		primary := product.PrimaryImageID
		if primary == nil {
			var remaining []model.ImageData
			if err := withoutImageData(tx).Where("product_id = ?", product.ID).Find(&remaining).Error; err != nil {
				return err
			}
			primary = catalog.SelectPrimaryImage(remaining)
		}
		product.PrimaryImageID = primary
		product.Version++
		return tx.Model(&model.Product{}).
			Where("id = ?", product.ID).
			Update("primary_image_id", primary).Error
	}))
}

func descriptionColumns(d *model.Description) map[string]interface{} {
	return map[string]interface{}{
		"text":            d.Text,
		"color":           d.Color,
		"height":          d.Height,
		"width":           d.Width,
		"weight":          d.Weight,
		"wholesale_price": d.WholesalePrice,
		"retail_price":    d.RetailPrice,
		"profit":          d.Profit,
	}
}

// Delete removes the product together with its description, quantity and images.
func (r *productRepo) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", id).Update("primary_image_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ImageData{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Description{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Quantity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	}))
}
