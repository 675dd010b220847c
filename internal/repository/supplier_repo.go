package repository

import (
	"context"

	"inventory-catalog/internal/catalog"
	"inventory-catalog/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	FindAll(ctx context.Context) ([]model.Supplier, error)
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
	FindByCompanyName(ctx context.Context, name string) (*model.Supplier, error)
	ExistsByCompanyName(ctx context.Context, name string, excludeID uint) (bool, error)
	ProductCounts(ctx context.Context) (map[uint]int64, error)
	CountProducts(ctx context.Context, id uint) (int64, error)
	Create(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, supplier *model.Supplier, contacts catalog.Plan[catalog.ContactFields]) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) FindAll(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("id ASC").Find(&suppliers).Error
	return suppliers, translate(err)
}

// FindByID loads the supplier with its contacts and its products (category, description,
// quantity and image headers).
func (r *supplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.WithContext(ctx).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Products.Category").
		Preload("Products.Description").
		Preload("Products.Quantity").
		Preload("Products.Images", withoutImageData).
		First(&supplier, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &supplier, nil
}

func (r *supplierRepo) FindByCompanyName(ctx context.Context, name string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).Where("company_name = ?", name).First(&supplier).Error; err != nil {
		return nil, translate(err)
	}
	return &supplier, nil
}

// ExistsByCompanyName reports whether another supplier uses name. excludeID 0 excludes nothing.
func (r *supplierRepo) ExistsByCompanyName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Supplier{}).Where("company_name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, translate(err)
}

func (r *supplierRepo) ProductCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		SupplierID uint
		Total      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("supplier_id, COUNT(*) AS total").
		Where("supplier_id IS NOT NULL").
		Group("supplier_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.SupplierID] = row.Total
	}
	return counts, nil
}

func (r *supplierRepo) CountProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("supplier_id = ?", id).Count(&count).Error
	return count, translate(err)
}

// Create inserts the supplier and any contacts attached to it.
func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return translate(r.db.WithContext(ctx).Omit("Products").Create(supplier).Error)
}

// Update writes the supplier's fields, applies the contact plan and bumps the version in one
// transaction. supplier.Version must hold the version the edit was based on. An empty
// ProfileImage keeps the stored one.
func (r *supplierRepo) Update(ctx context.Context, supplier *model.Supplier, contacts catalog.Plan[catalog.ContactFields]) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Version check and scalar fields
		fields := map[string]interface{}{
			"company_name":   supplier.CompanyName,
			"person_name":    supplier.PersonName,
			"department":     supplier.Department,
			"email":          supplier.Email,
			"phone_number":   supplier.PhoneNumber,
			"address":        supplier.Address,
			"currency":       supplier.Currency,
			"payment_method": supplier.PaymentMethod,
			"courier":        supplier.Courier,
			"portal_status":  supplier.PortalStatus,
			"updated_by":     supplier.UpdatedBy,
			"version":        gorm.Expr("version + 1"),
		}
		if supplier.HasProfileImage() {
			fields["profile_image"] = supplier.ProfileImage
		}

		res := tx.Model(&model.Supplier{}).
			Where("id = ? AND version = ?", supplier.ID, supplier.Version).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Supplier{}).Where("id = ?", supplier.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrStaleVersion
		}

		// 2. Contacts
		if len(contacts.ToDelete) > 0 {
			if err := tx.Where("supplier_id = ? AND id IN ?", supplier.ID, contacts.ToDelete).
				Delete(&model.SupplierContact{}).Error; err != nil {
				return err
			}
		}
		for _, e := range contacts.ToUpdate {
			if err := tx.Model(&model.SupplierContact{}).
				Where("id = ? AND supplier_id = ?", e.ID, supplier.ID).
				Updates(map[string]interface{}{
					"name":  e.Fields.Name,
					"email": e.Fields.Email,
					"phone": e.Fields.Phone,
				}).Error; err != nil {
				return err
			}
		}
		if len(contacts.ToInsert) > 0 {
			rows := make([]model.SupplierContact, len(contacts.ToInsert))
			for i, f := range contacts.ToInsert {
				rows[i] = model.SupplierContact{SupplierID: supplier.ID, Name: f.Name, Email: f.Email, Phone: f.Phone}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		supplier.Version++
		return nil
	}))
}

// Delete removes the supplier and its contacts. Linked products make it fail with ErrInUse.
func (r *supplierRepo) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var linked int64
		if err := tx.Model(&model.Product{}).Where("supplier_id = ?", id).Count(&linked).Error; err != nil {
			return err
		}
		if linked > 0 {
			return ErrInUse
		}
		if err := tx.Where("supplier_id = ?", id).Delete(&model.SupplierContact{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Supplier{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func (r *supplierRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Supplier{}).Count(&count).Error
	return count, translate(err)
}
