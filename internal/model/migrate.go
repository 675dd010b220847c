package model

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the application uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&Supplier{},
		&SupplierContact{},
		&Product{},
		&Description{},
		&Quantity{},
		&ImageData{},
		&Privilege{},
		&Role{},
		&User{},
	)
}
