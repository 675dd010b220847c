package model

import "github.com/shopspring/decimal"

// SupplierNotAvailable is the supplier label stored when a product is created without one.
const SupplierNotAvailable = "N/A"

// Product is the catalog aggregate root. Description and Quantity live and die with it;
// Images are owned through ImageData.ProductID while PrimaryImageID only references one of them.
type Product struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	SupplierName string `gorm:"type:varchar(100)" json:"supplier_name"`
	SupplierID   *uint  `gorm:"index" json:"supplier_id,omitempty"`
	CategoryID   *uint  `gorm:"index" json:"category_id,omitempty"`

	// References one of Images. Kept as a bare column: images already point back at the
	// product, and a second foreign key would make the two tables mutually dependent.
	PrimaryImageID *uint `json:"primary_image_id,omitempty"`

	// Optimistic concurrency token, bumped on every edit.
	Version uint `gorm:"not null;default:1" json:"version"`

	Category    *Category    `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Supplier    *Supplier    `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT" json:"-"`
	Description *Description `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"description,omitempty"`
	Quantity    *Quantity    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"quantity,omitempty"`
	Images      []ImageData  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// CategoryName returns the linked category's display name, or "" when uncategorised.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// RetailPrice reports the product's retail price; ok is false when the product has no description.
func (p *Product) RetailPrice() (price decimal.Decimal, ok bool) {
	if p.Description == nil {
		return decimal.Zero, false
	}
	return p.Description.RetailPrice, true
}

// Stock reports the quantity on hand, nil when no quantity row is loaded.
func (p *Product) Stock() *int {
	if p.Quantity == nil {
		return nil
	}
	qty := p.Quantity.Qty
	return &qty
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

type Description struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"uniqueIndex;not null" json:"product_id"`
	Text      string `gorm:"type:text" json:"text"`
	Color     string `gorm:"type:varchar(50)" json:"color"`

	// "12.5 cm", "3 kg" or empty
	Height string `gorm:"type:varchar(50)" json:"height"`
	Width  string `gorm:"type:varchar(50)" json:"width"`
	Weight string `gorm:"type:varchar(50)" json:"weight"`

	WholesalePrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"wholesale_price"`
	RetailPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"retail_price"`
	Profit         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"profit"`
}

func (Description) TableName() string {
	return "descriptions"
}

type Quantity struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProductID uint `gorm:"uniqueIndex;not null" json:"product_id"`
	Qty       int  `gorm:"not null;default:0;check:qty >= 0" json:"qty"`
}

func (Quantity) TableName() string {
	return "quantities"
}

// ImageData is a binary image owned by one product. Order is 1-based display order.
type ImageData struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	Data      []byte `gorm:"type:bytea" json:"-"`
	Order     *int   `gorm:"column:image_order" json:"order,omitempty"`
}

func (ImageData) TableName() string {
	return "images"
}
