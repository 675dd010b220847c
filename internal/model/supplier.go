package model

// DefaultPortalStatus is applied when a supplier is saved without a portal status.
const DefaultPortalStatus = "Active"

type Supplier struct {
	BaseModel
	CompanyName   string `gorm:"type:varchar(100);uniqueIndex;not null" json:"company_name"`
	ProfileImage  []byte `gorm:"type:bytea" json:"-"`
	PersonName    string `gorm:"type:varchar(100)" json:"person_name"`
	Department    string `gorm:"type:varchar(100)" json:"department"`
	Email         string `gorm:"type:varchar(100)" json:"email"`
	PhoneNumber   string `gorm:"type:varchar(50);not null" json:"phone_number"`
	Address       string `gorm:"type:varchar(255)" json:"address"`
	Currency      string `gorm:"type:varchar(50)" json:"currency"`
	PaymentMethod string `gorm:"type:varchar(50)" json:"payment_method"`
	Courier       string `gorm:"type:varchar(50)" json:"courier"`
	PortalStatus  string `gorm:"type:varchar(20);not null;default:'Active'" json:"portal_status"`

	Version uint `gorm:"not null;default:1" json:"version"`

	Contacts []SupplierContact `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
	Products []Product         `gorm:"foreignKey:SupplierID" json:"-"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// HasProfileImage reports whether a non-empty profile image is stored.
func (s *Supplier) HasProfileImage() bool {
	return len(s.ProfileImage) > 0
}

type SupplierContact struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SupplierID uint   `gorm:"index;not null" json:"supplier_id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Email      string `gorm:"type:varchar(100);not null" json:"email"`
	Phone      string `gorm:"type:varchar(50);not null" json:"phone"`
}

func (SupplierContact) TableName() string {
	return "supplier_contacts"
}
