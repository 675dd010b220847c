package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

// Privilege codes checked by the route guards.
const (
	PrivProductCreate  = "product:create"
	PrivProductUpdate  = "product:update"
	PrivProductDelete  = "product:delete"
	PrivSupplierCreate = "supplier:create"
	PrivSupplierUpdate = "supplier:update"
	PrivSupplierDelete = "supplier:delete"
	PrivCategoryCreate = "category:create"
	PrivCategoryDelete = "category:delete"
	PrivDashboardView  = "dashboard:view"
	PrivUserManage     = "user:manage"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivSupplierCreate, Name: "Create Supplier"},
	{Code: PrivSupplierUpdate, Name: "Update Supplier"},
	{Code: PrivSupplierDelete, Name: "Delete Supplier"},
	{Code: PrivCategoryCreate, Name: "Create Category"},
	{Code: PrivCategoryDelete, Name: "Delete Category"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
	{Code: PrivUserManage, Name: "Manage Users"},
}
