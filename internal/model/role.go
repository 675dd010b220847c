package model

// Role groups privileges handed to users on creation
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MASTER_ADMIN, ADMIN
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleAdmin       = "ADMIN"
)

var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full catalog access including deletes",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Catalog editing without deletes or user management",
	},
}

// GrantsPrivilege decides the default privilege set of a role.
func (r *Role) GrantsPrivilege(code string) bool {
	switch r.Code {
	case RoleMasterAdmin:
		return true
	case RoleAdmin:
		switch code {
		case PrivProductDelete, PrivSupplierDelete, PrivCategoryDelete, PrivUserManage:
			return false
		}
		return true
	}
	return false
}
