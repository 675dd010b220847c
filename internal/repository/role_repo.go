package repository

import (
	"context"
	"errors"

	"inventory-catalog/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	SeedDefaults(ctx context.Context) error
	GrantDefaultPrivileges(ctx context.Context, privileges []model.Privilege) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Find(&roles).Error
	return roles, translate(err)
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, translate(err)
	}
	return &role, nil
}

func (r *roleRepo) SeedDefaults(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	for _, defaultRole := range model.DefaultRoles {
		var existingRole model.Role
		err := db.Where("code = ?", defaultRole.Code).First(&existingRole).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role := defaultRole
			if err := db.Create(&role).Error; err != nil {
				return translate(err)
			}
		} else if err != nil {
			return translate(err)
		}
	}
	return nil
}

// GrantDefaultPrivileges gives every role without privileges the subset its code allows.
func (r *roleRepo) GrantDefaultPrivileges(ctx context.Context, privileges []model.Privilege) error {
	roles, err := r.FindAll(ctx)
	if err != nil {
		return err
	}
	for i := range roles {
		role := &roles[i]
		if len(role.Privileges) > 0 {
			continue
		}
		var granted []model.Privilege
		for _, p := range privileges {
			if role.GrantsPrivilege(p.Code) {
				granted = append(granted, p)
			}
		}
		if err := r.db.WithContext(ctx).Model(role).Association("Privileges").Replace(granted); err != nil {
			return translate(err)
		}
	}
	return nil
}
