package repository

import (
	"context"

	"inventory-catalog/internal/model"

	"gorm.io/gorm"
)

type ImageRepository interface {
	FindByID(ctx context.Context, id uint) (*model.ImageData, error)
}

type imageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) ImageRepository {
	return &imageRepo{db}
}

func (r *imageRepo) FindByID(ctx context.Context, id uint) (*model.ImageData, error) {
	var image model.ImageData
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, translate(err)
	}
	return &image, nil
}
