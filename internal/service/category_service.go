package service

import (
	"context"
	"errors"
	"strings"

	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"

	"go.uber.org/zap"
)

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Create(ctx context.Context, req *CreateCategoryRequest, actor Actor) (*model.Category, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	events       Publisher
	log          *zap.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, events Publisher, log *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		events:       events,
		log:          log.Named("category"),
	}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "list categories", err)
	}
	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, req *CreateCategoryRequest, actor Actor) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, persistenceFault(s.log, "check category name", err)
	}
	if exists {
		return nil, invalidField("name", "A category with this name already exists.")
	}

	category := &model.Category{Name: req.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		// lost a race with a concurrent create
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalidField("name", "A category with this name already exists.")
		}
		return nil, persistenceFault(s.log, "create category", err)
	}

	publish(s.events, "created", "category", category.ID, category.Name, actor)
	return category, nil
}

// Delete removes the category; its products stay, uncategorised.
func (s *categoryService) Delete(ctx context.Context, id uint, actor Actor) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistenceFault(s.log, "load category", err)
	}

	detached, err := s.categoryRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return persistenceFault(s.log, "delete category", err)
	}

	s.log.Info("category deleted", zap.Uint("id", id), zap.Int64("detached_products", detached))
	publish(s.events, "deleted", "category", id, category.Name, actor)
	return nil
}
