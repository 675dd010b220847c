package service

import (
	"context"
	"errors"
	"strings"

	"inventory-catalog/internal/model"
	"inventory-catalog/internal/repository"

	"go.uber.org/zap"
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest) (*model.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	RoleCode string `json:"role_code" validate:"required,oneof=MASTER_ADMIN ADMIN"`
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		log:      log.Named("user"),
	}
}

// CreateUser adds a user holding the privileges of the requested role.
func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*model.UserResponse, error) {
	// 1. Validate request
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Check if email already exists
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, invalidField("email", "email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, persistenceFault(s.log, "find user", err)
	}

	// 3. Resolve role
	role, err := s.roleRepo.FindByCode(ctx, req.RoleCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidField("role_code", "role not found")
	}
	if err != nil {
		return nil, persistenceFault(s.log, "find role", err)
	}

	// 4. Create user
	user := &model.User{
		Email:      req.Email,
		FullName:   req.FullName,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalidField("email", "email already exists")
		}
		return nil, persistenceFault(s.log, "create user", err)
	}

	user.Role = role
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, persistenceFault(s.log, "list users", err)
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out, nil
}
