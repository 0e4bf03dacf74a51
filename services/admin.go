package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/store"
)

type AdminService struct {
	users store.UserStore
	log   *slog.Logger
}

func NewAdminService(users store.UserStore, log *slog.Logger) *AdminService {
	return &AdminService{users: users, log: logger.WithComponent(log, "admin")}
}

func (s *AdminService) List(ctx context.Context) ([]models.User, error) {
	admins, err := s.users.ListUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, internalError("list admins", err)
	}
	return admins, nil
}

func (s *AdminService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, validationError("All fields are required")
	}
	if len(password) < minPasswordLength {
		return nil, validationError("Password must be at least %d characters", minPasswordLength)
	}

	admin, err := createUser(ctx, s.users, name, email, password, models.RoleAdmin, "User with this email already exists")
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "admin created", "admin_id", admin.ID)
	return admin, nil
}

// Delete removes another admin account; actors cannot delete themselves
func (s *AdminService) Delete(ctx context.Context, actor *models.User, id string) error {
	if actor != nil && actor.ID == id {
		return validationError("You cannot delete your own account")
	}
	err := s.users.DeleteUser(ctx, id, models.RoleAdmin)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(err, "Admin user not found")
	}
	if err != nil {
		return internalError("delete admin", err)
	}
	s.log.InfoContext(ctx, "admin deleted", "admin_id", id)
	return nil
}

func (s *AdminService) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < minPasswordLength {
		return validationError("Password must be at least %d characters", minPasswordLength)
	}
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return internalError("find admin", err)
	}
	if user == nil || !user.Role.IsAdmin() {
		return notFound(store.ErrNotFound, "Admin user not found")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return internalError("update password", err)
	}
	s.log.InfoContext(ctx, "admin password reset", "admin_id", id)
	return nil
}
