package gormstore

import (
	"context"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":             user.Name,
		"email":            user.Email,
		"password_hash":    user.PasswordHash,
		"role":             user.Role,
		"delivery_address": user.DeliveryAddress,
		"phone_number":     user.PhoneNumber,
		"updated_at":       time.Now(),
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id string, role models.Role) error {
	result := s.db.WithContext(ctx).Where("id = ? AND role = ?", id, role).Delete(&models.User{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Where("role = ?", role).Order("created_at desc").Find(&users).Error
	return users, translate(err)
}

func (s *Store) CountUsers(ctx context.Context, role models.Role, since time.Time) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	var n int64
	err := query.Count(&n).Error
	return n, translate(err)
}
