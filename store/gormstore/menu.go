package gormstore

import (
	"context"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/google/uuid"
)

func (s *Store) CreateMenuItems(ctx context.Context, items ...*models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
	}
	return translate(s.db.WithContext(ctx).Create(items).Error)
}

func (s *Store) FindMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *Store) ListMenuItems(ctx context.Context, filter store.MenuFilter) ([]models.MenuItem, error) {
	query := s.db.WithContext(ctx)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	var items []models.MenuItem
	err := query.Order("category asc, name asc").Find(&items).Error
	return items, translate(err)
}

func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now()
	result := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"name":         item.Name,
		"description":  item.Description,
		"price":        item.Price,
		"category":     item.Category,
		"image":        item.Image,
		"is_available": item.IsAvailable,
		"updated_at":   item.UpdatedAt,
	})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMenuItems(ctx context.Context, ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.MenuItem{})
	return result.RowsAffected, translate(result.Error)
}

func (s *Store) DeleteAllMenuItems(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.MenuItem{})
	return result.RowsAffected, translate(result.Error)
}
