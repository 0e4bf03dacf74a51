package gormstore

import (
	"context"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	// GORM wraps the order row and its associations in one transaction.
	return translate(s.db.WithContext(ctx).Omit("User").Create(order).Error)
}

func (s *Store) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.preloadOrder(s.db.WithContext(ctx)).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	query := s.preloadOrder(s.db.WithContext(ctx))
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PopulateOwner {
		query = query.Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email") })
	}
	var orders []models.Order
	err := query.Order("created_at desc").Find(&orders).Error
	return orders, translate(err)
}

func (s *Store) preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.MenuItem")
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, entry models.OrderStatusHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, entry.FromStatus).
			Updates(map[string]interface{}{
				"status":     entry.ToStatus,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return translate(result.Error)
		}
		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return translate(err)
			}
			if n == 0 {
				return store.ErrNotFound
			}
			return store.ErrStaleStatus
		}
		entry.ID = 0
		entry.OrderID = id
		return translate(tx.Create(&entry).Error)
	})
}

func (s *Store) CountOrdersByUser(ctx context.Context, userIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		UserID string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("user_id, count(*) as count").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}
	return counts, nil
}

func (s *Store) TopCustomers(ctx context.Context, limit int) ([]store.CustomerSpend, error) {
	var rows []store.CustomerSpend
	err := s.db.WithContext(ctx).Table("orders").
		Select("orders.user_id AS user_id, users.name AS name, users.email AS email, " +
			"count(*) AS order_count, sum(orders.total_amount) AS total_spent").
		Joins("JOIN users ON users.id = orders.user_id").
		Group("orders.user_id, users.name, users.email").
		Order("order_count desc, total_spent desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, translate(err)
}
