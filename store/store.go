// Package store defines the persistence boundary shared by every backend.
package store

import (
	"context"
	"errors"
	"time"

	"food-ordering-api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleStatus means the order left entry.FromStatus before the update landed.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

// MenuFilter narrows ListMenuItems. Zero value returns the whole catalog.
type MenuFilter struct {
	Category      models.Category
	AvailableOnly bool
}

// OrderFilter narrows ListOrders. Results are always newest first.
type OrderFilter struct {
	UserID        string
	Status        models.OrderStatus
	PopulateOwner bool
}

// CustomerSpend is one row of the top-customers report
type CustomerSpend struct {
	UserID     string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	OrderCount int64   `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string, role models.Role) error
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	CountUsers(ctx context.Context, role models.Role, since time.Time) (int64, error)
}

type MenuStore interface {
	CreateMenuItems(ctx context.Context, items ...*models.MenuItem) error
	FindMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItems(ctx context.Context, ids ...string) (int64, error)
	DeleteAllMenuItems(ctx context.Context) (int64, error)
}

type OrderStore interface {
	// CreateOrder persists the order with its items and history in one write.
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	// UpdateOrderStatus moves the order from entry.FromStatus to entry.ToStatus and
	// appends entry atomically. It returns ErrStaleStatus when the stored status
	// is no longer entry.FromStatus.
	UpdateOrderStatus(ctx context.Context, id string, entry models.OrderStatusHistory) error
	CountOrdersByUser(ctx context.Context, userIDs []string) (map[string]int64, error)
	TopCustomers(ctx context.Context, limit int) ([]CustomerSpend, error)
}

// Store is the full repository handle injected into services
type Store interface {
	UserStore
	MenuStore
	OrderStore
	Ping(ctx context.Context) error
	Close() error
}
