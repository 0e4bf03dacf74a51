package services

import (
	"context"
	"errors"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"
)

const (
	topCustomerLimit  = 5
	newCustomerWindow = 30 * 24 * time.Hour
)

// CustomerSummary is a customer row with its order count
type CustomerSummary struct {
	models.User
	OrderCount int64 `json:"orderCount"`
}

type CustomerStats struct {
	TotalCustomers int64                 `json:"totalCustomers"`
	TopCustomers   []store.CustomerSpend `json:"topCustomers"`
	NewCustomers   int64                 `json:"newCustomers"`
}

type CustomerService struct {
	store store.Store
	now   func() time.Time
}

func NewCustomerService(s store.Store) *CustomerService {
	return &CustomerService{store: s, now: func() time.Time { return time.Now().UTC() }}
}

func (s *CustomerService) List(ctx context.Context) ([]CustomerSummary, error) {
	users, err := s.store.ListUsersByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, internalError("list customers", err)
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	counts, err := s.store.CountOrdersByUser(ctx, ids)
	if err != nil {
		return nil, internalError("count orders", err)
	}

	out := make([]CustomerSummary, len(users))
	for i, u := range users {
		out[i] = CustomerSummary{User: u, OrderCount: counts[u.ID]}
	}
	return out, nil
}

// Orders lists a customer's orders; admins are not customers
func (s *CustomerService) Orders(ctx context.Context, customerID string) ([]models.Order, error) {
	user, err := s.store.FindUserByID(ctx, customerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, internalError("find customer", err)
	}
	if user == nil || !user.Role.IsCustomer() {
		return nil, notFound(store.ErrNotFound, "Customer not found")
	}

	orders, err := s.store.ListOrders(ctx, store.OrderFilter{UserID: customerID})
	if err != nil {
		return nil, internalError("list customer orders", err)
	}
	return orders, nil
}

func (s *CustomerService) Stats(ctx context.Context) (*CustomerStats, error) {
	total, err := s.store.CountUsers(ctx, models.RoleUser, time.Time{})
	if err != nil {
		return nil, internalError("count customers", err)
	}
	top, err := s.store.TopCustomers(ctx, topCustomerLimit)
	if err != nil {
		return nil, internalError("top customers", err)
	}
	if top == nil {
		top = []store.CustomerSpend{}
	}
	recent, err := s.store.CountUsers(ctx, models.RoleUser, s.now().Add(-newCustomerWindow))
	if err != nil {
		return nil, internalError("count new customers", err)
	}
	return &CustomerStats{TotalCustomers: total, TopCustomers: top, NewCustomers: recent}, nil
}
