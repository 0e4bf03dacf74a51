package services

import (
	"context"
	"testing"
	"time"

	"food-ordering-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerListAndStats(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	svc := NewCustomerService(f.store)
	quiet := seedUser(t, f.store, "quiet", models.RoleUser, "", "")
	item := seedMenuItem(t, f.store, "Thali", 150, true)

	for i := 0; i < 2; i++ {
		_, err := f.svc.PlaceOrder(ctx, f.customer, PlaceOrderInput{
			Items:           []OrderLine{{MenuItemID: item.ID, Quantity: 1}},
			DeliveryAddress: "221B Baker St",
			PhoneNumber:     "555-1234",
		})
		require.NoError(t, err)
	}

	customers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2, "admins are not customers")
	counts := map[string]int64{}
	for _, c := range customers {
		counts[c.ID] = c.OrderCount
	}
	assert.EqualValues(t, 2, counts[f.customer.ID])
	assert.EqualValues(t, 0, counts[quiet.ID])

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalCustomers)
	assert.EqualValues(t, 2, stats.NewCustomers)
	require.Len(t, stats.TopCustomers, 1)
	top := stats.TopCustomers[0]
	assert.Equal(t, f.customer.ID, top.UserID)
	assert.Equal(t, "priya", top.Name)
	assert.EqualValues(t, 2, top.OrderCount)
	assert.InDelta(t, 300.0, top.TotalSpent, 1e-9)
}

func TestCustomerStatsNewCustomerWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	svc := NewCustomerService(s)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	for name, age := range map[string]time.Duration{
		"veteran": 40 * 24 * time.Hour,
		"edge":    31 * 24 * time.Hour,
		"recent":  29 * 24 * time.Hour,
		"today":   time.Hour,
	} {
		u := &models.User{
			Name:         name,
			Email:        name + "@example.com",
			PasswordHash: "x",
			Role:         models.RoleUser,
			CreatedAt:    now.Add(-age),
		}
		require.NoError(t, s.CreateUser(ctx, u))
	}
	seedUser(t, s, "boss", models.RoleAdmin, "", "")

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, stats.TotalCustomers)
	assert.EqualValues(t, 2, stats.NewCustomers, "only sign-ups within 30 days count as new")
	assert.Empty(t, stats.TopCustomers)
}

func TestCustomerOrders(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	svc := NewCustomerService(f.store)
	item := seedMenuItem(t, f.store, "Meals", 120, true)

	_, err := f.svc.PlaceOrder(ctx, f.customer, PlaceOrderInput{
		Items:           []OrderLine{{MenuItemID: item.ID, Quantity: 1}},
		DeliveryAddress: "221B Baker St",
		PhoneNumber:     "555-1234",
	})
	require.NoError(t, err)

	orders, err := svc.Orders(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = svc.Orders(ctx, f.admin.ID)
	requireKind(t, err, KindNotFound)

	_, err = svc.Orders(ctx, "missing")
	requireKind(t, err, KindNotFound)
}
