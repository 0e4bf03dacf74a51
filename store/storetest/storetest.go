// Package storetest is a conformance suite every store.Store backend must pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store; it is called once per subtest
type Factory func(t *testing.T) store.Store

func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Menu", func(t *testing.T) { testMenu(t, newStore(t)) })
	t.Run("Orders", func(t *testing.T) { testOrders(t, newStore(t)) })
	t.Run("Reports", func(t *testing.T) { testReports(t, newStore(t)) })
}

func newUser(name string, role models.Role) *models.User {
	return &models.User{Name: name, Email: name + "@example.com", PasswordHash: "hash", Role: role}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := newUser("asha", models.RoleUser)
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	err := s.CreateUser(ctx, newUser("asha", models.RoleUser))
	assert.ErrorIs(t, err, store.ErrDuplicate)

	byEmail, err := s.FindUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = s.FindUserByID(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	u.DeliveryAddress = "221B Baker St"
	u.PhoneNumber = "555-1234"
	require.NoError(t, s.UpdateUser(ctx, u))
	got, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.HasDeliveryProfile())

	assert.ErrorIs(t, s.UpdateUser(ctx, &models.User{ID: "missing"}), store.ErrNotFound)

	admin := newUser("root", models.RoleAdmin)
	require.NoError(t, s.CreateUser(ctx, admin))
	admins, err := s.ListUsersByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)

	n, err := s.CountUsers(ctx, models.RoleUser, time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = s.CountUsers(ctx, models.RoleUser, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID, models.RoleAdmin), store.ErrNotFound, "role must match")
	require.NoError(t, s.DeleteUser(ctx, admin.ID, models.RoleAdmin))
	_, err = s.FindUserByID(ctx, admin.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testMenu(t *testing.T, s store.Store) {
	ctx := context.Background()
	dosa := &models.MenuItem{Name: "Dosa", Description: "d", Price: 100, Category: models.CategoryMainCourse, IsAvailable: true}
	coffee := &models.MenuItem{Name: "Coffee", Description: "c", Price: 40, Category: models.CategoryBeverage, IsAvailable: false}
	idli := &models.MenuItem{Name: "Idli", Description: "i", Price: 80, Category: models.CategoryAppetizer, IsAvailable: true}
	require.NoError(t, s.CreateMenuItems(ctx, dosa, coffee, idli))

	all, err := s.ListMenuItems(ctx, store.MenuFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Idli", all[0].Name, "sorted by category then name")

	available, err := s.ListMenuItems(ctx, store.MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	beverages, err := s.ListMenuItems(ctx, store.MenuFilter{Category: models.CategoryBeverage})
	require.NoError(t, err)
	require.Len(t, beverages, 1)
	assert.False(t, beverages[0].IsAvailable)

	dosa.IsAvailable = false
	dosa.Price = 0
	require.NoError(t, s.UpdateMenuItem(ctx, dosa))
	got, err := s.FindMenuItem(ctx, dosa.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)
	assert.Zero(t, got.Price)

	n, err := s.DeleteMenuItems(ctx, dosa.ID, "missing")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.DeleteAllMenuItems(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func placeOrder(t *testing.T, s store.Store, user *models.User, item *models.MenuItem, qty int, at time.Time) *models.Order {
	t.Helper()
	o := &models.Order{
		UserID:          user.ID,
		Items:           []models.OrderItem{{MenuItemID: item.ID, Name: item.Name, Quantity: qty, Price: item.Price}},
		TotalAmount:     item.Price * float64(qty),
		DeliveryAddress: "221B Baker St",
		PhoneNumber:     "555-1234",
		Status:          models.StatusPlaced,
		StatusHistory:   []models.OrderStatusHistory{{ToStatus: models.StatusPlaced, ChangedBy: user.ID, CreatedAt: at}},
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	require.NoError(t, s.CreateOrder(context.Background(), o))
	return o
}

func testOrders(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := newUser("priya", models.RoleUser)
	require.NoError(t, s.CreateUser(ctx, user))
	item := &models.MenuItem{Name: "Thali", Description: "t", Price: 150, Category: models.CategoryMainCourse, IsAvailable: true}
	require.NoError(t, s.CreateMenuItems(ctx, item))

	base := time.Now().UTC().Truncate(time.Millisecond)
	first := placeOrder(t, s, user, item, 1, base)
	second := placeOrder(t, s, user, item, 2, base.Add(time.Minute))

	got, err := s.FindOrder(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].MenuItem)
	assert.Equal(t, "Thali", got.Items[0].MenuItem.Name)
	require.Len(t, got.StatusHistory, 1)

	_, err = s.FindOrder(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	mine, err := s.ListOrders(ctx, store.OrderFilter{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")
	assert.Nil(t, mine[0].User)

	require.NoError(t, s.UpdateOrderStatus(ctx, first.ID, models.OrderStatusHistory{
		FromStatus: models.StatusPlaced, ToStatus: models.StatusCancelled, ChangedBy: "admin-1", Note: "out of stock",
	}))
	got, err = s.FindOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	require.Len(t, got.StatusHistory, 2)
	assert.Equal(t, "out of stock", got.StatusHistory[1].Note)

	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, "missing", models.OrderStatusHistory{ToStatus: models.StatusCancelled}), store.ErrNotFound)

	// A writer that read "placed" before the cancel landed must not win.
	err = s.UpdateOrderStatus(ctx, first.ID, models.OrderStatusHistory{
		FromStatus: models.StatusPlaced, ToStatus: models.StatusInProgress, ChangedBy: "admin-2",
	})
	assert.ErrorIs(t, err, store.ErrStaleStatus)
	got, err = s.FindOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.Len(t, got.StatusHistory, 2)

	cancelled, err := s.ListOrders(ctx, store.OrderFilter{Status: models.StatusCancelled, PopulateOwner: true})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	require.NotNil(t, cancelled[0].User)
	assert.Equal(t, "priya@example.com", cancelled[0].User.Email)
	assert.Empty(t, cancelled[0].User.PasswordHash)
}

func testReports(t *testing.T, s store.Store) {
	ctx := context.Background()
	heavy := newUser("heavy", models.RoleUser)
	light := newUser("light", models.RoleUser)
	idle := newUser("idle", models.RoleUser)
	for _, u := range []*models.User{heavy, light, idle} {
		require.NoError(t, s.CreateUser(ctx, u))
	}
	item := &models.MenuItem{Name: "Meals", Description: "m", Price: 100, Category: models.CategoryMainCourse, IsAvailable: true}
	require.NoError(t, s.CreateMenuItems(ctx, item))

	now := time.Now().UTC()
	placeOrder(t, s, heavy, item, 1, now)
	placeOrder(t, s, heavy, item, 2, now.Add(time.Second))
	placeOrder(t, s, light, item, 1, now.Add(2*time.Second))

	counts, err := s.CountOrdersByUser(ctx, []string{heavy.ID, light.ID, idle.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[heavy.ID])
	assert.EqualValues(t, 1, counts[light.ID])
	assert.EqualValues(t, 0, counts[idle.ID])

	top, err := s.TopCustomers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, heavy.ID, top[0].UserID)
	assert.Equal(t, "heavy", top[0].Name)
	assert.EqualValues(t, 2, top[0].OrderCount)
	assert.InDelta(t, 300.0, top[0].TotalSpent, 1e-9)

	top, err = s.TopCustomers(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}
