package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-ordering-api/cache"
	"food-ordering-api/config"
	"food-ordering-api/events"
	"food-ordering-api/handlers"
	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/services"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	t      *testing.T
	router *gin.Engine
	store  store.Store
}

func newTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)
	require.NoError(t, handlers.RegisterValidators())

	db, err := config.OpenStore(context.Background(), config.Database{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.Discard()
	tokens, err := services.NewTokenService("routes_test_secret", 7*24*time.Hour)
	require.NoError(t, err)
	authSvc := services.NewAuthService(db, tokens, log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware())
	SetupRoutes(r, Deps{
		Auth:      middleware.NewAuth(authSvc, log),
		DB:        db,
		Users:     handlers.NewAuthHandler(authSvc, log),
		Menu:      handlers.NewMenuHandler(services.NewMenuService(db, cache.NewMenuCache(time.Minute), log), log),
		Orders:    handlers.NewOrderHandler(services.NewOrderService(db, events.Nop{}, log), log),
		Admins:    handlers.NewAdminHandler(services.NewAdminService(db, log), log),
		Customers: handlers.NewCustomerHandler(services.NewCustomerService(db), log),
	})
	return &testApp{t: t, router: r, store: db}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// register signs up a customer and returns its token
func (a *testApp) register(name string) string {
	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": name + "@example.com", "password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.AuthResult](a.t, w).Token
}

// adminToken creates an admin directly in the store and logs in
func (a *testApp) adminToken() string {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(a.t, err)
	require.NoError(a.t, a.store.CreateUser(context.Background(), &models.User{
		Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash), Role: models.RoleAdmin,
	}))
	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@example.com", "password": "admin123"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[services.AuthResult](a.t, w).Token
}

func TestOrderFlowOverHTTP(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()
	customer := app.register("asha")

	w := app.do(http.MethodPost, "/api/menu", customer, gin.H{"name": "Dosa", "description": "Crispy", "price": 100})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied. Admin only."}`, w.Body.String())

	w = app.do(http.MethodPost, "/api/menu", admin, gin.H{"name": "Dosa", "description": "Crispy", "price": 100})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.MenuItem](t, w)
	assert.True(t, item.IsAvailable)
	assert.Equal(t, models.CategoryMainCourse, item.Category)

	w = app.do(http.MethodGet, "/api/menu", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.MenuItem](t, w), 1)

	w = app.do(http.MethodPost, "/api/orders", customer, gin.H{
		"items": []gin.H{{"menuItem": item.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "no delivery info anywhere")

	w = app.do(http.MethodPut, "/api/profile", customer, gin.H{"deliveryAddress": "221B Baker St", "phoneNumber": "555-1234"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(http.MethodPost, "/api/orders", customer, gin.H{
		"items": []gin.H{{"menuItem": item.ID, "quantity": 2, "price": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[models.Order](t, w)
	assert.Equal(t, 200.0, order.TotalAmount, "client price is ignored")
	assert.Equal(t, "221B Baker St", order.DeliveryAddress)
	assert.Equal(t, models.StatusPlaced, order.Status)

	w = app.do(http.MethodGet, "/api/orders", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Order](t, w), 1)

	other := app.register("bala")
	w = app.do(http.MethodGet, "/api/orders/"+order.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodGet, "/api/orders/"+order.ID, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPut, "/api/orders/"+order.ID+"/status", admin, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]any](t, w)
	assert.ElementsMatch(t, []any{"in-progress", "cancelled"}, body["valid_next_states"])

	w = app.do(http.MethodPut, "/api/orders/"+order.ID+"/status", admin, gin.H{"status": "in-progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusInProgress, decode[models.Order](t, w).Status)

	w = app.do(http.MethodGet, "/api/orders/admin/all?status=in-progress", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[[]models.Order](t, w)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "asha", all[0].User.Name)

	w = app.do(http.MethodGet, "/api/customers/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[services.CustomerStats](t, w)
	assert.EqualValues(t, 2, stats.TotalCustomers)
}

func TestAuthEndpoints(t *testing.T) {
	app := newTestApp(t)
	token := app.register("chitra")

	w := app.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "dup", "email": "chitra@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "chitra@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())

	w = app.do(http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Equal(t, "chitra@example.com", decode[models.User](t, w).Email)

	w = app.do(http.MethodGet, "/api/auth/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Not authenticated"}`, w.Body.String())
}

func TestMenuValidationAndBulkDelete(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()

	w := app.do(http.MethodPost, "/api/menu", admin, gin.H{"name": "X", "description": "y", "price": 5, "category": "snack"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/api/menu", admin, gin.H{"name": "Lassi", "description": "Sweet", "price": 60, "category": "beverage"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.MenuItem](t, w)

	w = app.do(http.MethodPut, "/api/menu/"+item.ID, admin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No update data provided"}`, w.Body.String())

	w = app.do(http.MethodPut, "/api/menu/"+item.ID, admin, gin.H{"isAvailable": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.MenuItem](t, w).IsAvailable)

	w = app.do(http.MethodGet, "/api/menu?available=true", "", nil)
	assert.Empty(t, decode[[]models.MenuItem](t, w))

	w = app.do(http.MethodPost, "/api/menu/delete-multiple", admin, gin.H{"ids": []string{item.ID, "bad"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[services.DeleteManyResult](t, w)
	assert.EqualValues(t, 1, res.DeletedCount)
	assert.Equal(t, []string{"bad"}, res.InvalidIDs)

	w = app.do(http.MethodGet, "/api/menu/"+item.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()

	w := app.do(http.MethodGet, "/api/admin", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	admins := decode[[]models.User](t, w)
	require.Len(t, admins, 1)

	w = app.do(http.MethodDelete, "/api/admin/"+admins[0].ID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"You cannot delete your own account"}`, w.Body.String())
}

func TestCreateAdminValidation(t *testing.T) {
	app := newTestApp(t)
	admin := app.adminToken()

	for name, body := range map[string]gin.H{
		"missing name":   {"email": "ops@example.com", "password": "secret1"},
		"bad email":      {"name": "Ops", "email": "not-an-email", "password": "secret1"},
		"short password": {"name": "Ops", "email": "ops@example.com", "password": "123"},
	} {
		w := app.do(http.MethodPost, "/api/admin", admin, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	w := app.do(http.MethodPost, "/api/admin", admin, gin.H{"name": "Ops", "email": "ops@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(http.MethodPost, "/api/admin", admin, gin.H{"name": "Ops", "email": "ops@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublicEndpoints(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/orders/state-machine", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]any](t, w)
	assert.ElementsMatch(t, []any{"delivered", "cancelled"}, info["terminal_states"])

	w = app.do(http.MethodGet, "/api/routes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/orders/:id/status")
}
