package routes

import (
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the router wires together
type Deps struct {
	Auth      *middleware.Auth
	DB        handlers.Pinger
	Users     *handlers.AuthHandler
	Menu      *handlers.MenuHandler
	Orders    *handlers.OrderHandler
	Admins    *handlers.AdminHandler
	Customers *handlers.CustomerHandler
	// Limiter is applied to auth and admin routes; nil disables it
	Limiter gin.HandlerFunc
}

func SetupRoutes(r *gin.Engine, d Deps) {
	limit := func(group *gin.RouterGroup) {
		if d.Limiter != nil {
			group.Use(d.Limiter)
		}
	}
	authRequired := d.Auth.AuthRequired()
	adminRequired := d.Auth.AdminRequired()

	r.GET("/health", handlers.Health(d.DB))

	api := r.Group("/api")
	api.GET("/routes", handlers.ListRoutes(r))

	// ── Auth ───────────────────────────────────────────────────────
	auth := api.Group("/auth")
	limit(auth)
	{
		auth.POST("/register", d.Users.Register)
		auth.POST("/login", d.Users.Login)
		auth.GET("/profile", authRequired, d.Users.GetProfile)
	}
	api.PUT("/profile", authRequired, d.Users.UpdateProfile)

	// ── Menu: public reads, admin writes ───────────────────────────
	menu := api.Group("/menu")
	{
		menu.GET("", d.Menu.ListMenu)
		menu.GET("/:id", d.Menu.GetMenuItem)
	}
	menuAdmin := api.Group("/menu", authRequired, adminRequired)
	limit(menuAdmin)
	{
		menuAdmin.POST("", d.Menu.AddMenuItem)
		menuAdmin.POST("/delete-multiple", d.Menu.DeleteMultipleMenuItems)
		menuAdmin.PUT("/:id", d.Menu.UpdateMenuItem)
		menuAdmin.DELETE("/:id", d.Menu.DeleteMenuItem)
	}

	// ── Orders ─────────────────────────────────────────────────────
	api.GET("/orders/state-machine", handlers.GetStateMachineInfo)
	orders := api.Group("/orders", authRequired)
	{
		orders.POST("", d.Orders.PlaceOrder)
		orders.GET("", d.Orders.GetMyOrders)
		orders.GET("/:id", d.Orders.GetOrderDetail)
	}
	ordersAdmin := api.Group("/orders", authRequired, adminRequired)
	limit(ordersAdmin)
	{
		ordersAdmin.GET("/admin/all", d.Orders.AdminGetAllOrders)
		ordersAdmin.PUT("/:id/status", d.Orders.UpdateOrderStatus)
	}

	// ── Admin accounts ─────────────────────────────────────────────
	admin := api.Group("/admin", authRequired, adminRequired)
	limit(admin)
	{
		admin.GET("", d.Admins.ListAdmins)
		admin.POST("", d.Admins.CreateAdmin)
		admin.DELETE("/:id", d.Admins.DeleteAdmin)
		admin.PUT("/:id/password", d.Admins.ResetPassword)
	}

	// ── Customers ──────────────────────────────────────────────────
	customers := api.Group("/customers", authRequired, adminRequired)
	limit(customers)
	{
		customers.GET("", d.Customers.ListCustomers)
		customers.GET("/stats", d.Customers.GetCustomerStats)
		customers.GET("/:customerId/orders", d.Customers.GetCustomerOrders)
	}
}
