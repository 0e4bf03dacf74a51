package handlers

import (
	"log/slog"
	"net/http"

	"food-ordering-api/logger"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	svc *services.CustomerService
	log *slog.Logger
}

func NewCustomerHandler(svc *services.CustomerService, log *slog.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, log: logger.WithComponent(log, "http")}
}

// ListCustomers returns every customer with its order count
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) GetCustomerOrders(c *gin.Context) {
	orders, err := h.svc.Orders(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *CustomerHandler) GetCustomerStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
