package handlers

import (
	"log/slog"
	"net/http"

	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/services"
	"food-ordering-api/statemachine"

	"github.com/gin-gonic/gin"
)

type OrderLineRequest struct {
	MenuItem string `json:"menuItem" binding:"required"`
	Quantity int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items           []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress string             `json:"deliveryAddress"`
	PhoneNumber     string             `json:"phoneNumber"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

type OrderHandler struct {
	svc *services.OrderService
	log *slog.Logger
}

func NewOrderHandler(svc *services.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: logger.WithComponent(log, "http")}
}

// PlaceOrder creates a new order for the caller
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	lines := make([]services.OrderLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = services.OrderLine{MenuItemID: it.MenuItem, Quantity: it.Quantity}
	}

	order, err := h.svc.PlaceOrder(c.Request.Context(), middleware.Principal(c), services.PlaceOrderInput{
		Items:           lines,
		DeliveryAddress: req.DeliveryAddress,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetMyOrders returns the caller's orders, newest first
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	orders, err := h.svc.ListOrders(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrderDetail(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// AdminGetAllOrders filters by ?status= and ?user=
func (h *OrderHandler) AdminGetAllOrders(c *gin.Context) {
	orders, err := h.svc.ListAllOrders(c.Request.Context(), services.OrderListFilter{
		Status: models.OrderStatus(c.Query("status")),
		UserID: c.Query("user"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus moves an order along the state machine
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.SetStatus(c.Request.Context(), middleware.Principal(c), c.Param("id"), req.Status, req.Note)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetStateMachineInfo returns the order lifecycle for clients and docs
func GetStateMachineInfo(c *gin.Context) {
	var terminal []models.OrderStatus
	for _, s := range models.OrderStatuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, s)
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"initial_state":   models.StatusPlaced,
		"terminal_states": terminal,
		"description":     "Food Ordering Order Lifecycle State Machine",
	})
}
