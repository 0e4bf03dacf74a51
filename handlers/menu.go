package handlers

import (
	"log/slog"
	"net/http"

	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/services"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
)

type MenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       *float64        `json:"price" binding:"required,gte=0"`
	Category    models.Category `json:"category" binding:"omitempty,menucategory"`
	Image       string          `json:"image"`
	IsAvailable *bool           `json:"isAvailable"`
}

type MenuItemPatchRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *float64         `json:"price" binding:"omitempty,gte=0"`
	Category    *models.Category `json:"category" binding:"omitempty,menucategory"`
	Image       *string          `json:"image"`
	IsAvailable *bool            `json:"isAvailable"`
}

type DeleteMultipleRequest struct {
	IDs []string `json:"ids"`
}

type MenuHandler struct {
	svc *services.MenuService
	log *slog.Logger
}

func NewMenuHandler(svc *services.MenuService, log *slog.Logger) *MenuHandler {
	return &MenuHandler{svc: svc, log: logger.WithComponent(log, "http")}
}

// ListMenu returns the catalog (public), optionally by category or availability
func (h *MenuHandler) ListMenu(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), store.MenuFilter{
		Category:      models.Category(c.Query("category")),
		AvailableOnly: c.Query("available") == "true",
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetMenuItem(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AddMenuItem creates a catalog entry. Admin only
func (h *MenuHandler) AddMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Create(c.Request.Context(), services.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem applies a partial update. Admin only
func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	var req MenuItemPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.MenuItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

func (h *MenuHandler) DeleteMultipleMenuItems(c *gin.Context) {
	var req DeleteMultipleRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.DeleteMany(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
