package handlers

import (
	"log/slog"
	"net/http"

	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/services"

	"github.com/gin-gonic/gin"
)

type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type AdminHandler struct {
	svc *services.AdminService
	log *slog.Logger
}

func NewAdminHandler(svc *services.AdminService, log *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: logger.WithComponent(log, "http")}
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.svc.Create(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// DeleteAdmin removes another admin; the caller cannot remove itself
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin user deleted successfully"})
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
