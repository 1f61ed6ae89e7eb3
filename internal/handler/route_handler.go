package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wayfare/trip-backend-go/internal/middleware"
	"github.com/wayfare/trip-backend-go/internal/models"
	"github.com/wayfare/trip-backend-go/internal/planner"
	"github.com/wayfare/trip-backend-go/internal/service"
	"github.com/wayfare/trip-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for routes
type RouteHandler struct {
	routes *service.RouteService
	status *service.StatusService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routes *service.RouteService, status *service.StatusService) *RouteHandler {
	return &RouteHandler{routes: routes, status: status}
}

// CreateRoute handles POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	route, err := h.routes.CreateRoute(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		var assembly *planner.AssemblyFailed
		if errors.As(err, &assembly) {
			response.Error(c, http.StatusBadGateway, "Route assembly failed: "+assembly.Error(), nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to create route", err)
		return
	}

	response.Created(c, route)
}

// ListRoutes handles GET /api/v1/routes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	var filter models.RouteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		response.Error(c, http.StatusBadRequest, "Unknown status filter", nil)
		return
	}

	filter.Normalize()

	routes, total, err := h.routes.ListRoutes(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list routes", err)
		return
	}

	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, models.RoutesResponse{
		Data:       routes,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	})
}

// GetRoute handles GET /api/v1/routes/:id
func (h *RouteHandler) GetRoute(c *gin.Context) {
	route, err := h.routes.GetRoute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to get route")
		return
	}

	response.Success(c, route)
}

// ChangeStatus handles PUT /api/v1/routes/:id/status
func (h *RouteHandler) ChangeStatus(c *gin.Context) {
	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	route, err := h.status.ChangeStatus(middleware.UserID(c), c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to change route status")
		return
	}

	response.Success(c, route)
}

// DeleteRoute handles DELETE /api/v1/routes/:id
func (h *RouteHandler) DeleteRoute(c *gin.Context) {
	if err := h.status.DeleteRoute(middleware.UserID(c), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete route")
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

// respondServiceError maps service errors onto HTTP statuses. Invariant
// violations deliberately surface as a generic 500: they indicate an internal
// status-machine bug, never caller misuse.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrRouteNotFound):
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	case errors.Is(err, service.ErrForbidden):
		response.Error(c, http.StatusForbidden, "Route belongs to another user", nil)
	case errors.Is(err, service.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "Status transition not allowed", nil)
	case errors.Is(err, service.ErrNotDraft):
		response.Error(c, http.StatusConflict, "Only draft routes can be deleted", nil)
	default:
		response.Error(c, http.StatusInternalServerError, fallback, err)
	}
}
