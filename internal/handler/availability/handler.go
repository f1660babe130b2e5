package availability

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mediplan/booking-api/internal/handler"
	"github.com/mediplan/booking-api/internal/middleware"
	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

type Service interface {
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.WorkingHours, error)
	Create(ctx context.Context, req *model.CreateWorkingHoursRequest) (*model.WorkingHours, error)
	Delete(ctx context.Context, id, doctorID uuid.UUID) error
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListAvailability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid doctor ID", err))
		return
	}

	hours, err := h.service.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"count":        len(hours),
		"availability": hours,
	}))
}

func (h *Handler) CreateAvailability(c *gin.Context) {
	var req model.CreateWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput("incomplete availability data", err))
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok || principal.Role != model.RoleDoctor || principal.UserID != req.DoctorID {
		handler.Error(c, apperrors.Forbidden("doctors can only publish their own hours", nil))
		return
	}

	hours, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(hours))
}

func (h *Handler) DeleteAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid availability ID", err))
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok || principal.Role != model.RoleDoctor {
		handler.Error(c, apperrors.Forbidden("doctors can only remove their own hours", nil))
		return
	}

	// Scoping the delete to the principal makes a foreign id read as
	// not found.
	if err := h.service.Delete(c.Request.Context(), id, principal.UserID); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	availability := r.Group("/availability")
	{
		availability.GET("", h.ListAvailability)
		availability.POST("", h.CreateAvailability)
		availability.DELETE("/:id", h.DeleteAvailability)
	}
}
