package appointment

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

// Service is the appointment lifecycle surface the handler drives.
type Service interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id, requesterDoctorID uuid.UUID, newStatus model.AppointmentStatus) (*model.Appointment, error)
	CancelByPatient(ctx context.Context, id, requesterPatientID uuid.UUID) (*model.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.AppointmentSummary, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput("incomplete appointment data", err))
		return
	}

	// The body's patient id is only a cross-check against the
	// authenticated principal, never the source of truth.
	principal, ok := middleware.Principal(c)
	if !ok || principal.Role != model.RolePatient || principal.UserID != req.PatientID {
		handler.Error(c, apperrors.Forbidden("appointments can only be booked by the patient themselves", nil))
		return
	}

	appointment, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"id":     appointment.ID,
		"status": appointment.Status,
	}))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid user ID", err))
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok || principal.UserID != userID {
		handler.Error(c, apperrors.Forbidden("users can only list their own appointments", nil))
		return
	}

	summaries, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"count":        len(summaries),
		"appointments": summaries,
	}))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid appointment ID", err))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput("appointment_id, new_status and doctor_id are required", err))
		return
	}

	newStatus, err := model.ParseAppointmentStatus(req.NewStatus)
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid status value", err))
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok || principal.Role != model.RoleDoctor || principal.UserID != req.DoctorID {
		handler.Error(c, apperrors.Forbidden("appointments can only be updated by their doctor", nil))
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), id, req.DoctorID, newStatus)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.InvalidInput("invalid appointment ID", err))
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok || principal.Role != model.RolePatient {
		handler.Error(c, apperrors.Forbidden("only patients can cancel their appointments", nil))
		return
	}

	appointment, err := h.service.CancelByPatient(c.Request.Context(), id, principal.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointment))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.PUT("/:id/status", h.UpdateStatus)
		appointments.POST("/:id/cancel", h.CancelAppointment)
	}
}
