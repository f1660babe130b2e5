package evaluation

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediplan/booking-api/internal/handler"
	"github.com/mediplan/booking-api/internal/middleware"
	"github.com/mediplan/booking-api/internal/model"
	apperrors "github.com/mediplan/booking-api/pkg/errors"
)

type Service interface {
	Submit(ctx context.Context, req *model.CreateEvaluationRequest) (*model.Evaluation, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateEvaluation(c *gin.Context) {
	var req model.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.InvalidInput("incomplete evaluation data", err))
		return
	}

	principal, ok := middleware.Principal(c)
	if !ok || principal.Role != model.RolePatient || principal.UserID != req.PatientID {
		handler.Error(c, apperrors.Forbidden("patients can only evaluate their own appointments", nil))
		return
	}

	eval, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"id": eval.ID,
	}))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/evaluations", h.CreateEvaluation)
}
