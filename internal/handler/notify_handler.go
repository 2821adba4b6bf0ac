package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
	"github.com/teamup-cl/notify-api/internal/service"
)

// Notifier runs the fan-out pipeline for one activity
type Notifier interface {
	Notify(ctx context.Context, activityID uuid.UUID) (*model.NotifyResult, error)
	NotifyLegacy(ctx context.Context, activityID uuid.UUID) (*model.NotifyResult, error)
}

// NotifyHandler handles the activity-created trigger endpoints
type NotifyHandler struct {
	notifier Notifier
}

func NewNotifyHandler(notifier Notifier) *NotifyHandler {
	return &NotifyHandler{notifier: notifier}
}

// ActivityCreated godoc
// @Summary Notify users about a newly created activity
// @Description Resolves the audience by location and sport preference, records alert rows, and pushes over FCM HTTP v1.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body model.NotifyActivityRequest true "Activity trigger"
// @Success 200 {object} model.NotifyResult
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /notifications/activity-created [post]
func (h *NotifyHandler) ActivityCreated(c *gin.Context) {
	h.handle(c, h.notifier.Notify)
}

// EventCreated godoc
// @Summary Notify users about a newly created activity (legacy transport)
// @Description Deprecated: same resolution and dedup semantics as activity-created, but dispatches over the legacy server-key multicast API.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body model.NotifyActivityRequest true "Activity trigger"
// @Success 200 {object} model.NotifyResult
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /notifications/event-created [post]
// @Deprecated
func (h *NotifyHandler) EventCreated(c *gin.Context) {
	h.handle(c, h.notifier.NotifyLegacy)
}

func (h *NotifyHandler) handle(c *gin.Context, notify func(context.Context, uuid.UUID) (*model.NotifyResult, error)) {
	var req model.NotifyActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "activity_id requerido", Message: err.Error()})
		return
	}

	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "activity_id inválido"})
		return
	}

	result, err := notify(c.Request.Context(), activityID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrActivityNotFound):
			c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Actividad no encontrada"})
		case errors.Is(err, service.ErrMissingLocation):
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Actividad sin region_id/comuna_id"})
		case errors.Is(err, service.ErrMissingSport):
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Actividad sin sport_id"})
		default:
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
