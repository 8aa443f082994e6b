// internal/handlers/activity/activity_handler.go
package activity

import (
	"net/http"

	"crm-service/internal/middleware"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/activity"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *service.Service
}

func NewActivityHandler(activityService *service.Service) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListActivities returns the caller's audit trail, newest first.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.activityService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list activities", nil)
		return
	}

	response.Success(c, http.StatusOK, "activities retrieved", result)
}
