// internal/handlers/prospect/prospect_handler.go
package prospect

import (
	"errors"
	"net/http"

	"crm-service/internal/domain/prospect"
	"crm-service/internal/middleware"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/prospect"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProspectHandler struct {
	prospectService *service.ProspectService
}

func NewProspectHandler(prospectService *service.ProspectService) *ProspectHandler {
	return &ProspectHandler{prospectService: prospectService}
}

// CreateProspect creates a prospect owned by the caller.
func (h *ProspectHandler) CreateProspect(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req prospect.CreateProspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.prospectService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create prospect", nil)
		return
	}

	response.Success(c, http.StatusCreated, "prospect created", result)
}

// GetProspect retrieves one of the caller's prospects.
func (h *ProspectHandler) GetProspect(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid prospect ID", err)
		return
	}

	result, err := h.prospectService.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "prospect not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to retrieve prospect", nil)
		return
	}

	response.Success(c, http.StatusOK, "prospect retrieved", result)
}

// ListProspects returns all of the caller's prospects.
func (h *ProspectHandler) ListProspects(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.prospectService.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list prospects", nil)
		return
	}

	response.Success(c, http.StatusOK, "prospects retrieved", result)
}

// UpdateProspect updates one of the caller's prospects.
func (h *ProspectHandler) UpdateProspect(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid prospect ID", err)
		return
	}

	var req prospect.UpdateProspectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.prospectService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "prospect not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update prospect", nil)
		return
	}

	response.Success(c, http.StatusOK, "prospect updated", result)
}

// DeleteProspect removes one of the caller's prospects.
func (h *ProspectHandler) DeleteProspect(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid prospect ID", err)
		return
	}

	if err := h.prospectService.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "prospect not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete prospect", nil)
		return
	}

	response.Success(c, http.StatusOK, "prospect deleted", nil)
}
