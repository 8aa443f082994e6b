// internal/handlers/contact/contact_handler.go
package contact

import (
	"errors"
	"net/http"

	"crm-service/internal/domain/contact"
	"crm-service/internal/middleware"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"
	service "crm-service/internal/service/contact"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContactHandler struct {
	contactService *service.ContactService
}

func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// CreateContact creates a contact owned by the caller.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req contact.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.contactService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to create contact", nil)
		return
	}

	response.Success(c, http.StatusCreated, "contact created", result)
}

// GetContact retrieves one of the caller's contacts.
func (h *ContactHandler) GetContact(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid contact ID", err)
		return
	}

	result, err := h.contactService.Get(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "contact not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to retrieve contact", nil)
		return
	}

	response.Success(c, http.StatusOK, "contact retrieved", result)
}

// ListContacts returns all of the caller's contacts.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.contactService.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list contacts", nil)
		return
	}

	response.Success(c, http.StatusOK, "contacts retrieved", result)
}

// UpdateContact updates one of the caller's contacts.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid contact ID", err)
		return
	}

	var req contact.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.contactService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "contact not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update contact", nil)
		return
	}

	response.Success(c, http.StatusOK, "contact updated", result)
}

// DeleteContact removes one of the caller's contacts.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid contact ID", err)
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "contact not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to delete contact", nil)
		return
	}

	response.Success(c, http.StatusOK, "contact deleted", nil)
}
