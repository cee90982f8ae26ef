package handlers

import (
	"net/http"

	"taskdesk/internal/models"
	"taskdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type AuditLogsHandlers struct {
	auditService services.AuditService
}

func NewAuditLogsHandlers(auditService services.AuditService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditService: auditService}
}

func (h *AuditLogsHandlers) List(c echo.Context) error {
	_, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	// The super admin has no tenant and therefore no tenant trail to read.
	if tenantID == nil {
		return c.JSON(http.StatusOK, []*models.AuditLog{})
	}

	limit, offset := parsePagination(c)
	entries, err := h.auditService.List(c.Request().Context(), *tenantID, limit, offset)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*models.AuditLog{}
	}
	return c.JSON(http.StatusOK, entries)
}
