package handlers

import (
	"net/http"
	"strconv"

	"taskdesk/internal/common"
	"taskdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

type createTenantRequest struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

func (h *TenantHandlers) Create(c echo.Context) error {
	var req createTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	tenant, err := h.tenantService.Create(c.Request().Context(), req.Name, req.Subdomain)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tenant)
}

func (h *TenantHandlers) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant id")
	}

	tenant, err := h.tenantService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandlers) List(c echo.Context) error {
	limit, offset := parsePagination(c)
	tenants, err := h.tenantService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenants)
}

func (h *TenantHandlers) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant id")
	}
	actorID, ok := common.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var input services.TenantUpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	tenant, err := h.tenantService.Update(c.Request().Context(), id, actorID, input, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

func parsePagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
