package handlers

import (
	"net/http"

	"taskdesk/internal/common"
	"taskdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

func (h *UserHandlers) Create(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var input services.UserCreateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Create(c.Request().Context(), tenantID, actorID, input, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) List(c echo.Context) error {
	_, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}

	users, err := h.userService.List(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandlers) Get(c echo.Context) error {
	_, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	user, err := h.userService.Get(c.Request().Context(), tenantID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) Update(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	var input services.UserUpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.Update(c.Request().Context(), tenantID, actorID, id, input, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) Delete(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	if err := h.userService.Deactivate(c.Request().Context(), tenantID, actorID, id, c.RealIP()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deactivated"})
}

// callerIdentity pulls the authenticated user and tenant off the context.
// The tenant pointer is nil for the super admin.
func callerIdentity(c echo.Context) (uuid.UUID, *uuid.UUID, error) {
	userID, ok := common.GetUserID(c)
	if !ok {
		return uuid.Nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	tenantID, _ := common.GetTenantID(c)
	return userID, tenantID, nil
}
