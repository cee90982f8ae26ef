package handlers

import (
	"net/http"

	"taskdesk/internal/common"
	"taskdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

type registerRequest struct {
	TenantName string `json:"tenant_name"`
	Subdomain  string `json:"subdomain"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
}

type tenantSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
}

type registerResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	Tenant  tenantSummary `json:"tenant"`
}

func (h *AuthHandlers) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.authService.Register(c.Request().Context(), services.RegisterInput{
		TenantName: req.TenantName,
		Subdomain:  req.Subdomain,
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		IPAddress:  c.RealIP(),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "Tenant registered",
		Token:   result.Token,
		Tenant: tenantSummary{
			ID:        result.Tenant.ID.String(),
			Name:      result.Tenant.Name,
			Subdomain: result.Tenant.Subdomain,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandlers) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Logged in",
		"token":   token,
		"user":    user,
	})
}

func (h *AuthHandlers) Me(c echo.Context) error {
	userID, ok := common.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHandlers) Logout(c echo.Context) error {
	userID, ok := common.GetUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	tenantID, _ := common.GetTenantID(c)

	h.authService.Logout(c.Request().Context(), userID, tenantID, c.RealIP())
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}
