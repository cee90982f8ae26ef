package handlers

import (
	"net/http"

	"taskdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProjectHandlers struct {
	projectService services.ProjectService
}

func NewProjectHandlers(projectService services.ProjectService) *ProjectHandlers {
	return &ProjectHandlers{projectService: projectService}
}

func (h *ProjectHandlers) Create(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var input services.ProjectCreateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	project, err := h.projectService.Create(c.Request().Context(), tenantID, actorID, input, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandlers) List(c echo.Context) error {
	_, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.List(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandlers) Get(c echo.Context) error {
	_, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project id")
	}

	project, err := h.projectService.Get(c.Request().Context(), tenantID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) Update(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project id")
	}

	var input services.ProjectUpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	project, err := h.projectService.Update(c.Request().Context(), tenantID, actorID, id, input, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

func (h *ProjectHandlers) Delete(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project id")
	}

	if err := h.projectService.Delete(c.Request().Context(), tenantID, actorID, id, c.RealIP()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Project deleted"})
}
