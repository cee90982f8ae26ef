package handlers

import (
	"net/http"

	"taskdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TaskHandlers struct {
	taskService services.TaskService
}

func NewTaskHandlers(taskService services.TaskService) *TaskHandlers {
	return &TaskHandlers{taskService: taskService}
}

func (h *TaskHandlers) Create(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var input services.TaskCreateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	task, err := h.taskService.Create(c.Request().Context(), tenantID, actorID, input, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHandlers) List(c echo.Context) error {
	_, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var projectID *uuid.UUID
	if raw := c.QueryParam("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid project id")
		}
		projectID = &id
	}

	tasks, err := h.taskService.List(c.Request().Context(), tenantID, projectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandlers) Get(c echo.Context) error {
	_, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task id")
	}

	task, err := h.taskService.Get(c.Request().Context(), tenantID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) Update(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task id")
	}

	var input services.TaskUpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	task, err := h.taskService.Update(c.Request().Context(), tenantID, actorID, id, input, c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) Delete(c echo.Context) error {
	actorID, tenantID, err := callerIdentity(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task id")
	}

	if err := h.taskService.Delete(c.Request().Context(), tenantID, actorID, id, c.RealIP()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted"})
}
