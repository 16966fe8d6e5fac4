package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"jobharvest/internal/background"
	"jobharvest/internal/config"
	"jobharvest/internal/logging"
	"jobharvest/pkg/models"
	"jobharvest/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// HarvestHandler accepts a harvest request and queues it for background
// processing, returning immediately with a process ID.
func HarvestHandler(cfg *config.Config, taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Harvest request received")

		var req models.HarvestRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind request", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Request validation failed", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		processID := utils.GenerateRequestID()
		ctx := c.Request().Context()

		if err := taskManager.SubmitHarvestTask(ctx, processID, req); err != nil {
			logger.Error("Failed to submit harvest task", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_submission_failed",
				Message:   fmt.Sprintf("Failed to submit harvest task: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		logger.Info("Harvest task accepted", map[string]interface{}{
			"process_id": processID,
			"keyword":    req.Keyword,
			"location":   req.Location,
		})

		return c.JSON(http.StatusAccepted, models.HarvestAcceptedResponse{
			ProcessID: processID,
			Status:    string(background.TaskStatusAccepted),
			Timestamp: time.Now(),
		})
	}
}

// HarvestStatusHandler returns the current state of a harvest task.
func HarvestStatusHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)
		processID := c.Param("id")

		result, err := taskManager.GetTaskResult(c.Request().Context(), processID)
		if err != nil {
			if errors.Is(err, background.ErrTaskNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error:     "task_not_found",
					Message:   fmt.Sprintf("No harvest task found for process ID %s", processID),
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			logger.Error("Failed to retrieve harvest task", map[string]interface{}{
				"process_id": processID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_lookup_failed",
				Message:   fmt.Sprintf("Failed to retrieve harvest task: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, result)
	}
}

// HarvestListHandler lists all known harvest tasks.
func HarvestListHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)

		results, err := taskManager.ListTasks(c.Request().Context())
		if err != nil {
			logger.Error("Failed to list harvest tasks", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_list_failed",
				Message:   fmt.Sprintf("Failed to list harvest tasks: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"tasks": results,
			"count": len(results),
		})
	}
}

// HarvestExportHandler serves an output file produced by a completed harvest.
// The format query parameter selects among the files the task wrote.
func HarvestExportHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.LogWithRequestID(requestID)
		processID := c.Param("id")

		format := strings.ToLower(utils.GetStringOrDefault(c.QueryParam("format"), "csv"))

		result, err := taskManager.GetTaskResult(c.Request().Context(), processID)
		if err != nil {
			if errors.Is(err, background.ErrTaskNotFound) {
				return c.JSON(http.StatusNotFound, models.ErrorResponse{
					Error:     "task_not_found",
					Message:   fmt.Sprintf("No harvest task found for process ID %s", processID),
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			logger.Error("Failed to retrieve harvest task", map[string]interface{}{
				"process_id": processID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_lookup_failed",
				Message:   fmt.Sprintf("Failed to retrieve harvest task: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if result.Status != background.TaskStatusSuccess || result.Data == nil {
			return c.JSON(http.StatusConflict, models.ErrorResponse{
				Error:     "task_not_completed",
				Message:   fmt.Sprintf("Harvest task is in status %s; no exports available", result.Status),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		for _, path := range result.Data.Files {
			if strings.TrimPrefix(filepath.Ext(path), ".") == format {
				return c.Attachment(path, filepath.Base(path))
			}
		}

		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:     "export_not_found",
			Message:   fmt.Sprintf("No %s export was produced for this harvest", format),
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}
}
