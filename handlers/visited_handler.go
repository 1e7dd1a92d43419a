// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"stationlog-server/middlewares"
	"stationlog-server/models"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm/clause"
)

func stationIDParam(c echo.Context) (string, *echo.HTTPError) {
	stationID := c.Param("stationId")
	if stationID == "" || len(stationID) > 64 {
		return "", &echo.HTTPError{
			Code:    http.StatusBadRequest,
			Message: "stationId must be a non-empty identifier",
		}
	}
	return stationID, nil
}

// ListVisitedHandler godoc
// @Summary      List visited stations
// @Description  Returns the current user's visited station ids, ordered by visit time ascending.
// @Tags         visited
// @Produce      json
// @Success      200 {array}  string             "Ordered station ids"
// @Failure      401 {object} echo.HTTPError     "Unauthenticated"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /api/visited [get]
func (h *Handler) ListVisitedHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	stationIDs := []string{}
	if err := h.DB.Model(&models.VisitedStation{}).
		Where("user_id = ?", user.ID).
		Order("visited_at ASC, id ASC").
		Pluck("station_id", &stationIDs).Error; err != nil {
		logger.Errorf("Failed to list visited stations: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, stationIDs)
}

// MarkVisitedHandler godoc
// @Summary      Mark a station visited
// @Description  Upserts a visit mark for the current user. Marking an already-visited station refreshes its timestamp instead of erroring.
// @Tags         visited
// @Produce      json
// @Param        stationId  path  string  true  "Station id"
// @Success      200 {object} MarkVisitedResponse "Mark recorded"
// @Failure      400 {object} echo.HTTPError      "Bad station id"
// @Failure      401 {object} echo.HTTPError      "Unauthenticated"
// @Failure      500 {object} echo.HTTPError      "Internal server error"
// @Router       /api/visited/{stationId} [post]
func (h *Handler) MarkVisitedHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	stationID, httpErr := stationIDParam(c)
	if httpErr != nil {
		return httpErr
	}

	visit := models.VisitedStation{
		UserID:    user.ID,
		StationID: stationID,
		VisitedAt: time.Now(),
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "station_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"visited_at"}),
	}).Create(&visit).Error; err != nil {
		logger.Errorf("Failed to mark station visited: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, MarkVisitedResponse{Success: true, StationID: stationID})
}

// UnmarkVisitedHandler godoc
// @Summary      Unmark a station
// @Description  Deletes a single visit mark. Deleting a mark that never existed is not an error; the response reports deleted=false.
// @Tags         visited
// @Produce      json
// @Param        stationId  path  string  true  "Station id"
// @Success      200 {object} UnmarkVisitedResponse "Delete outcome"
// @Failure      400 {object} echo.HTTPError        "Bad station id"
// @Failure      401 {object} echo.HTTPError        "Unauthenticated"
// @Failure      500 {object} echo.HTTPError        "Internal server error"
// @Router       /api/visited/{stationId} [delete]
func (h *Handler) UnmarkVisitedHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	stationID, httpErr := stationIDParam(c)
	if httpErr != nil {
		return httpErr
	}

	result := h.DB.Where("user_id = ? AND station_id = ?", user.ID, stationID).
		Delete(&models.VisitedStation{})
	if result.Error != nil {
		logger.Errorf("Failed to unmark station: %v", result.Error)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, UnmarkVisitedResponse{
		Success:   true,
		StationID: stationID,
		Deleted:   result.RowsAffected > 0,
	})
}

// ClearVisitedHandler godoc
// @Summary      Clear all marks
// @Description  Deletes every visit mark belonging to the current user and reports how many were removed.
// @Tags         visited
// @Produce      json
// @Success      200 {object} ClearVisitedResponse "Clear outcome"
// @Failure      401 {object} echo.HTTPError       "Unauthenticated"
// @Failure      500 {object} echo.HTTPError       "Internal server error"
// @Router       /api/visited [delete]
func (h *Handler) ClearVisitedHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	result := h.DB.Where("user_id = ?", user.ID).Delete(&models.VisitedStation{})
	if result.Error != nil {
		logger.Errorf("Failed to clear visited stations: %v", result.Error)
		return echo.ErrInternalServerError
	}

	h.logEvent(user.ID, models.VisitedEvent, "Cleared all visited stations", nil)

	logger.Infof("Cleared %d visited stations for user %d", result.RowsAffected, user.ID)
	return c.JSON(http.StatusOK, ClearVisitedResponse{
		Success:      true,
		DeletedCount: result.RowsAffected,
	})
}
