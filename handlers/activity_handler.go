// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"stationlog-server/middlewares"
	"stationlog-server/models"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// ActivityHandler godoc
// @Summary      Recent account activity
// @Description  Returns the current user's recent activity trail (registrations, logins, clear-alls), newest first.
// @Tags         activity
// @Produce      json
// @Param        limit  query  int  false  "Max entries (default 20, cap 100)"
// @Success      200 {array}  ActivityEntry      "Activity entries"
// @Failure      401 {object} echo.HTTPError     "Unauthenticated"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /api/activity [get]
func (h *Handler) ActivityHandler(c echo.Context) error {
	logger := c.Logger()

	user, err := middlewares.GetAuthenticatedUser(c)
	if err != nil {
		logger.Error("Failed to get authenticated user:", err)
		return echo.ErrUnauthorized
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	var events []models.EventLog
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		logger.Errorf("Failed to fetch activity: %v", err)
		return echo.ErrInternalServerError
	}

	entries := make([]ActivityEntry, 0, len(events))
	for _, event := range events {
		entries = append(entries, ActivityEntry{
			EID:         event.EID,
			Category:    string(event.Category),
			Description: event.Description,
			StationID:   event.StationID,
			CreatedAt:   event.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusOK, entries)
}
