// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"
	"stationlog-server/models"

	"github.com/labstack/echo/v4"
)

// LeaderboardHandler godoc
// @Summary      Visit-count leaderboard
// @Description  Aggregates visit counts per user, descending. Requires an authenticated caller; the counts expose other users' handles.
// @Tags         leaderboard
// @Produce      json
// @Success      200 {array}  LeaderboardEntry   "Leaderboard entries"
// @Failure      401 {object} echo.HTTPError     "Unauthenticated"
// @Failure      500 {object} echo.HTTPError     "Internal server error"
// @Router       /api/leaderboard [get]
func (h *Handler) LeaderboardHandler(c echo.Context) error {
	logger := c.Logger()

	entries := []LeaderboardEntry{}
	if err := h.DB.Model(&models.VisitedStation{}).
		Select("users.handle AS handle, COUNT(*) AS count").
		Joins("JOIN users ON users.id = visited_stations.user_id").
		Group("users.handle").
		Order("count DESC, users.handle ASC").
		Scan(&entries).Error; err != nil {
		logger.Errorf("Failed to build leaderboard: %v", err)
		return echo.ErrInternalServerError
	}

	return c.JSON(http.StatusOK, entries)
}
