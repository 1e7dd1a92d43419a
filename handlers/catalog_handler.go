// SPDX-License-Identifier: GPL-3.0-only

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StationsHandler godoc
// @Summary      Station catalog
// @Description  Returns the full static station catalog the client renders from. Unauthenticated; the catalog is public data.
// @Tags         stations
// @Produce      json
// @Success      200 {array} catalog.Station "Station records"
// @Router       /api/stations [get]
func (h *Handler) StationsHandler(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")
	return c.JSON(http.StatusOK, h.Catalog.Stations())
}
