// SPDX-License-Identifier: GPL-3.0-only

package db

import (
	"stationlog-server/models"
	"time"

	"gorm.io/gorm"
)

// PurgeExpiredSessions removes sessions past their expiry. Expired sessions
// already fail to resolve; this keeps the table from growing without bound.
func PurgeExpiredSessions(conn *gorm.DB) (int64, error) {
	result := conn.Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
