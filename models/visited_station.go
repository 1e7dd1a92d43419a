// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

// VisitedStation records that a user has physically visited a station.
// StationID matches the static catalog's ids but is deliberately not
// foreign-keyed against it; the catalog lives outside the relational store.
type VisitedStation struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_station"`
	StationID string `gorm:"size:255;not null;uniqueIndex:idx_user_station"`
	VisitedAt time.Time
	User      User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func init() {
	AllModels = append(AllModels, &VisitedStation{})
}
