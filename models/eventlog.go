// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventCategory string

const (
	AuthEvent    EventCategory = "AUTH"
	VisitedEvent EventCategory = "VISITED"
)

// EventLog is an append-only activity trail of account and visit actions.
type EventLog struct {
	ID          uint          `gorm:"primaryKey"`
	EID         string        `gorm:"size:64;not null;uniqueIndex"`
	Category    EventCategory `gorm:"size:32;not null"`
	Description *string       `gorm:"type:text;default:null"`
	StationID   *string       `gorm:"size:255;default:null"`
	CreatedAt   time.Time
	UserID      uint
	User        User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (eventLog *EventLog) BeforeCreate(tx *gorm.DB) (err error) {
	eventLog.EID = "evt_" + uuid.NewString()
	return
}

func init() {
	AllModels = append(AllModels, &EventLog{})
}
