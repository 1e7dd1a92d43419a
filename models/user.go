// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"
)

var AllModels []any

// User is an account identified by a unique lowercase handle. Credential
// holds the argon2id hash of the user's PIN, never the PIN itself.
type User struct {
	ID         uint   `gorm:"primaryKey"`
	Handle     string `gorm:"not null;uniqueIndex"`
	Credential string `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func init() {
	AllModels = append(AllModels, &User{})
}
