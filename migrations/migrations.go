// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"errors"
	"fmt"
	"stationlog-server/commons"
	"stationlog-server/crypto"
	"stationlog-server/models"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// legacyVisit mirrors the pre-multi-user visited_stations row shape.
type legacyVisit struct {
	StationID string
	VisitedAt time.Time
}

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			// The original deployment stored visits without any account
			// scoping. Rescope every pre-existing row onto a designated
			// default account, preserving timestamps where present.
			ID: "001_scope_visited_by_user",
			Migrate: func(tx *gorm.DB) error {
				migrator := tx.Migrator()
				if !migrator.HasTable("visited_stations") {
					return nil
				}
				if migrator.HasColumn(&models.VisitedStation{}, "user_id") {
					return nil
				}

				commons.Logger.Info("Legacy visited_stations table detected, rescoping rows to the default account")

				hasTimestamps := migrator.HasColumn(&models.VisitedStation{}, "visited_at")
				var rows []legacyVisit
				if hasTimestamps {
					if err := tx.Raw("SELECT station_id, visited_at FROM visited_stations").Scan(&rows).Error; err != nil {
						return fmt.Errorf("failed to read legacy visits: %w", err)
					}
				} else {
					if err := tx.Raw("SELECT station_id FROM visited_stations").Scan(&rows).Error; err != nil {
						return fmt.Errorf("failed to read legacy visits: %w", err)
					}
				}

				if err := migrator.DropTable("visited_stations"); err != nil {
					return fmt.Errorf("failed to drop legacy table: %w", err)
				}
				if err := tx.AutoMigrate(&models.User{}, &models.VisitedStation{}); err != nil {
					return fmt.Errorf("failed to create scoped tables: %w", err)
				}

				owner, err := defaultAccount(tx)
				if err != nil {
					return err
				}

				for _, row := range rows {
					visitedAt := row.VisitedAt
					if visitedAt.IsZero() {
						visitedAt = time.Now()
					}
					visit := models.VisitedStation{
						UserID:    owner.ID,
						StationID: row.StationID,
						VisitedAt: visitedAt,
					}
					if err := tx.Create(&visit).Error; err != nil {
						return fmt.Errorf("failed to reattach visit %s: %w", row.StationID, err)
					}
				}

				commons.Logger.Infof("Rescoped %d legacy visits to account %q", len(rows), owner.Handle)
				return nil
			},
			Rollback: func(tx *gorm.DB) error { return nil },
		},
	}
}

// defaultAccount returns the account that adopts legacy rows, creating it
// when absent. Its credential is a hash of a discarded random PIN, so the
// account is unusable until an operator resets it.
func defaultAccount(tx *gorm.DB) (*models.User, error) {
	handle := commons.GetEnv("LEGACY_DEFAULT_HANDLE", "default")

	var user models.User
	err := tx.Where("handle = ?", handle).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up default account: %w", err)
	}

	throwaway, err := crypto.GenerateRandomString("", 16, "hex")
	if err != nil {
		return nil, fmt.Errorf("failed to generate throwaway credential: %w", err)
	}
	hash, err := crypto.NewCrypto().HashCredential(throwaway)
	if err != nil {
		return nil, fmt.Errorf("failed to hash throwaway credential: %w", err)
	}

	user = models.User{Handle: handle, Credential: hash}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create default account: %w", err)
	}
	return &user, nil
}
