// SPDX-License-Identifier: GPL-3.0-only

package handlers

// swagger:model RegisterRequest
type RegisterRequest struct {
	// Unique handle, 3-20 characters, stored lowercase
	// required: true
	Handle string `json:"handle" example:"alice"`
	// PIN credential, 4-6 digits
	// required: true
	Credential string `json:"credential" example:"1234"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	// User's handle
	Handle string `json:"handle" example:"alice"`
	// User's PIN credential
	Credential string `json:"credential" example:"1234"`
}

// swagger:model PublicUser
type PublicUser struct {
	// User id
	ID uint `json:"id" example:"1"`
	// Normalized handle
	Handle string `json:"handle" example:"alice"`
}

// swagger:model AuthResponse
type AuthResponse struct {
	Success bool       `json:"success"`
	User    PublicUser `json:"user"`
}

// swagger:model MeResponse
type MeResponse struct {
	User PublicUser `json:"user"`
}

// swagger:model CheckHandleResponse
type CheckHandleResponse struct {
	// Whether the handle is already registered. Advisory only; registration
	// remains the authoritative check.
	Exists bool `json:"exists"`
}

// swagger:model LogoutResponse
type LogoutResponse struct {
	Success bool `json:"success"`
}

// swagger:model MarkVisitedResponse
type MarkVisitedResponse struct {
	Success   bool   `json:"success"`
	StationID string `json:"stationId" example:"A01"`
}

// swagger:model UnmarkVisitedResponse
type UnmarkVisitedResponse struct {
	Success   bool   `json:"success"`
	StationID string `json:"stationId" example:"A01"`
	// Whether a mark actually existed before the delete
	Deleted bool `json:"deleted"`
}

// swagger:model ClearVisitedResponse
type ClearVisitedResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount" example:"12"`
}

// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	Handle string `json:"handle" example:"alice"`
	Count  int64  `json:"count" example:"42"`
}

// swagger:model ActivityEntry
type ActivityEntry struct {
	EID         string  `json:"eid" example:"evt_550e8400-e29b-41d4-a716-446655440000"`
	Category    string  `json:"category" example:"VISITED"`
	Description *string `json:"description" example:"Cleared all visited stations"`
	StationID   *string `json:"station_id" example:"A01"`
	CreatedAt   string  `json:"created_at" example:"2025-10-01T12:00:00Z"`
}
