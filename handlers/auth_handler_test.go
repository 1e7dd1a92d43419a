package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"stationlog-server/models"
)

func TestRegisterThenLogin(t *testing.T) {
	e, _ := newTestServer(t)

	register(t, e, "alice", "1234")

	rec := doRequest(t, e, http.MethodPost, "/auth/login", map[string]string{
		"handle":     "alice",
		"credential": "1234",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected login to succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		User    struct {
			ID     uint   `json:"id"`
			Handle string `json:"handle"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	if !resp.Success || resp.User.Handle != "alice" {
		t.Errorf("Expected success with handle alice, got %+v", resp)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("Expected login to set a session cookie")
	}
}

func TestRegisterDuplicateHandle(t *testing.T) {
	e, _ := newTestServer(t)

	register(t, e, "alice", "1234")

	// Same normalized handle, different credential and casing
	rec := doRequest(t, e, http.MethodPost, "/auth/register", map[string]string{
		"handle":     "Alice",
		"credential": "9999",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected duplicate registration to fail with 400, got %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	e, _ := newTestServer(t)

	cases := []struct {
		name       string
		handle     string
		credential string
	}{
		{"short handle", "ab", "1234"},
		{"short multibyte handle", "ñé", "1234"},
		{"long handle", "abcdefghijklmnopqrstu", "1234"},
		{"short credential", "alice", "123"},
		{"long credential", "alice", "1234567"},
		{"non-digit credential", "alice", "12ab"},
	}
	for _, tc := range cases {
		rec := doRequest(t, e, http.MethodPost, "/auth/register", map[string]string{
			"handle":     tc.handle,
			"credential": tc.credential,
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestLoginDoesNotLeakExistence(t *testing.T) {
	e, _ := newTestServer(t)

	register(t, e, "alice", "1234")

	wrongPIN := doRequest(t, e, http.MethodPost, "/auth/login", map[string]string{
		"handle":     "alice",
		"credential": "9999",
	}, nil)
	unknownUser := doRequest(t, e, http.MethodPost, "/auth/login", map[string]string{
		"handle":     "nobody",
		"credential": "1234",
	}, nil)

	if wrongPIN.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for both failures, got %d and %d", wrongPIN.Code, unknownUser.Code)
	}
	if wrongPIN.Body.String() != unknownUser.Body.String() {
		t.Errorf("Expected identical error bodies, got %q vs %q",
			wrongPIN.Body.String(), unknownUser.Body.String())
	}
}

func TestMe(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(t, e, http.MethodGet, "/auth/me", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a session, got %d", rec.Code)
	}

	cookies := register(t, e, "alice", "1234")
	rec = doRequest(t, e, http.MethodGet, "/auth/me", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected identity check to succeed, got %d", rec.Code)
	}
	var resp struct {
		User struct {
			Handle string `json:"handle"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode me response: %v", err)
	}
	if resp.User.Handle != "alice" {
		t.Errorf("Expected handle alice, got %q", resp.User.Handle)
	}
}

func TestCheckHandle(t *testing.T) {
	e, _ := newTestServer(t)

	register(t, e, "alice", "1234")

	for _, tc := range []struct {
		handle string
		exists bool
	}{
		{"alice", true},
		{"Alice", true},
		{"bob", false},
	} {
		rec := doRequest(t, e, http.MethodGet, "/auth/check/"+tc.handle, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected check to succeed, got %d", rec.Code)
		}
		var resp struct {
			Exists bool `json:"exists"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode check response: %v", err)
		}
		if resp.Exists != tc.exists {
			t.Errorf("check %q: expected exists=%v, got %v", tc.handle, tc.exists, resp.Exists)
		}
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	e, _ := newTestServer(t)

	cookies := register(t, e, "alice", "1234")

	rec := doRequest(t, e, http.MethodPost, "/auth/logout", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected logout to succeed, got %d", rec.Code)
	}

	rec = doRequest(t, e, http.MethodGet, "/api/visited", nil, cookies)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected old cookie to be rejected after logout, got %d", rec.Code)
	}

	// Logging out again with the dead cookie is not an error
	rec = doRequest(t, e, http.MethodPost, "/auth/logout", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected repeated logout to succeed, got %d", rec.Code)
	}
}

func TestExpiredSessionIndistinguishable(t *testing.T) {
	e, conn := newTestServer(t)

	cookies := register(t, e, "alice", "1234")

	expired := time.Now().Add(-time.Hour)
	if err := conn.Model(&models.Session{}).
		Where("1 = 1").
		Update("expires_at", expired).Error; err != nil {
		t.Fatalf("Failed to expire sessions: %v", err)
	}

	withExpired := doRequest(t, e, http.MethodGet, "/api/visited", nil, cookies)
	withoutCookie := doRequest(t, e, http.MethodGet, "/api/visited", nil, nil)

	if withExpired.Code != http.StatusUnauthorized || withoutCookie.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for both, got %d and %d", withExpired.Code, withoutCookie.Code)
	}
	if withExpired.Body.String() != withoutCookie.Body.String() {
		t.Errorf("Expected expired session to be indistinguishable from none, got %q vs %q",
			withExpired.Body.String(), withoutCookie.Body.String())
	}
}
