package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"stationlog-server/catalog"
	"stationlog-server/handlers"
	"stationlog-server/models"
	"stationlog-server/routes"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testStationsCSV = `Station ID,Complex ID,GTFS Stop ID,Division,Line,Stop Name,Borough,Daytime Routes,Structure,GTFS Latitude,GTFS Longitude
1,601,R01,BMT,Astoria,Astoria-Ditmars Blvd,Q,N W,Elevated,40.775036,-73.912034
2,603,A01,IND,8th Av,Inwood-207 St,M,A,Underground,40.868072,-73.919899
3,603,101,IRT,Broadway,Van Cortlandt Park-242 St,Bx,1,Elevated,40.889248,-73.898583
`

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := conn.AutoMigrate(models.AllModels...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cat, err := catalog.Parse(strings.NewReader(testStationsCSV))
	if err != nil {
		t.Fatalf("Failed to parse test catalog: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	routes.RegisterRoutes(e, handlers.New(conn, cat), conn)
	return e, conn
}

func doRequest(t *testing.T, e *echo.Echo, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its session cookie.
func register(t *testing.T, e *echo.Echo, handle, credential string) []*http.Cookie {
	t.Helper()

	rec := doRequest(t, e, http.MethodPost, "/auth/register", map[string]string{
		"handle":     handle,
		"credential": credential,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected registration to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Expected registration to set a session cookie")
	}
	return cookies
}

func listVisited(t *testing.T, e *echo.Echo, cookies []*http.Cookie) []string {
	t.Helper()

	rec := doRequest(t, e, http.MethodGet, "/api/visited", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected visited list to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	var ids []string
	if err := json.Unmarshal(rec.Body.Bytes(), &ids); err != nil {
		t.Fatalf("Failed to decode visited list: %v", err)
	}
	return ids
}

func markVisited(t *testing.T, e *echo.Echo, cookies []*http.Cookie, stationID string) {
	t.Helper()

	rec := doRequest(t, e, http.MethodPost, "/api/visited/"+stationID, nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected mark of %s to succeed, got %d: %s", stationID, rec.Code, rec.Body.String())
	}
}
