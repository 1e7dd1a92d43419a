// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"stationlog-server/catalog"
	"stationlog-server/commons"
	"stationlog-server/db"
	"stationlog-server/handlers"
	"stationlog-server/routes"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const sessionCleanupInterval = 6 * time.Hour

func main() {
	commons.LoadEnvFile()

	e := echo.New()
	e.HideBanner = true

	e.Logger.SetLevel(commons.Logger.Level())
	e.Logger.SetHeader("${time_rfc3339} ${level} ${short_file}:${line} -")

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logMsg := func(format string, args ...any) {
				switch {
				case v.Status >= 500:
					e.Logger.Errorf(format, args...)
				case v.Status >= 400:
					e.Logger.Warnf(format, args...)
				default:
					e.Logger.Infof(format, args...)
				}
			}
			logMsg("%s %s - %d - %.2fms - %s",
				v.Method,
				v.URI,
				v.Status,
				float64(v.Latency.Microseconds())/1000.0,
				v.RemoteIP,
			)
			return nil
		},
	}))
	debugMode := slices.Contains(os.Args[1:], "--debug")
	if debugMode {
		e.Logger.Warn("Debug mode is enabled.")
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
	}

	e.Use(middleware.Recover())

	conn, err := db.Connect()
	if err != nil {
		commons.Logger.Error("Database connection failed: ", err)
		os.Exit(1)
	}
	if err := db.Migrate(conn); err != nil {
		commons.Logger.Error("Database migration failed: ", err)
		os.Exit(1)
	}

	stationsSource := commons.GetEnv("STATIONS_CSV", catalog.DefaultSource)
	stationCatalog, err := catalog.Load(stationsSource)
	if err != nil {
		commons.Logger.Error("Station catalog load failed: ", err)
		os.Exit(1)
	}
	commons.Logger.Infof("Loaded %d stations (%d complexes)",
		stationCatalog.Count(), stationCatalog.ComplexCount())

	purgeSessions := func() {
		purged, err := db.PurgeExpiredSessions(conn)
		if err != nil {
			commons.Logger.Error("Expired session purge failed: ", err)
			return
		}
		if purged > 0 {
			commons.Logger.Infof("Purged %d expired sessions", purged)
		}
	}
	purgeSessions()
	cleanupTicker := time.NewTicker(sessionCleanupInterval)
	go func() {
		for range cleanupTicker.C {
			purgeSessions()
		}
	}()

	h := handlers.New(conn, stationCatalog)
	routes.RegisterRoutes(e, h, conn)

	port := commons.GetEnv("PORT")
	if port == "" {
		port = ":8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}

	go func() {
		if err := e.Start(port); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	commons.Logger.Info("Shutting down")

	cleanupTicker.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Error(err)
	}
	if err := db.Close(conn); err != nil {
		commons.Logger.Error("Database close failed: ", err)
	}
}
