package api

import (
	"github.com/garnizeh/weldtrack/internal/config"
	"github.com/garnizeh/weldtrack/internal/db"
	"github.com/garnizeh/weldtrack/internal/registry"
	"github.com/garnizeh/weldtrack/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(RecoveryMiddleware)

	// Repository and domain service
	repo := sqlite.New(db, logger)
	svc := registry.NewService(repo, repo, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	weldersHandler := NewWeldersHandler(svc)
	authorizationsHandler := NewAuthorizationsHandler(svc)

	// Operational endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// Welder endpoints
	r.HandleFunc("/welders", weldersHandler.CreateWelder).Methods("POST")
	r.HandleFunc("/welders", weldersHandler.ListWelders).Methods("GET")
	r.HandleFunc("/welders/{id:[0-9]+}", weldersHandler.GetWelder).Methods("GET")
	r.HandleFunc("/welders/{id:[0-9]+}", weldersHandler.UpdateWelder).Methods("PUT")
	r.HandleFunc("/welders/{id:[0-9]+}", weldersHandler.DeleteWelder).Methods("DELETE")

	// Authorization endpoints; the literal /expiring route is registered
	// before the numeric id routes
	r.HandleFunc("/welders/{id:[0-9]+}/authorizations", authorizationsHandler.ListAuthorizations).Methods("GET")
	r.HandleFunc("/welders/{id:[0-9]+}/authorizations", authorizationsHandler.CreateAuthorization).Methods("POST")
	r.HandleFunc("/authorizations/expiring", authorizationsHandler.ListExpiring).Methods("GET")
	r.HandleFunc("/authorizations/{id:[0-9]+}", authorizationsHandler.UpdateAuthorization).Methods("PUT")
	r.HandleFunc("/authorizations/{id:[0-9]+}", authorizationsHandler.DeleteAuthorization).Methods("DELETE")

	return r
}
