package main

import (
	"context"
	"fmt"
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"streakBadgeAPI/handlers"
	"streakBadgeAPI/internal/config"
	"streakBadgeAPI/internal/workers"
	"streakBadgeAPI/middleware"
	"streakBadgeAPI/services"

	_ "net/http/pprof"
)

// newHandler wires services, routes and the outer middleware stack for cfg.
// Background cache warming runs until ctx is done.
func newHandler(ctx context.Context, cfg config.Config, client *http.Client) http.Handler {
	contributionService := services.NewContributionService(services.ContributionConfig{
		Token:     cfg.GitHubToken,
		Endpoint:  cfg.GitHubGraphQLURL,
		Timeout:   cfg.UpstreamTimeout,
		CacheTTL:  cfg.CacheTTL,
		CacheSize: cfg.CacheSize,
	}, client)
	workers.StartCacheWarmer(ctx, contributionService, cfg.WarmUsers, cfg.WarmInterval)

	badgeService := services.NewBadgeService(contributionService, cfg.Timezone)
	badgeHandler := handlers.NewBadgeHandler(badgeService, cfg.BadgeMaxAge)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.MonitorMiddleware)

	if cfg.MetricsUser != "" {
		operator := middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass)
		r.Handle("/metrics", operator(promhttp.Handler())).Methods("GET")
		r.PathPrefix("/debug/pprof/").Handler(operator(http.DefaultServeMux))
	} else {
		log.Warn().Msg("METRICS_USER not set, /metrics and /debug/pprof are disabled")
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "streak-badge-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/badge", badgeHandler.GetBadge).Methods("GET")
	api.HandleFunc("/stats", badgeHandler.GetStats).Methods("GET")
	api.HandleFunc("/themes", badgeHandler.GetThemes).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", middleware.RequestIDHeader}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length", middleware.RequestIDHeader}),
	)

	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{}),
		gorillaHandlers.PrintRecoveryStack(false),
	)

	return recovery(corsHandler(gorillaHandlers.CompressHandler(r)))
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Msg(fmt.Sprint(v...))
}
