package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"streakBadgeAPI/internal/badge"
	"streakBadgeAPI/internal/types/calendar"
	"streakBadgeAPI/services"
)

const requestTimeout = 15 * time.Second

type BadgeHandler struct {
	badgeService *services.BadgeService
	maxAge       time.Duration
}

func NewBadgeHandler(badgeService *services.BadgeService, maxAge time.Duration) *BadgeHandler {
	return &BadgeHandler{
		badgeService: badgeService,
		maxAge:       maxAge,
	}
}

// GET /api/v1/badge?user=<login>&theme=&layout=&hide_border=&title=
func (h *BadgeHandler) GetBadge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	username := strings.TrimSpace(r.URL.Query().Get("user"))
	if username == "" {
		http.Error(w, "Missing required query parameter 'user'", http.StatusBadRequest)
		return
	}

	opts, err := badge.ParseOptions(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	svg, err := h.badgeService.RenderBadge(ctx, username, opts)
	if err != nil {
		code, message := classify(ctx, username, err)
		w.Header().Set("Content-Type", badge.ContentType)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		w.Write(badge.RenderError(message, opts.Theme))
		return
	}

	w.Header().Set("Content-Type", badge.ContentType)
	w.Header().Set("Cache-Control", h.cacheControl())
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// GET /api/v1/stats?user=<login>
func (h *BadgeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	username := strings.TrimSpace(r.URL.Query().Get("user"))
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'user' is required")
		return
	}

	snap, err := h.badgeService.GetSnapshot(ctx, username)
	if err != nil {
		code, message := classify(ctx, username, err)
		respondWithError(w, code, message)
		return
	}

	if snap.Username != "" {
		username = snap.Username
	}
	w.Header().Set("Cache-Control", h.cacheControl())
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"username": username,
		"stats":    snap,
	})
}

// GET /api/v1/themes
func (h *BadgeHandler) GetThemes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string][]string{
		"themes":  badge.ThemeNames(),
		"layouts": badge.LayoutNames(),
	})
}

func (h *BadgeHandler) cacheControl() string {
	secs := int(h.maxAge.Seconds())
	if secs <= 0 {
		return "no-cache"
	}
	return fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", secs, secs)
}

// classify maps service errors to a status code and a user-facing message.
func classify(ctx context.Context, username string, err error) (int, string) {
	logger := zerolog.Ctx(ctx)

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		logger.Info().Str("user", username).Msg("user not found")
		return http.StatusNotFound, fmt.Sprintf("Could not find a GitHub user named '%s'", username)
	case errors.Is(err, services.ErrUpstreamFailure):
		logger.Warn().Err(err).Str("user", username).Msg("upstream failure")
		return http.StatusBadGateway, "GitHub did not answer in time, please try again later"
	case errors.Is(err, calendar.ErrInvalidInput):
		logger.Error().Err(err).Str("user", username).Msg("invalid contribution data")
		return http.StatusInternalServerError, "Contribution data could not be read"
	default:
		logger.Error().Err(err).Str("user", username).Msg("badge request failed")
		return http.StatusInternalServerError, "Something unexpected happened"
	}
}
