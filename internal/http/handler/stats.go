package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tabot/internal/stats"
)

type StatsHandler struct {
	Stats StatsService
}

func (h *StatsHandler) Collect(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	by := stats.Granularity(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("by"))))
	if by == "" {
		by = stats.ByWeek
	}
	if !by.Valid() {
		badRequest(w, "invalid by (week|month)")
		return
	}

	buckets, err := h.Stats.CollectByPeriod(r.Context(), guildID, by)
	if err != nil {
		slog.ErrorContext(r.Context(), "collect stats failed", "guild_id", guildID, "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if buckets == nil {
		buckets = []stats.Bucket{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"by":      by,
		"buckets": buckets,
		"batches": stats.Batches(stats.Pages(buckets, stats.RowsPerPage), stats.PagesPerBatch),
	})
}

func (h *StatsHandler) Hype(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	rows, err := h.Stats.CountHype(r.Context(), guildID)
	if err != nil {
		slog.ErrorContext(r.Context(), "hype leaderboard failed", "guild_id", guildID, "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []stats.HypeCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": rows})
}
