package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"tabot/internal/index"
)

type QuestionHandler struct {
	Lifecycle LifecycleService
}

// Lookup serves autocomplete over the guild's solved summaries.
func (h *QuestionHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	items := h.Lifecycle.Lookup(guildID, q)
	if items == nil {
		items = []index.Entry{}
	}
	out := make([]map[string]string, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]string{"id": it.ID, "summary": it.Summary})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *QuestionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	questionID := chi.URLParam(r, "questionID")

	res, err := h.Lifecycle.Answer(guildID, questionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      res.ID,
		"summary": res.Summary,
		"link":    res.Link,
	})
}
