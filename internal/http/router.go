package http

import (
	"net/http"

	"tabot/internal/auth"
	"tabot/internal/config"
	"tabot/internal/http/handler"
	mw "tabot/internal/http/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Services are what the routes call into.
type Services struct {
	Lifecycle handler.LifecycleService
	Settings  handler.SettingsService
	Hype      handler.HypeService
	Stats     handler.StatsService
}

func NewRouter(cfg config.Config, svc Services, jwtSvc *auth.JWT) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLog)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ih := handler.NewInteractionHandler(svc.Lifecycle, svc.Settings, svc.Hype)
	qh := &handler.QuestionHandler{Lifecycle: svc.Lifecycle}
	sh := &handler.StatsHandler{Stats: svc.Stats}

	r.With(auth.RequireAuth(jwtSvc)).Post("/interactions", ih.Handle)

	r.Route("/guilds/{guildID}", func(r chi.Router) {
		r.Use(auth.RequireAuth(jwtSvc))

		r.Get("/questions", qh.Lookup)
		r.Get("/questions/{questionID}/answer", qh.Answer)

		r.Get("/stats", sh.Collect)
		r.Get("/hype", sh.Hype)
	})

	return r
}
