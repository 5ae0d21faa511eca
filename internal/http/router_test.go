package http_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tabot/internal/auth"
	"tabot/internal/config"
	httpx "tabot/internal/http"
	"tabot/internal/index"
	"tabot/internal/lifecycle"
	"tabot/internal/platform"
	"tabot/internal/question"
)

var _ = Describe("Router", func() {
	var (
		router http.Handler
		jwtSvc *auth.JWT
	)

	BeforeEach(func() {
		jwtSvc = auth.NewJWT("test-secret")
		ix := index.New()
		ix.PutSummary("G1", "T1", "Fixed by restarting")
		engine := lifecycle.New(&question.Repo{}, ix, platform.NewLocal("BOT"))

		router = httpx.NewRouter(config.Config{CORSAllowedOrigins: []string{"https://dash.example"}}, httpx.Services{
			Lifecycle: engine,
		}, jwtSvc)
	})

	It("serves health without a token", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(Equal("ok"))
	})

	It("rejects requests without a service token", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guilds/G1/questions?q=restart", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects tokens signed with another secret", func() {
		tok, err := auth.NewJWT("other-secret").Sign("frontend")
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/interactions", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("serves lookups to a valid service token", func() {
		tok, err := jwtSvc.Sign("frontend")
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodGet, "/guilds/G1/questions?q=restart", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Fixed by restarting"))
	})
})
