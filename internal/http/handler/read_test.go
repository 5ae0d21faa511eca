package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tabot/internal/apperr"
	"tabot/internal/http/handler"
	"tabot/internal/index"
	"tabot/internal/lifecycle"
	"tabot/internal/stats"
)

var _ = Describe("read handlers", func() {
	var (
		router *chi.Mux
		lc     *mockLifecycle
		ss     *mockStats
	)

	BeforeEach(func() {
		lc = &mockLifecycle{}
		ss = &mockStats{}
		qh := &handler.QuestionHandler{Lifecycle: lc}
		sh := &handler.StatsHandler{Stats: ss}

		router = chi.NewRouter()
		router.Get("/guilds/{guildID}/questions", qh.Lookup)
		router.Get("/guilds/{guildID}/questions/{questionID}/answer", qh.Answer)
		router.Get("/guilds/{guildID}/stats", sh.Collect)
		router.Get("/guilds/{guildID}/hype", sh.Hype)
	})

	get := func(path string) (*httptest.ResponseRecorder, map[string]any) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		return w, resp
	}

	Describe("Lookup", func() {
		It("returns matching summaries", func() {
			lc.lookupFn = func(guildID, query string) []index.Entry {
				Expect(guildID).To(Equal("G1"))
				Expect(query).To(Equal("restart"))
				return []index.Entry{{ID: "T1", Summary: "Fixed by restarting"}}
			}

			w, resp := get("/guilds/G1/questions?q=restart")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["items"]).To(Equal([]any{map[string]any{"id": "T1", "summary": "Fixed by restarting"}}))
		})

		It("returns an empty list rather than null", func() {
			_, resp := get("/guilds/G1/questions")
			Expect(resp["items"]).To(Equal([]any{}))
		})
	})

	Describe("Answer", func() {
		It("returns the thread link", func() {
			lc.answerFn = func(guildID, threadID string) (*lifecycle.AnswerResult, error) {
				return &lifecycle.AnswerResult{ID: threadID, Summary: "s", Link: lifecycle.ThreadLink(guildID, threadID)}, nil
			}

			w, resp := get("/guilds/G1/questions/T1/answer")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["link"]).To(Equal("https://discord.com/channels/G1/T1"))
		})

		It("returns 404 for unknown questions", func() {
			lc.answerFn = func(string, string) (*lifecycle.AnswerResult, error) {
				return nil, apperr.New(apperr.NotFound, "Sorry, I cannot find this query.")
			}

			w, resp := get("/guilds/G1/questions/T404/answer")

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(resp["message"]).To(Equal("Sorry, I cannot find this query."))
		})
	})

	Describe("Collect", func() {
		It("defaults to weekly buckets", func() {
			ss.collectFn = func(_ context.Context, _ string, g stats.Granularity) ([]stats.Bucket, error) {
				Expect(g).To(Equal(stats.ByWeek))
				return []stats.Bucket{{Key: "2024-W05"}}, nil
			}

			w, resp := get("/guilds/G1/stats")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["buckets"]).To(HaveLen(1))
			Expect(resp["batches"]).To(HaveLen(1))
		})

		It("accepts monthly buckets", func() {
			ss.collectFn = func(_ context.Context, _ string, g stats.Granularity) ([]stats.Bucket, error) {
				Expect(g).To(Equal(stats.ByMonth))
				return nil, nil
			}

			w, resp := get("/guilds/G1/stats?by=month")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["buckets"]).To(Equal([]any{}))
		})

		It("rejects unknown periods", func() {
			w, _ := get("/guilds/G1/stats?by=year")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the store fails", func() {
			ss.collectFn = func(context.Context, string, stats.Granularity) ([]stats.Bucket, error) {
				return nil, errors.New("db down")
			}
			w, _ := get("/guilds/G1/stats")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Hype", func() {
		It("returns the leaderboard", func() {
			ss.countHypeFn = func(context.Context, string) ([]stats.HypeCount, error) {
				return []stats.HypeCount{{HelperID: "h1", HelperName: "Helen", Count: 4}}, nil
			}

			w, resp := get("/guilds/G1/hype")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp["items"]).To(Equal([]any{map[string]any{"helper_id": "h1", "helper_name": "Helen", "count": float64(4)}}))
		})
	})
})
