package stats_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"tabot/internal/hype"
	"tabot/internal/question"
	"tabot/internal/stats"
)

type fakeQuestions struct {
	rows   []question.Question
	raised int64
	solved int64
	err    error
}

func (f *fakeQuestions) ListSolved(_ context.Context, _ string) ([]question.Question, error) {
	return f.rows, f.err
}

func (f *fakeQuestions) Counts(_ context.Context) (int64, int64, error) {
	return f.raised, f.solved, f.err
}

type fakeHypes struct {
	rows []hype.Count
}

func (f *fakeHypes) Leaderboard(_ context.Context, _ string) ([]hype.Count, error) {
	return f.rows, nil
}

func solvedBy(id, helperID, helperName string, created, claimed, solved time.Time) question.Question {
	return question.Question{
		ID:           id,
		GuildID:      "g1",
		ClaimantID:   &helperID,
		ClaimantName: &helperName,
		Solved:       true,
		CreatedAt:    created,
		ClaimedAt:    &claimed,
		SolvedAt:     &solved,
	}
}

var _ = Describe("Aggregator", func() {
	var (
		ctx context.Context
		qs  *fakeQuestions
		agg *stats.Aggregator
		t   time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		qs = &fakeQuestions{}
		agg = stats.New(qs, &fakeHypes{rows: []hype.Count{
			{HelperID: "b", HelperName: "Bob", Count: 2},
			{HelperID: "a", HelperName: "Ann", Count: 2},
			{HelperID: "c", HelperName: "Cid", Count: 5},
		}})
		// Wednesday of ISO week 5, 2024.
		t = time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	})

	Describe("CollectByPeriod", func() {
		It("sums three ten-minute resolutions in one week", func() {
			for _, id := range []string{"q1", "q2", "q3"} {
				qs.rows = append(qs.rows, solvedBy(id, "h1", "Helen", t.Add(-2*time.Minute), t, t.Add(600*time.Second)))
			}

			buckets, err := agg.CollectByPeriod(ctx, "g1", stats.ByWeek)

			Expect(err).NotTo(HaveOccurred())
			Expect(buckets).To(HaveLen(1))
			Expect(buckets[0].Key).To(Equal("2024-W05"))
			Expect(buckets[0].Start).To(Equal(time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)))
			Expect(buckets[0].End).To(Equal(time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)))
			Expect(buckets[0].Helpers).To(Equal([]stats.HelperStats{{
				HelperID:                 "h1",
				HelperName:               "Helen",
				Count:                    3,
				TotalResolutionSeconds:   1800,
				AverageResolutionSeconds: 600,
				TotalResponseSeconds:     360,
				AverageResponseSeconds:   120,
			}}))
		})

		It("truncates averages", func() {
			qs.rows = []question.Question{
				solvedBy("q1", "h1", "Helen", t, t, t.Add(10*time.Second)),
				solvedBy("q2", "h1", "Helen", t, t, t.Add(11*time.Second)),
			}

			buckets, _ := agg.CollectByPeriod(ctx, "g1", stats.ByWeek)

			Expect(buckets[0].Helpers[0].AverageResolutionSeconds).To(Equal(int64(10)))
		})

		It("orders periods ascending and helpers by first appearance", func() {
			feb := time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)
			qs.rows = []question.Question{
				solvedBy("q1", "zed", "Zed", t, t, t.Add(time.Hour)),
				solvedBy("q2", "amy", "Amy", t, t, t.Add(2*time.Hour)),
				solvedBy("q3", "amy", "Amy", t, t, t.Add(3*time.Hour)),
				solvedBy("q4", "amy", "Amy", feb, feb, feb.Add(time.Hour)),
			}

			buckets, err := agg.CollectByPeriod(ctx, "g1", stats.ByMonth)

			Expect(err).NotTo(HaveOccurred())
			Expect(buckets).To(HaveLen(2))
			Expect(buckets[0].Key).To(Equal("2024-01"))
			Expect(buckets[1].Key).To(Equal("2024-02"))
			Expect(buckets[0].Helpers[0].HelperID).To(Equal("zed"))
			Expect(buckets[0].Helpers[1].HelperID).To(Equal("amy"))
			Expect(buckets[0].Helpers[1].Count).To(Equal(int64(2)))
			Expect(buckets[1].End).To(Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("uses the ISO week year across new year", func() {
			// Sunday 2023-01-01 belongs to 2022-W52.
			sunday := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
			qs.rows = []question.Question{solvedBy("q1", "h1", "Helen", sunday, sunday, sunday)}

			buckets, _ := agg.CollectByPeriod(ctx, "g1", stats.ByWeek)

			Expect(buckets[0].Key).To(Equal("2022-W52"))
			Expect(buckets[0].Start).To(Equal(time.Date(2022, 12, 26, 0, 0, 0, 0, time.UTC)))
		})

		It("buckets by the UTC solve time", func() {
			tokyo := time.FixedZone("JST", 9*3600)
			// 2024-03-01 05:00 JST is still February in UTC.
			solved := time.Date(2024, 3, 1, 5, 0, 0, 0, tokyo)
			qs.rows = []question.Question{solvedBy("q1", "h1", "Helen", solved, solved, solved)}

			buckets, _ := agg.CollectByPeriod(ctx, "g1", stats.ByMonth)

			Expect(buckets[0].Key).To(Equal("2024-02"))
		})

		It("skips rows that are not solved", func() {
			open := solvedBy("q1", "h1", "Helen", t, t, t)
			open.Solved = false
			open.SolvedAt = nil
			qs.rows = []question.Question{open}

			buckets, err := agg.CollectByPeriod(ctx, "g1", stats.ByWeek)

			Expect(err).NotTo(HaveOccurred())
			Expect(buckets).To(BeEmpty())
		})

		It("rejects unknown granularities", func() {
			_, err := agg.CollectByPeriod(ctx, "g1", stats.Granularity("year"))
			Expect(err).To(HaveOccurred())
		})

		It("wraps store errors", func() {
			qs.err = errors.New("db down")
			_, err := agg.CollectByPeriod(ctx, "g1", stats.ByWeek)
			Expect(err).To(MatchError(ContainSubstring("db down")))
		})
	})

	Describe("CountHype", func() {
		It("sorts by count descending, ties by helper id", func() {
			rows, err := agg.CountHype(ctx, "g1")

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(Equal([]stats.HypeCount{
				{HelperID: "c", HelperName: "Cid", Count: 5},
				{HelperID: "a", HelperName: "Ann", Count: 2},
				{HelperID: "b", HelperName: "Bob", Count: 2},
			}))
		})
	})

	It("reports raised and solved counters", func() {
		qs.raised, qs.solved = 7, 3

		c, err := agg.Counters(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(stats.Counters{Raised: 7, Solved: 3}))
	})
})

var _ = Describe("paging", func() {
	It("chunks rows into pages and pages into batches", func() {
		rows := make([]int, 45)
		for i := range rows {
			rows[i] = i
		}

		pages := stats.Pages(rows, stats.RowsPerPage)
		batches := stats.Batches(pages, stats.PagesPerBatch)

		Expect(pages).To(HaveLen(23))
		Expect(pages[22]).To(Equal([]int{44}))
		Expect(batches).To(HaveLen(3))
		Expect(batches[2]).To(HaveLen(3))
	})

	It("returns nothing for no rows", func() {
		Expect(stats.Pages([]int{}, 2)).To(BeEmpty())
	})

	It("truncates hours", func() {
		Expect(stats.Hours(7199)).To(Equal(int64(1)))
		Expect(stats.Hours(3599)).To(BeZero())
	})
})
