// Package stats rolls solved questions up into per-helper weekly or monthly
// figures. It reads the durable store only, never the lookup index.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tabot/internal/hype"
	"tabot/internal/question"
)

type Granularity string

const (
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

func (g Granularity) Valid() bool {
	return g == ByWeek || g == ByMonth
}

type QuestionStore interface {
	ListSolved(ctx context.Context, guildID string) ([]question.Question, error)
	Counts(ctx context.Context) (raised, solved int64, err error)
}

type HypeStore interface {
	Leaderboard(ctx context.Context, guildID string) ([]hype.Count, error)
}

// HelperStats holds one helper's figures within a period. Durations are seconds;
// averages truncate.
type HelperStats struct {
	HelperID                 string `json:"helper_id"`
	HelperName               string `json:"helper_name"`
	Count                    int64  `json:"count"`
	TotalResolutionSeconds   int64  `json:"total_resolution_seconds"`
	AverageResolutionSeconds int64  `json:"average_resolution_seconds"`
	TotalResponseSeconds     int64  `json:"total_response_seconds"`
	AverageResponseSeconds   int64  `json:"average_response_seconds"`
}

// Bucket is one period, [Start, End) in UTC.
type Bucket struct {
	Key     string        `json:"key"`
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Helpers []HelperStats `json:"helpers"`
}

type HypeCount struct {
	HelperID   string `json:"helper_id"`
	HelperName string `json:"helper_name"`
	Count      int64  `json:"count"`
}

type Counters struct {
	Raised int64 `json:"raised"`
	Solved int64 `json:"solved"`
}

type Aggregator struct {
	questions QuestionStore
	hypes     HypeStore
}

func New(questions QuestionStore, hypes HypeStore) *Aggregator {
	return &Aggregator{questions: questions, hypes: hypes}
}

// CollectByPeriod groups the guild's solved questions by the period of their
// solve time, then by claimant. Buckets ascend; helpers keep first-appearance order.
func (a *Aggregator) CollectByPeriod(ctx context.Context, guildID string, g Granularity) ([]Bucket, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("unknown granularity %q", g)
	}
	rows, err := a.questions.ListSolved(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list solved questions: %w", err)
	}
	return Collect(rows, g), nil
}

// Collect is CollectByPeriod over rows already loaded.
func Collect(rows []question.Question, g Granularity) []Bucket {
	type acc struct {
		bucket  Bucket
		helpers map[string]int
	}
	byKey := make(map[string]*acc)

	for i := range rows {
		q := &rows[i]
		if !q.Solved || q.SolvedAt == nil || q.ClaimedAt == nil {
			continue
		}
		key, start, end := period(*q.SolvedAt, g)
		a, ok := byKey[key]
		if !ok {
			a = &acc{bucket: Bucket{Key: key, Start: start, End: end}, helpers: make(map[string]int)}
			byKey[key] = a
		}

		helperID := q.Claimant()
		pos, ok := a.helpers[helperID]
		if !ok {
			pos = len(a.bucket.Helpers)
			a.helpers[helperID] = pos
			a.bucket.Helpers = append(a.bucket.Helpers, HelperStats{HelperID: helperID, HelperName: q.ClaimantDisplayName()})
		}

		h := &a.bucket.Helpers[pos]
		h.Count++
		h.TotalResolutionSeconds += seconds(q.SolvedAt.Sub(*q.ClaimedAt))
		h.TotalResponseSeconds += seconds(q.ClaimedAt.Sub(q.CreatedAt))
	}

	out := make([]Bucket, 0, len(byKey))
	for _, a := range byKey {
		for i := range a.bucket.Helpers {
			h := &a.bucket.Helpers[i]
			h.AverageResolutionSeconds = h.TotalResolutionSeconds / h.Count
			h.AverageResponseSeconds = h.TotalResponseSeconds / h.Count
		}
		out = append(out, a.bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// period returns the bucket key and bounds for t: ISO week "2024-W05" or month "2024-03".
func period(t time.Time, g Granularity) (string, time.Time, time.Time) {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	if g == ByMonth {
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start.Format("2006-01"), start, start.AddDate(0, 1, 0)
	}

	year, week := t.ISOWeek()
	offset := (int(day.Weekday()) + 6) % 7 // Monday is 0
	start := day.AddDate(0, 0, -offset)
	return fmt.Sprintf("%04d-W%02d", year, week), start, start.AddDate(0, 0, 7)
}

func seconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// CountHype ranks the guild's helpers by hypes received, most first, ties by helper id.
func (a *Aggregator) CountHype(ctx context.Context, guildID string) ([]HypeCount, error) {
	rows, err := a.hypes.Leaderboard(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("hype leaderboard: %w", err)
	}
	out := make([]HypeCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, HypeCount{HelperID: r.HelperID, HelperName: r.HelperName, Count: r.Count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].HelperID < out[j].HelperID
	})
	return out, nil
}

// Counters totals raised and solved questions across every guild.
func (a *Aggregator) Counters(ctx context.Context) (Counters, error) {
	raised, solved, err := a.questions.Counts(ctx)
	if err != nil {
		return Counters{}, fmt.Errorf("count questions: %w", err)
	}
	return Counters{Raised: raised, Solved: solved}, nil
}
