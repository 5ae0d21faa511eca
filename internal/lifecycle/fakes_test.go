package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"tabot/internal/events"
	"tabot/internal/question"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// hookedStore is the real repo with individual operations overridden.
type hookedStore struct {
	*question.Repo
	createFn     func(ctx context.Context, q *question.Question) error
	claimFn      func(ctx context.Context, id, claimantID, claimantName string, at time.Time) (bool, error)
	setSummaryFn func(ctx context.Context, id, summary string) (*question.Question, error)
}

func (s *hookedStore) Create(ctx context.Context, q *question.Question) error {
	if s.createFn != nil {
		return s.createFn(ctx, q)
	}
	return s.Repo.Create(ctx, q)
}

func (s *hookedStore) Claim(ctx context.Context, id, claimantID, claimantName string, at time.Time) (bool, error) {
	if s.claimFn != nil {
		return s.claimFn(ctx, id, claimantID, claimantName, at)
	}
	return s.Repo.Claim(ctx, id, claimantID, claimantName, at)
}

func (s *hookedStore) SetSummary(ctx context.Context, id, summary string) (*question.Question, error) {
	if s.setSummaryFn != nil {
		return s.setSummaryFn(ctx, id, summary)
	}
	return s.Repo.SetSummary(ctx, id, summary)
}

var errStore = errors.New("store unavailable")
