// Package lifecycle moves questions through Waiting, Claimed and Solved, keeps the
// durable row and the in-memory summary index in step, and tells the platform to
// re-render what changed.
//
// Store writes come first. The index and the platform are touched only after the
// write they depend on succeeded; platform decoration after a successful write is
// best-effort and never rolls the write back.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"tabot/internal/apperr"
	"tabot/internal/events"
	"tabot/internal/index"
	"tabot/internal/logger"
	"tabot/internal/platform"
	"tabot/internal/question"
)

// ThreadLinkFormat builds the jump link to a question thread.
const ThreadLinkFormat = "https://discord.com/channels/%s/%s"

type QuestionStore interface {
	Create(ctx context.Context, q *question.Question) error
	FindByID(ctx context.Context, id string) (*question.Question, error)
	Claim(ctx context.Context, id, claimantID, claimantName string, at time.Time) (bool, error)
	Solve(ctx context.Context, id, claimantID string, at time.Time) (bool, error)
	SetSummary(ctx context.Context, id, summary string) (*question.Question, error)
	ListIndexable(ctx context.Context) ([]question.Question, error)
}

type Engine struct {
	questions QuestionStore
	index     *index.Index
	platform  platform.Platform
	events    events.Publisher
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.events = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func New(questions QuestionStore, ix *index.Index, p platform.Platform, opts ...Option) *Engine {
	e := &Engine{
		questions: questions,
		index:     ix,
		platform:  p,
		events:    events.Nop{},
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ActionInput identifies who acts on which question.
type ActionInput struct {
	GuildID    string
	QuestionID string
	Actor      platform.Member
}

func (e *Engine) begin(ctx context.Context, action, guildID, questionID, actorID string) (context.Context, *logger.SpanContext) {
	fields := logger.LogFields{
		GuildID:   logger.Ptr(guildID),
		ActorID:   logger.Ptr(actorID),
		Action:    logger.Ptr(action),
		Component: "tabot.lifecycle",
	}
	if questionID != "" {
		fields.QuestionID = logger.Ptr(questionID)
	}
	ctx = logger.WithLogFields(ctx, fields)
	sc := logger.StartSpan(ctx, "lifecycle."+action)
	return sc.Context(), sc
}

// transient logs an unexpected failure with its context and hides it from the user.
func (e *Engine) transient(ctx context.Context, sc *logger.SpanContext, action string, err error) error {
	sc.RecordError(err)
	e.logger.ErrorContext(ctx, "question action failed", "error", err)
	return apperr.Transient(action, err)
}

// load fetches a question and checks it belongs to the guild.
func (e *Engine) load(ctx context.Context, sc *logger.SpanContext, action, guildID, questionID string) (*question.Question, error) {
	q, err := e.questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, question.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Sorry, I cannot find this question.")
		}
		return nil, e.transient(ctx, sc, action, err)
	}
	if q.GuildID != guildID {
		return nil, apperr.New(apperr.NotFound, "Sorry, I cannot find this question.")
	}
	return q, nil
}

func (e *Engine) publish(ctx context.Context, typ events.Type, q *question.Question, actorID string) {
	err := e.events.Publish(ctx, events.Event{
		Type:       typ,
		GuildID:    q.GuildID,
		QuestionID: q.ID,
		ActorID:    actorID,
		At:         e.now(),
	})
	if err != nil {
		e.logger.WarnContext(ctx, "publishing lifecycle event failed", "event_type", typ, "error", err)
	}
}

// decorate renames the thread and re-renders the card for q's current state.
func (e *Engine) decorate(ctx context.Context, q *question.Question) {
	if err := e.platform.RenameThread(ctx, q.ID, q.ThreadName()); err != nil {
		e.logger.WarnContext(ctx, "renaming question thread failed", "error", err)
	}
	if q.CardMessageID == "" {
		return
	}
	if err := e.platform.EditCard(ctx, q.CardChannelID, q.CardMessageID, RenderCard(q)); err != nil {
		e.logger.WarnContext(ctx, "editing tracking card failed", "error", err)
	}
}

// Warm loads every solved, summarized question into the index.
func (e *Engine) Warm(ctx context.Context) (int, error) {
	rows, err := e.questions.ListIndexable(ctx)
	if err != nil {
		return 0, err
	}
	for _, q := range rows {
		e.index.PutSummary(q.GuildID, q.ID, q.Summary)
	}
	return len(rows), nil
}
