package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Type string

const (
	QuestionRaised     Type = "question_raised"
	QuestionClaimed    Type = "question_claimed"
	QuestionSolved     Type = "question_solved"
	QuestionSummarized Type = "question_summarized"
	MessageHyped       Type = "message_hyped"
)

// Event tells a front end that something changed; it carries ids, not state.
type Event struct {
	Type       Type
	GuildID    string
	QuestionID string
	ActorID    string
	At         time.Time
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// StreamClient is the slice of the redis client the publisher needs.
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

type redisPublisher struct {
	client StreamClient
	stream string
	logger *slog.Logger
}

func NewRedisPublisher(client StreamClient, stream string, logger *slog.Logger) Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisPublisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, ev Event) error {
	fields := map[string]any{
		"type":        string(ev.Type),
		"guild_id":    ev.GuildID,
		"question_id": ev.QuestionID,
		"actor_id":    ev.ActorID,
		"at":          ev.At.UTC().Format(time.RFC3339Nano),
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}

	p.logger.DebugContext(ctx, "lifecycle event published",
		"stream", p.stream,
		"message_id", id,
		"event_type", ev.Type)
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}
