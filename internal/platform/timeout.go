package platform

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds every platform call.
const DefaultTimeout = 15 * time.Second

var ErrTimeout = errors.New("platform call timed out")

type timeoutPlatform struct {
	next Platform
	d    time.Duration
}

// WithTimeout wraps p so that no call waits longer than d, even when p ignores ctx.
func WithTimeout(p Platform, d time.Duration) Platform {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &timeoutPlatform{next: p, d: d}
}

func bounded[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
}

func boundedErr(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	_, err := bounded(ctx, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (t *timeoutPlatform) SelfID() string { return t.next.SelfID() }

func (t *timeoutPlatform) Guilds(ctx context.Context) ([]string, error) {
	return bounded(ctx, t.d, t.next.Guilds)
}

func (t *timeoutPlatform) InferAdminRole(ctx context.Context, guildID string) (string, error) {
	return bounded(ctx, t.d, func(ctx context.Context) (string, error) {
		return t.next.InferAdminRole(ctx, guildID)
	})
}

func (t *timeoutPlatform) Permissions(ctx context.Context, channelID, userID string) (Permission, error) {
	return bounded(ctx, t.d, func(ctx context.Context) (Permission, error) {
		return t.next.Permissions(ctx, channelID, userID)
	})
}

func (t *timeoutPlatform) CreateThread(ctx context.Context, spec ThreadSpec) (string, error) {
	return bounded(ctx, t.d, func(ctx context.Context) (string, error) {
		return t.next.CreateThread(ctx, spec)
	})
}

func (t *timeoutPlatform) RenameThread(ctx context.Context, threadID, name string) error {
	return boundedErr(ctx, t.d, func(ctx context.Context) error {
		return t.next.RenameThread(ctx, threadID, name)
	})
}

func (t *timeoutPlatform) SendMessage(ctx context.Context, channelID string, msg Message) (string, error) {
	return bounded(ctx, t.d, func(ctx context.Context) (string, error) {
		return t.next.SendMessage(ctx, channelID, msg)
	})
}

func (t *timeoutPlatform) PostCard(ctx context.Context, channelID string, card Card) (string, error) {
	return bounded(ctx, t.d, func(ctx context.Context) (string, error) {
		return t.next.PostCard(ctx, channelID, card)
	})
}

func (t *timeoutPlatform) EditCard(ctx context.Context, channelID, messageID string, card Card) error {
	return boundedErr(ctx, t.d, func(ctx context.Context) error {
		return t.next.EditCard(ctx, channelID, messageID, card)
	})
}

func (t *timeoutPlatform) SetPresence(ctx context.Context, text string) error {
	return boundedErr(ctx, t.d, func(ctx context.Context) error {
		return t.next.SetPresence(ctx, text)
	})
}
