package hype

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tabot/internal/apperr"
	"tabot/internal/events"
	"tabot/internal/index"
	"tabot/internal/logger"
	"tabot/internal/platform"
)

// MessageLinkFormat builds the jump link to a single message.
const MessageLinkFormat = "https://discord.com/channels/%s/%s/%s"

type Store interface {
	Create(ctx context.Context, h *Hype) (bool, error)
	CountByHelper(ctx context.Context, guildID, helperID string) (int64, error)
}

type Service struct {
	store    Store
	index    *index.Index
	platform platform.Platform
	events   events.Publisher
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(store Store, ix *index.Index, p platform.Platform, pub events.Publisher, l *slog.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if l == nil {
		l = slog.Default()
	}
	return &Service{
		store:    store,
		index:    ix,
		platform: p,
		events:   pub,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   l,
	}
}

type HypeInput struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	Actor     platform.Member
}

type Result struct {
	Hype  *Hype
	Count int64
}

// Hype highlights a helper's own message in the guild's hype channel.
func (s *Service) Hype(ctx context.Context, in HypeInput) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		GuildID:   logger.Ptr(in.GuildID),
		ActorID:   logger.Ptr(in.Actor.ID),
		Action:    logger.Ptr("hype"),
		Component: "tabot.hype",
	})

	cfg, _ := s.index.Guild(in.GuildID)
	if cfg.HelperRoleID == "" {
		return nil, apperr.New(apperr.ConfigurationMissing, "Please set up the helper role with `/init helper` first.")
	}
	if !in.Actor.HasRole(cfg.HelperRoleID) {
		return nil, apperr.New(apperr.AuthorizationDenied, "Sorry, only helpers are allowed to use this command.")
	}
	if cfg.HypeChannelID == "" {
		return nil, apperr.New(apperr.ConfigurationMissing, "Please set up a hype channel with `/init hype` first.")
	}
	if in.AuthorID != in.Actor.ID {
		return nil, apperr.New(apperr.AuthorizationDenied, "Sorry, you can only hype your own message.")
	}

	granted, err := s.platform.Permissions(ctx, cfg.HypeChannelID, s.platform.SelfID())
	if err != nil {
		return nil, s.transient(ctx, fmt.Errorf("hype channel permissions: %w", err))
	}
	if missing, ok := platform.Missing(granted, platform.CommonCapabilities); ok {
		return nil, apperr.New(apperr.AuthorizationDenied, "%s", platform.MissingMessage(missing))
	}

	h := &Hype{
		MessageID:  in.MessageID,
		GuildID:    in.GuildID,
		ChannelID:  in.ChannelID,
		HelperID:   in.Actor.ID,
		HelperName: in.Actor.DisplayName,
		CreatedAt:  s.now(),
	}
	inserted, err := s.store.Create(ctx, h)
	if err != nil {
		return nil, s.transient(ctx, fmt.Errorf("create hype: %w", err))
	}
	if !inserted {
		return nil, apperr.New(apperr.InvalidStateTransition, "Sorry, this message has already been hyped.")
	}

	count, err := s.store.CountByHelper(ctx, in.GuildID, in.Actor.ID)
	if err != nil {
		return nil, s.transient(ctx, fmt.Errorf("count hypes: %w", err))
	}

	_, err = s.platform.SendMessage(ctx, cfg.HypeChannelID, platform.Message{
		Title:     "Hype Message -- From @" + in.Actor.DisplayName,
		Content:   fmt.Sprintf("Current hype message count: `%d`", count),
		LinkLabel: "Jump to the hype message",
		LinkURL:   fmt.Sprintf(MessageLinkFormat, in.GuildID, in.ChannelID, in.MessageID),
	})
	if err != nil {
		// The record stands; only the highlight post is lost.
		s.logger.WarnContext(ctx, "posting hype highlight failed", "error", err)
	}

	if err := s.events.Publish(ctx, events.Event{
		Type:    events.MessageHyped,
		GuildID: in.GuildID,
		ActorID: in.Actor.ID,
		At:      h.CreatedAt,
	}); err != nil {
		s.logger.WarnContext(ctx, "publishing hype event failed", "error", err)
	}

	s.logger.InfoContext(ctx, "message hyped", "message_id", in.MessageID, "count", count)
	return &Result{Hype: h, Count: count}, nil
}

func (s *Service) transient(ctx context.Context, err error) error {
	s.logger.ErrorContext(ctx, "hype failed", "error", err)
	return apperr.Transient("hype", err)
}
