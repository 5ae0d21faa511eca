// Package settings manages the per-guild bot setup: which roles may administer
// and help, and which channels host question cards and hypes.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"tabot/internal/apperr"
	"tabot/internal/guild"
	"tabot/internal/index"
	"tabot/internal/logger"
	"tabot/internal/platform"
)

type GuildStore interface {
	Get(ctx context.Context, guildID string) (*guild.Config, error)
	List(ctx context.Context) ([]guild.Config, error)
	Create(ctx context.Context, c *guild.Config) error
	Upsert(ctx context.Context, guildID string, f guild.Field, value string) error
}

type Service struct {
	guilds   GuildStore
	index    *index.Index
	platform platform.Platform
	logger   *slog.Logger

	// refreshMu orders store re-reads with their index writes, so the last
	// SetGuild always carries the freshest row.
	refreshMu sync.Mutex
}

func New(guilds GuildStore, ix *index.Index, p platform.Platform, l *slog.Logger) *Service {
	if l == nil {
		l = slog.Default()
	}
	return &Service{guilds: guilds, index: ix, platform: p, logger: l}
}

type ConfigureInput struct {
	GuildID string
	Actor   platform.Member
	Field   guild.Field
	Value   string
}

type ConfigureResult struct {
	Config guild.Config
	// Changed is false when the value was already set; nothing was written.
	Changed bool
}

// Warm indexes every stored guild config, then creates defaults for guilds the
// platform knows about but the store does not.
func (s *Service) Warm(ctx context.Context) (int, error) {
	rows, err := s.guilds.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list guild configs: %w", err)
	}
	for _, c := range rows {
		s.index.SetGuild(c)
	}

	guildIDs, err := s.platform.Guilds(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "listing platform guilds failed, skipping defaults", "error", err)
		return len(rows), nil
	}
	for _, guildID := range guildIDs {
		if _, err := s.Ensure(ctx, guildID); err != nil {
			return 0, err
		}
	}
	return len(s.index.GuildIDs()), nil
}

// Ensure returns the guild's config, creating the default one on first sight.
// The admin role is inferred from the platform when it can tell.
func (s *Service) Ensure(ctx context.Context, guildID string) (guild.Config, error) {
	if c, ok := s.index.Guild(guildID); ok {
		return c, nil
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{GuildID: logger.Ptr(guildID), Component: "tabot.settings"})

	adminRole, err := s.platform.InferAdminRole(ctx, guildID)
	if err != nil {
		s.logger.WarnContext(ctx, "inferring admin role failed", "error", err)
		adminRole = ""
	}

	if err := s.guilds.Create(ctx, &guild.Config{GuildID: guildID, AdminRoleID: adminRole}); err != nil {
		s.logger.ErrorContext(ctx, "creating guild config failed", "error", err)
		return guild.Config{}, apperr.Transient("guild setup", err)
	}

	// Another writer may have created the row first; index what is stored.
	stored, err := s.guilds.Get(ctx, guildID)
	if err != nil {
		if errors.Is(err, guild.ErrNotFound) {
			return guild.Config{}, apperr.New(apperr.NotFound, "Sorry, this server is not set up.")
		}
		s.logger.ErrorContext(ctx, "reading guild config failed", "error", err)
		return guild.Config{}, apperr.Transient("guild setup", err)
	}
	s.index.SetGuild(*stored)
	s.logger.InfoContext(ctx, "guild config created", "admin_role_id", stored.AdminRoleID)
	return *stored, nil
}

func (s *Service) Configure(ctx context.Context, in ConfigureInput) (*ConfigureResult, error) {
	if !in.Field.Valid() {
		return nil, apperr.New(apperr.NotFound, "Unknown setting %q.", in.Field)
	}

	cfg, err := s.Ensure(ctx, in.GuildID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(cfg, in.Actor); err != nil {
		return nil, err
	}

	value := strings.TrimSpace(in.Value)
	if cfg.Get(in.Field) == value {
		return &ConfigureResult{Config: cfg, Changed: false}, nil
	}

	if in.Field.IsChannel() && value != "" {
		granted, err := s.platform.Permissions(ctx, value, s.platform.SelfID())
		if err != nil {
			s.logger.ErrorContext(ctx, "reading channel permissions failed", "channel_id", value, "error", err)
			return nil, apperr.Transient("configure", err)
		}
		if missing, ok := platform.Missing(granted, platform.CommonCapabilities); ok {
			return nil, apperr.New(apperr.AuthorizationDenied, "%s", platform.MissingMessage(missing))
		}
	}

	if err := s.guilds.Upsert(ctx, in.GuildID, in.Field, value); err != nil {
		s.logger.ErrorContext(ctx, "updating guild config failed", "field", in.Field, "error", err)
		return nil, apperr.Transient("configure", err)
	}

	updated, err := s.refresh(ctx, in.GuildID)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "guild config updated", "guild_id", in.GuildID, "field", in.Field)
	return &ConfigureResult{Config: updated, Changed: true}, nil
}

// refresh re-reads the stored config and indexes it. Other admins may have
// written other fields since this caller's snapshot was taken.
func (s *Service) refresh(ctx context.Context, guildID string) (guild.Config, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	stored, err := s.guilds.Get(ctx, guildID)
	if err != nil {
		s.logger.ErrorContext(ctx, "re-reading guild config failed", "guild_id", guildID, "error", err)
		s.index.DeleteGuild(guildID)
		return guild.Config{}, apperr.Transient("configure", err)
	}
	s.index.SetGuild(*stored)
	return *stored, nil
}

// Read returns the guild's config to an admin.
func (s *Service) Read(ctx context.Context, guildID string, actor platform.Member) (guild.Config, error) {
	cfg, err := s.Ensure(ctx, guildID)
	if err != nil {
		return guild.Config{}, err
	}
	if err := requireAdmin(cfg, actor); err != nil {
		return guild.Config{}, err
	}
	return cfg, nil
}

// requireAdmin lets platform administrators in while the admin role is unset,
// otherwise nobody could ever configure the bot.
func requireAdmin(cfg guild.Config, actor platform.Member) error {
	if actor.Administrator || actor.HasRole(cfg.AdminRoleID) {
		return nil
	}
	if cfg.AdminRoleID == "" {
		return apperr.New(apperr.ConfigurationMissing, "The admin role is not set yet. Ask a server administrator to run `/init admin`.")
	}
	return apperr.New(apperr.AuthorizationDenied, "Sorry, only admin team is allowed to run this command.")
}
