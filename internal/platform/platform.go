// Package platform describes the chat platform operations the bot depends on.
// The platform client itself lives outside this module.
package platform

import (
	"context"
	"slices"
	"time"
)

type Platform interface {
	// SelfID is the bot's own user id.
	SelfID() string
	Guilds(ctx context.Context) ([]string, error)
	// InferAdminRole returns the highest role of whoever added the bot, or "" when unknown.
	InferAdminRole(ctx context.Context, guildID string) (string, error)
	Permissions(ctx context.Context, channelID, userID string) (Permission, error)

	CreateThread(ctx context.Context, spec ThreadSpec) (string, error)
	RenameThread(ctx context.Context, threadID, name string) error
	SendMessage(ctx context.Context, channelID string, msg Message) (string, error)

	PostCard(ctx context.Context, channelID string, card Card) (string, error)
	EditCard(ctx context.Context, channelID, messageID string, card Card) error

	SetPresence(ctx context.Context, text string) error
}

// Member is the acting user as resolved by the platform for one interaction.
type Member struct {
	ID          string
	DisplayName string
	RoleIDs     []string
	// Administrator is the platform-level administrator permission.
	Administrator bool
}

func (m Member) HasRole(roleID string) bool {
	return roleID != "" && slices.Contains(m.RoleIDs, roleID)
}

type ThreadSpec struct {
	ChannelID string
	Name      string
	// StartMessageID anchors the thread on an existing message; empty starts a bare thread.
	StartMessageID string
}

type Message struct {
	Title     string
	Content   string
	LinkLabel string
	LinkURL   string
}

// Card is the tracking card of a question, as data. Rendering it is the platform's job.
type Card struct {
	QuestionID string
	Title      string
	Status     string
	RaisedBy   string
	ClaimedBy  string
	ThreadLink string

	RaisedAt  time.Time
	ClaimedAt *time.Time
	SolvedAt  *time.Time

	ClaimLabel   string
	ClaimEnabled bool
	SolveLabel   string
	SolveEnabled bool
}
