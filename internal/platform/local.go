package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tabot/internal/id"
)

// Local is an in-process Platform used when the bot runs headless behind the
// HTTP front end, and in tests. It issues snowflake ids and remembers what was posted.
// Every channel grants all permissions unless SetPermissions says otherwise.
type Local struct {
	mu sync.Mutex

	selfID     string
	guilds     []string
	adminRoles map[string]string
	perms      map[string]Permission
	failures   map[string]error

	threads  map[string]string
	messages map[string][]Message
	cards    map[string]Card
	presence string
}

func NewLocal(selfID string, guilds ...string) *Local {
	return &Local{
		selfID:     selfID,
		guilds:     guilds,
		adminRoles: make(map[string]string),
		perms:      make(map[string]Permission),
		failures:   make(map[string]error),
		threads:    make(map[string]string),
		messages:   make(map[string][]Message),
		cards:      make(map[string]Card),
	}
}

func (l *Local) SetPermissions(channelID string, p Permission) {
	l.mu.Lock()
	l.perms[channelID] = p
	l.mu.Unlock()
}

func (l *Local) SetAdminRole(guildID, roleID string) {
	l.mu.Lock()
	l.adminRoles[guildID] = roleID
	l.mu.Unlock()
}

// FailOn makes every later call of the named method return err. A nil err clears it.
func (l *Local) FailOn(method string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.failures, method)
		return
	}
	l.failures[method] = err
}

func (l *Local) fail(method string) error {
	return l.failures[method]
}

func (l *Local) SelfID() string { return l.selfID }

func (l *Local) Guilds(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("Guilds"); err != nil {
		return nil, err
	}
	return append([]string(nil), l.guilds...), nil
}

func (l *Local) InferAdminRole(_ context.Context, guildID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("InferAdminRole"); err != nil {
		return "", err
	}
	return l.adminRoles[guildID], nil
}

func (l *Local) Permissions(_ context.Context, channelID, _ string) (Permission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("Permissions"); err != nil {
		return 0, err
	}
	if p, ok := l.perms[channelID]; ok {
		return p, nil
	}
	return PermAll, nil
}

func (l *Local) CreateThread(ctx context.Context, spec ThreadSpec) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("CreateThread"); err != nil {
		return "", err
	}
	threadID := id.New()
	l.threads[threadID] = spec.Name
	slog.DebugContext(ctx, "thread created", "channel_id", spec.ChannelID, "thread_id", threadID, "name", spec.Name)
	return threadID, nil
}

func (l *Local) RenameThread(_ context.Context, threadID, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("RenameThread"); err != nil {
		return err
	}
	if _, ok := l.threads[threadID]; !ok {
		return fmt.Errorf("unknown thread %s", threadID)
	}
	l.threads[threadID] = name
	return nil
}

func (l *Local) SendMessage(_ context.Context, channelID string, msg Message) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("SendMessage"); err != nil {
		return "", err
	}
	l.messages[channelID] = append(l.messages[channelID], msg)
	return id.New(), nil
}

func (l *Local) PostCard(_ context.Context, _ string, card Card) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("PostCard"); err != nil {
		return "", err
	}
	messageID := id.New()
	l.cards[messageID] = card
	return messageID, nil
}

func (l *Local) EditCard(_ context.Context, _ string, messageID string, card Card) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("EditCard"); err != nil {
		return err
	}
	if _, ok := l.cards[messageID]; !ok {
		return fmt.Errorf("unknown card message %s", messageID)
	}
	l.cards[messageID] = card
	return nil
}

func (l *Local) SetPresence(_ context.Context, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail("SetPresence"); err != nil {
		return err
	}
	l.presence = text
	return nil
}

func (l *Local) ThreadName(threadID string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.threads[threadID]
}

func (l *Local) Card(messageID string) (Card, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.cards[messageID]
	return c, ok
}

func (l *Local) Messages(channelID string) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.messages[channelID]...)
}

func (l *Local) Presence() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.presence
}
