// Package index keeps the process-wide, rebuildable view of guild settings and
// solved-question summaries that autocomplete and authorization read from.
//
// It is a cache over the durable stores: callers mutate it only after the
// matching store write succeeded.
package index

import (
	"strings"
	"sync"

	"tabot/internal/guild"
)

// DefaultLookupLimit is the most choices an autocomplete response may carry.
const DefaultLookupLimit = 25

type Entry struct {
	ID      string
	Summary string
}

type Index struct {
	mu     sync.RWMutex
	guilds map[string]guild.Config
	solved map[string]*summaries
}

// summaries keeps thread ids in insertion order.
type summaries struct {
	order []string
	byID  map[string]string
}

func New() *Index {
	return &Index{
		guilds: make(map[string]guild.Config),
		solved: make(map[string]*summaries),
	}
}

func (ix *Index) Guild(guildID string) (guild.Config, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	c, ok := ix.guilds[guildID]
	return c, ok
}

func (ix *Index) SetGuild(c guild.Config) {
	ix.mu.Lock()
	ix.guilds[c.GuildID] = c
	ix.mu.Unlock()
}

// DeleteGuild forgets a guild config so the next reader loads it from the store.
func (ix *Index) DeleteGuild(guildID string) {
	ix.mu.Lock()
	delete(ix.guilds, guildID)
	ix.mu.Unlock()
}

func (ix *Index) GuildIDs() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]string, 0, len(ix.guilds))
	for id := range ix.guilds {
		out = append(out, id)
	}
	return out
}

func (ix *Index) Summary(guildID, threadID string) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	s, ok := ix.solved[guildID]
	if !ok {
		return "", false
	}
	v, ok := s.byID[threadID]
	return v, ok
}

// PutSummary inserts or replaces an entry. A replaced entry keeps its position.
func (ix *Index) PutSummary(guildID, threadID, summary string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	s, ok := ix.solved[guildID]
	if !ok {
		s = &summaries{byID: make(map[string]string)}
		ix.solved[guildID] = s
	}
	if _, exists := s.byID[threadID]; !exists {
		s.order = append(s.order, threadID)
	}
	s.byID[threadID] = summary
}

func (ix *Index) DeleteSummary(guildID, threadID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	s, ok := ix.solved[guildID]
	if !ok {
		return
	}
	if _, exists := s.byID[threadID]; !exists {
		return
	}
	delete(s.byID, threadID)
	for i, id := range s.order {
		if id == threadID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Lookup returns up to limit entries whose summary contains query, ignoring case,
// in insertion order. An empty query matches nothing.
func (ix *Index) Lookup(guildID, query string, limit int) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	s, ok := ix.solved[guildID]
	if !ok {
		return nil
	}

	var out []Entry
	for _, id := range s.order {
		summary := s.byID[id]
		if !strings.Contains(strings.ToLower(summary), q) {
			continue
		}
		out = append(out, Entry{ID: id, Summary: summary})
		if len(out) == limit {
			break
		}
	}
	return out
}

func (ix *Index) Len(guildID string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if s, ok := ix.solved[guildID]; ok {
		return len(s.order)
	}
	return 0
}
