package team

import (
	"sync"

	"github.com/antonyforte/yuanshao-bot/internal/chat"
)

// Registry maps teams to their notification channels
type Registry struct {
	mu       sync.RWMutex
	channels map[ID]chat.ChatID
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[ID]chat.ChatID),
	}
}

// Register binds a team to its channel. An empty channel removes the binding.
func (r *Registry) Register(id ID, channel chat.ChatID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if channel == "" {
		delete(r.channels, id)
		return
	}
	r.channels[id] = channel
}

// Channel returns the channel of a team, if one is configured
func (r *Registry) Channel(id ID) (chat.ChatID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channel, ok := r.channels[id]
	return channel, ok
}

// Owns reports whether the given chat is the team's own channel
func (r *Registry) Owns(id ID, c chat.ChatID) bool {
	channel, ok := r.Channel(id)
	return ok && channel == c
}
