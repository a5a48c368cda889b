package models

import "sync"

// LastReminder points at the reminder a subsequent button press or reaction
// from the chat should act on.
type LastReminder struct {
	Row      int64
	Text     string
	Timezone string
}

const lastReminderShardCount = 16

type lastReminderShard struct {
	mu      sync.RWMutex
	entries map[int64]*LastReminder
}

// LastReminderManager maps a chat to its most recently created or most
// recently delivered reminder. Exactly one entry per chat; every successful
// creation and every successful delivery overwrites it.
type LastReminderManager struct {
	shards [lastReminderShardCount]lastReminderShard
}

func NewLastReminderManager() *LastReminderManager {
	m := &LastReminderManager{}
	for i := range m.shards {
		m.shards[i].entries = make(map[int64]*LastReminder)
	}
	return m
}

func (m *LastReminderManager) shard(chatID int64) *lastReminderShard {
	return &m.shards[uint64(chatID)%lastReminderShardCount]
}

// Get returns the chat's pointer, or nil when no reminder is known for it.
func (m *LastReminderManager) Get(chatID int64) *LastReminder {
	s := m.shard(chatID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[chatID]
}

// Set overwrites the chat's pointer.
func (m *LastReminderManager) Set(chatID int64, lr *LastReminder) {
	s := m.shard(chatID)
	s.mu.Lock()
	s.entries[chatID] = lr
	s.mu.Unlock()
}

// Remove drops the chat's pointer.
func (m *LastReminderManager) Remove(chatID int64) {
	s := m.shard(chatID)
	s.mu.Lock()
	delete(s.entries, chatID)
	s.mu.Unlock()
}
