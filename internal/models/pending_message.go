package models

import (
	"sync"
	"sync/atomic"
	"time"
)

// PendingMessage is an inbound message held briefly while waiting to see
// whether a second message from the same chat should be merged with it.
// Entries live only in memory; they are lost on restart by design.
type PendingMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Forwarded bool
	CreatedAt time.Time

	// Seq identifies this particular entry; a superseding message gets a
	// new Seq, which invalidates the earlier entry's expiry check.
	Seq uint64
}

const pendingShardCount = 16

type pendingShard struct {
	mu      sync.Mutex
	entries map[int64]*PendingMessage
}

// PendingMessageManager keeps at most one PendingMessage per chat. The map
// is sharded so chats do not contend on a single lock.
type PendingMessageManager struct {
	shards [pendingShardCount]pendingShard
	seq    atomic.Uint64
}

func NewPendingMessageManager() *PendingMessageManager {
	m := &PendingMessageManager{}
	for i := range m.shards {
		m.shards[i].entries = make(map[int64]*PendingMessage)
	}
	return m
}

func (m *PendingMessageManager) shard(chatID int64) *pendingShard {
	return &m.shards[uint64(chatID)%pendingShardCount]
}

// Put stores msg as the pending entry for its chat, replacing any existing
// entry, and returns the sequence number assigned to it.
func (m *PendingMessageManager) Put(msg *PendingMessage) uint64 {
	msg.Seq = m.seq.Add(1)
	s := m.shard(msg.ChatID)
	s.mu.Lock()
	s.entries[msg.ChatID] = msg
	s.mu.Unlock()
	return msg.Seq
}

// TakeIf atomically removes and returns the chat's pending entry when pred
// accepts it; otherwise the entry is left in place and nil is returned.
func (m *PendingMessageManager) TakeIf(chatID int64, pred func(*PendingMessage) bool) *PendingMessage {
	s := m.shard(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[chatID]
	if !ok || !pred(entry) {
		return nil
	}
	delete(s.entries, chatID)
	return entry
}

// TakeSeq removes and returns the chat's pending entry only if it still
// carries the given sequence number. A paired or superseded entry fails the
// check, which makes the original wait a no-op.
func (m *PendingMessageManager) TakeSeq(chatID int64, seq uint64) *PendingMessage {
	s := m.shard(chatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[chatID]
	if !ok || entry.Seq != seq {
		return nil
	}
	delete(s.entries, chatID)
	return entry
}
