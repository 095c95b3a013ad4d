// Package memory keeps a short sliding window of recent turns per chat
// session. Windows are process-local and can always be rebuilt from the
// persisted conversation.
package memory

import (
	"sync"
	"time"
)

// DefaultTurns is the number of user/assistant pairs a window keeps.
const DefaultTurns = 2

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Window struct {
	sessionID string
	capacity  int
	messages  []Message
	lastUsed  time.Time
	lock      sync.Mutex
}

func newWindow(sessionID string, turns int) *Window {
	return &Window{sessionID: sessionID, capacity: 2 * turns}
}

func (w *Window) SessionID() string {
	return w.sessionID
}

func (w *Window) Clear() {
	w.messages = w.messages[:0]
}

func (w *Window) AppendUser(text string) {
	w.append(Message{Role: RoleUser, Content: text})
}

func (w *Window) AppendAssistant(text string) {
	w.append(Message{Role: RoleAssistant, Content: text})
}

func (w *Window) append(m Message) {
	w.messages = append(w.messages, m)
	if over := len(w.messages) - w.capacity; over > 0 {
		w.messages = append(w.messages[:0], w.messages[over:]...)
	}
}

// Rehydrate replaces the window contents with msgs, keeping only the newest
// entries that fit.
func (w *Window) Rehydrate(msgs []Message) {
	w.Clear()
	for _, m := range msgs {
		w.append(m)
	}
}

// Messages returns a copy of the window in chronological order.
func (w *Window) Messages() []Message {
	out := make([]Message, len(w.messages))
	copy(out, w.messages)
	return out
}

func (w *Window) Len() int {
	return len(w.messages)
}

// Store maps session ids to windows.
type Store struct {
	mu      sync.Mutex
	turns   int
	windows map[string]*Window
	now     func() time.Time
}

func NewStore(turns int) *Store {
	if turns <= 0 {
		turns = DefaultTurns
	}
	return &Store{turns: turns, windows: map[string]*Window{}, now: time.Now}
}

// GetOrCreate returns the session's window without locking it.
func (s *Store) GetOrCreate(sessionID string) *Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[sessionID]
	if !ok {
		w = newWindow(sessionID, s.turns)
		s.windows[sessionID] = w
	}
	w.lastUsed = s.now()
	return w
}

// Acquire returns the session's window locked for exclusive use. Requests on
// the same session queue behind each other; release must be called exactly
// once.
func (s *Store) Acquire(sessionID string) (*Window, func()) {
	var w *Window
	for {
		w = s.GetOrCreate(sessionID)
		w.lock.Lock()
		s.mu.Lock()
		current := s.windows[sessionID]
		s.mu.Unlock()
		if current == w {
			break
		}
		// evicted while we waited
		w.lock.Unlock()
	}
	return w, func() {
		s.mu.Lock()
		w.lastUsed = s.now()
		s.mu.Unlock()
		w.lock.Unlock()
	}
}

// Evict drops windows idle for longer than idle and reports how many went.
// Windows currently held through Acquire are skipped.
func (s *Store) Evict(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	n := 0
	for id, w := range s.windows {
		if !w.lastUsed.Before(cutoff) {
			continue
		}
		if !w.lock.TryLock() {
			continue
		}
		delete(s.windows, id)
		w.lock.Unlock()
		n++
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
