package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	SessionEstablished EventType = "session_established"
	SessionCleared     EventType = "session_cleared"
)

// Session is the backend-owned token pair plus the identity it belongs to.
// Consumers hold it read-only; all mutation happens through login/logout.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	AccessExp    time.Time `json:"access_exp"`
	RefreshExp   time.Time `json:"refresh_exp"`
}

type SessionEvent struct {
	Type    EventType `json:"type"`
	Session *Session  `json:"session,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier is the session-change stream. It remembers the latest session so
// a consumer can subscribe first and then read the current snapshot without
// missing a transition in between.
type Notifier struct {
	mu      sync.Mutex
	current *Session
	subs    map[int]chan SessionEvent
	next    int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan SessionEvent)}
}

// Subscribe returns a buffered event channel and a cancel function. A slow
// subscriber drops events rather than blocking the publisher.
func (n *Notifier) Subscribe() (<-chan SessionEvent, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan SessionEvent, 16)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Current returns the latest established session, or nil after a clear.
func (n *Notifier) Current() *Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Notifier) Established(s *Session) {
	n.publish(SessionEvent{Type: SessionEstablished, Session: s, At: time.Now().UTC()})
}

func (n *Notifier) Cleared() {
	n.publish(SessionEvent{Type: SessionCleared, At: time.Now().UTC()})
}

func (n *Notifier) publish(ev SessionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.current = ev.Session
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
