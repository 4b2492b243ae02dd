package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// SessionStatus is the state of the interactive session.
type SessionStatus string

const (
	SessionReady      SessionStatus = "ready"
	SessionProcessing SessionStatus = "processing"
	SessionCompleted  SessionStatus = "completed"
	SessionError      SessionStatus = "error"
)

// ErrInvalidTransition is returned when a session is moved along an edge the
// state machine does not have.
var ErrInvalidTransition = eris.New("session: invalid transition")

// Deck is a rendered slide deck.
type Deck struct {
	HTML       string `json:"-"`
	Filename   string `json:"filename"`
	SlideCount int    `json:"slide_count"`
	Format     string `json:"format"`
}

// Session holds the state of the single interactive user: the last query,
// its record and deck. Transitions are ready → processing → completed|error,
// and a finished session may start processing again.
type Session struct {
	mu sync.RWMutex

	id        string
	status    SessionStatus
	query     Query
	record    Record
	deck      *Deck
	err       string
	startedAt time.Time
	updatedAt time.Time

	nowFunc func() time.Time
}

// SessionSnapshot is a read-only copy of a session.
type SessionSnapshot struct {
	ID        string        `json:"id"`
	Status    SessionStatus `json:"status"`
	Query     Query         `json:"query"`
	Record    Record        `json:"record,omitempty"`
	Deck      *Deck         `json:"deck,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSession returns a session in the ready state.
func NewSession() *Session {
	s := &Session{status: SessionReady, nowFunc: time.Now}
	s.updatedAt = s.nowFunc()
	return s
}

// Begin moves the session to processing for q and clears the previous
// result. It returns the request ID assigned to this run.
func (s *Session) Begin(q Query) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == SessionProcessing {
		return "", eris.Wrapf(ErrInvalidTransition, "%s -> %s", s.status, SessionProcessing)
	}

	now := s.nowFunc()
	s.id = uuid.New().String()
	s.status = SessionProcessing
	s.query = q
	s.record = nil
	s.deck = nil
	s.err = ""
	s.startedAt = now
	s.updatedAt = now
	return s.id, nil
}

// Complete stores the record and deck of the running request.
func (s *Session) Complete(rec Record, deck *Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionProcessing {
		return eris.Wrapf(ErrInvalidTransition, "%s -> %s", s.status, SessionCompleted)
	}
	s.status = SessionCompleted
	s.record = rec
	s.deck = deck
	s.updatedAt = s.nowFunc()
	return nil
}

// Fail marks the running request as failed.
func (s *Session) Fail(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != SessionProcessing {
		return eris.Wrapf(ErrInvalidTransition, "%s -> %s", s.status, SessionError)
	}
	s.status = SessionError
	if cause != nil {
		s.err = cause.Error()
	}
	s.updatedAt = s.nowFunc()
	return nil
}

// Status returns the current state.
func (s *Session) Status() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Deck returns the deck of the last completed request, if any.
func (s *Session) Deck() *Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deck
}

// Snapshot copies the session for rendering.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{
		ID:        s.id,
		Status:    s.status,
		Query:     s.query,
		Record:    s.record,
		Deck:      s.deck,
		Error:     s.err,
		StartedAt: s.startedAt,
		UpdatedAt: s.updatedAt,
	}
}
