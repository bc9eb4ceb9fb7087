// Package progress tracks the per-session state of in-flight analyses.
// The tracker is the in-memory source of truth; every update is also
// written through to the session store so polling survives restarts.
package progress

import (
	"log/slog"
	"sync"
	"time"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
)

// Sink receives write-through copies of every progress update.
type Sink interface {
	PutProgress(record domain.ProgressRecord) error
}

// Session tracks one running analysis.
type Session struct {
	mu     sync.RWMutex
	record domain.ProgressRecord

	sink   Sink
	logger *slog.Logger
}

// Report records a progress update. Fire-and-forget: a failing store
// write is logged and the in-memory state stays authoritative.
func (s *Session) Report(stage, message string, completed, total int) {
	s.mu.Lock()
	s.record.Stage = stage
	s.record.Message = message
	s.record.Completed = completed
	s.record.Total = total
	s.record.UpdatedAt = time.Now()
	record := s.record
	s.mu.Unlock()

	s.persist(record)
}

// Complete marks the session as finished.
func (s *Session) Complete() {
	s.mu.Lock()
	s.record.Status = domain.StatusCompleted
	s.record.Stage = domain.StageComplete
	s.record.Message = "Analysis complete!"
	s.record.UpdatedAt = time.Now()
	record := s.record
	s.mu.Unlock()

	s.persist(record)
}

// Fail marks the session as failed with the error message.
func (s *Session) Fail(errMsg string) {
	s.mu.Lock()
	s.record.Status = domain.StatusFailed
	s.record.Stage = domain.StageError
	s.record.Error = errMsg
	s.record.UpdatedAt = time.Now()
	record := s.record
	s.mu.Unlock()

	s.persist(record)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() domain.ProgressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record
}

func (s *Session) persist(record domain.ProgressRecord) {
	if s.sink == nil {
		return
	}
	if err := s.sink.PutProgress(record); err != nil {
		s.logger.Warn("progress write failed", "session_id", record.SessionID, "error", err)
	}
}

// Tracker manages the in-flight analysis sessions.
type Tracker struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	sink   Sink
	logger *slog.Logger
}

// NewTracker creates a tracker writing through to sink. sink may be nil
// in tests.
func NewTracker(sink Sink, logger *slog.Logger) *Tracker {
	return &Tracker{
		sessions: make(map[string]*Session),
		sink:     sink,
		logger:   logger,
	}
}

// Start registers a new session and reports its initial state.
func (t *Tracker) Start(sessionID string) *Session {
	session := &Session{
		record: domain.ProgressRecord{
			SessionID: sessionID,
			Status:    domain.StatusRunning,
			Stage:     domain.StageStarting,
			Message:   "Starting analysis...",
			UpdatedAt: time.Now(),
		},
		sink:   t.sink,
		logger: t.logger,
	}

	t.mu.Lock()
	t.sessions[sessionID] = session
	t.mu.Unlock()

	session.persist(session.Snapshot())
	return session
}

// Get returns the session, or nil when it is not tracked in memory.
func (t *Tracker) Get(sessionID string) *Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessions[sessionID]
}

// Cleanup drops finished sessions from memory. Their final state stays
// in the store.
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, session := range t.sessions {
		record := session.Snapshot()
		if record.Status == domain.StatusCompleted || record.Status == domain.StatusFailed {
			delete(t.sessions, id)
		}
	}
}
