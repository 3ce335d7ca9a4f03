package session

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/sessionbag/core"
	"github.com/hupe1980/sessionbag/logging"
)

// Options configures an InMemoryStore.
type Options struct {
	// Logger receives lifecycle diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// InMemoryStore is a process local core.Store. The registry is a sync.Map so
// start, end and find on one session id are linearizable without any
// caller-side locking, and operations on different ids never contend on a
// shared lock. Each registered bag guards its own entries.
type InMemoryStore struct {
	sessions sync.Map // sessionID -> *core.SessionBag
	active   atomic.Int64
	logger   logging.Logger
}

// NewInMemoryStore constructs an empty in-memory session registry.
func NewInMemoryStore(optFns ...func(o *Options)) *InMemoryStore {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &InMemoryStore{logger: opts.Logger}
}

// OnSessionStart registers a fresh, empty bag for sessionID. A start for an
// id that is already active replaces its bag; this usually points at id reuse
// in the host session subsystem, so it is logged as a warning.
func (s *InMemoryStore) OnSessionStart(sessionID string) {
	prev, loaded := s.sessions.Swap(sessionID, core.NewSessionBag())
	if loaded {
		s.logger.Warn("replacing bag of already active session",
			"session_id", sessionID,
			"discarded_entries", prev.(*core.SessionBag).Len())
		return
	}
	s.active.Add(1)
	s.logger.Debug("adding bag for session", "session_id", sessionID)
}

// OnSessionEnd drops the bag of sessionID. Ending an unknown or already ended
// session is a no-op. Holders of the old bag may keep using it; it is simply
// no longer reachable through Find.
func (s *InMemoryStore) OnSessionEnd(sessionID string) {
	if _, loaded := s.sessions.LoadAndDelete(sessionID); !loaded {
		s.logger.Debug("ignoring end of unknown session", "session_id", sessionID)
		return
	}
	s.active.Add(-1)
	s.logger.Debug("removing bag for session", "session_id", sessionID)
}

// Find returns the bag registered for sessionID or core.EmptyBag().
func (s *InMemoryStore) Find(sessionID string) core.Bag {
	if v, ok := s.sessions.Load(sessionID); ok {
		return v.(*core.SessionBag)
	}
	s.logger.Debug("no bag for session", "session_id", sessionID)
	return core.EmptyBag()
}

// Get reads key from the bag of sessionID.
func (s *InMemoryStore) Get(sessionID, key string) (string, bool) {
	return s.Find(sessionID).Get(key)
}

// Put writes key into the bag of sessionID. Writes for inactive sessions are
// discarded.
func (s *InMemoryStore) Put(sessionID, key, value string) {
	s.Find(sessionID).Put(key, value)
}

// Remove deletes key from the bag of sessionID.
func (s *InMemoryStore) Remove(sessionID, key string) {
	s.Find(sessionID).Remove(key)
}

// Len returns the number of active sessions. It is exact once all in-flight
// lifecycle calls have returned.
func (s *InMemoryStore) Len() int {
	return int(s.active.Load())
}
