package httpsession

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/google/uuid"

	"github.com/hupe1980/sessionbag/core"
	"github.com/hupe1980/sessionbag/logging"
)

// Options configures a Manager.
type Options struct {
	// CookieName is the name of the session cookie.
	CookieName string
	// CookiePath scopes the cookie. Defaults to "/".
	CookiePath string
	// IdleTimeout ends sessions that saw no request for this long.
	IdleTimeout time.Duration
	// Secure and HTTPOnly set the corresponding cookie attributes.
	Secure   bool
	HTTPOnly bool
	// Logger receives lifecycle diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
	// Now is the time source. Defaults to time.Now.
	Now func() time.Time
	// NewID issues session ids. Defaults to random UUIDs.
	NewID func() string
}

// DefaultOptions are applied before any option function.
var DefaultOptions = Options{
	CookieName:  "SESSIONBAG_ID",
	CookiePath:  "/",
	IdleTimeout: 30 * time.Minute,
	HTTPOnly:    true,
}

// touch records that a session was accessed at a given instant.
type touch struct {
	id string
	at time.Time
}

// activity is the bookkeeping kept per active session.
type activity struct {
	last   time.Time // most recent access
	queued time.Time // newest touch in the queue for this session
}

// Manager tracks active session ids and notifies a listener when they start
// and end.
//
// Idle expiry uses a FIFO of touches. Accesses closer together than
// IdleTimeout/16 share one queued touch, so the queue holds a bounded number
// of entries per session. When Sweep pops the newest touch of a session that
// was accessed since, it requeues the session at its last access. Expiry may
// therefore lag the exact idle deadline by at most that granularity.
type Manager struct {
	listener core.SessionListener
	opts     Options
	coalesce time.Duration

	mu       sync.Mutex
	sessions map[string]*activity
	touches  *queue.Queue // of touch
}

// NewManager returns a Manager reporting to listener.
func NewManager(listener core.SessionListener, optFns ...func(o *Options)) (*Manager, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if listener == nil {
		return nil, fmt.Errorf("%w: nil listener", ErrInvalidOptions)
	}
	if opts.CookieName == "" {
		return nil, fmt.Errorf("%w: empty cookie name", ErrInvalidOptions)
	}
	if opts.IdleTimeout <= 0 {
		return nil, fmt.Errorf("%w: idle timeout must be positive", ErrInvalidOptions)
	}
	if opts.CookiePath == "" {
		opts.CookiePath = "/"
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Manager{
		listener: listener,
		opts:     opts,
		coalesce: opts.IdleTimeout / 16,
		sessions: make(map[string]*activity),
		touches:  queue.New(),
	}, nil
}

// Middleware binds a session id to every request passing through. Requests
// without a valid session cookie get a new session.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := m.resume(r)
		if !ok {
			id = m.start()
			http.SetCookie(w, m.cookie(id, 0))
		}
		next.ServeHTTP(w, r.WithContext(core.WithSessionID(r.Context(), id)))
	})
}

// resume touches the session named by the request cookie, if it is active.
func (m *Manager) resume(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[c.Value]; !ok {
		return "", false
	}
	m.touchLocked(c.Value)
	return c.Value, true
}

func (m *Manager) start() string {
	id := m.opts.NewID()
	m.mu.Lock()
	_, reused := m.sessions[id]
	m.touchLocked(id)
	m.mu.Unlock()

	if reused {
		m.opts.Logger.Warn("session id issued twice", "session_id", id)
	}
	m.listener.OnSessionStart(id)
	m.opts.Logger.Info("session started", "session_id", id)
	return id
}

func (m *Manager) touchLocked(id string) {
	now := m.opts.Now()
	a, ok := m.sessions[id]
	if !ok {
		a = &activity{}
		m.sessions[id] = a
	}
	a.last = now
	if !ok || now.Sub(a.queued) >= m.coalesce {
		m.enqueueLocked(id, a, now)
	}
}

func (m *Manager) enqueueLocked(id string, a *activity, at time.Time) {
	a.queued = at
	m.touches.Add(touch{id: id, at: at})
}

// Invalidate ends the session of r, if any, and expires its cookie. It is a
// no-op for requests without an active session.
func (m *Manager) Invalidate(w http.ResponseWriter, r *http.Request) {
	id, err := core.SessionIDFromContext(r.Context())
	if err != nil {
		c, cerr := r.Cookie(m.opts.CookieName)
		if cerr != nil {
			return
		}
		id = c.Value
	}
	if m.end(id) {
		m.opts.Logger.Info("session invalidated", "session_id", id)
	}
	http.SetCookie(w, m.cookie("", -1))
}

func (m *Manager) end(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		m.listener.OnSessionEnd(id)
	}
	return ok
}

// Sweep ends every session idle for at least IdleTimeout as of now and
// returns how many were ended.
func (m *Manager) Sweep(now time.Time) int {
	var expired []string

	m.mu.Lock()
	for m.touches.Length() > 0 {
		t := m.touches.Peek().(touch)
		if now.Sub(t.at) < m.opts.IdleTimeout {
			break
		}
		m.touches.Remove()
		a, ok := m.sessions[t.id]
		if !ok || !a.queued.Equal(t.at) {
			continue
		}
		if now.Sub(a.last) < m.opts.IdleTimeout {
			m.enqueueLocked(t.id, a, a.last)
			continue
		}
		delete(m.sessions, t.id)
		expired = append(expired, t.id)
	}
	m.mu.Unlock()

	// Listener calls happen outside the lock.
	for _, id := range expired {
		m.listener.OnSessionEnd(id)
		m.opts.Logger.Debug("session expired", "session_id", id)
	}
	if len(expired) > 0 {
		m.opts.Logger.Info("swept idle sessions", "expired", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: sweep interval must be positive", ErrInvalidOptions)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep(m.opts.Now())
		}
	}
}

// Active returns the number of active sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IsActive reports whether id names an active session.
func (m *Manager) IsActive(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	return ok
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     m.opts.CookiePath,
		MaxAge:   maxAge,
		Secure:   m.opts.Secure,
		HttpOnly: m.opts.HTTPOnly,
		SameSite: http.SameSiteLaxMode,
	}
}
