// Package sessionbag provides a high-level façade over the session registry
// and its HTTP glue. It is the composition root: it builds one store, hands it
// to the cookie session subsystem as a core.SessionListener and to the data
// API as a core.SessionStore. Most applications interact with this package by:
//  1. Creating a Registry via New() (optionally overriding the default store,
//     logger and session settings)
//  2. Mounting Handler() on their server, or calling Serve
//  3. Reading and writing session data through Get / Put / Remove, or through
//     core.RequestContext inside their own handlers
//
// There is no package-level registry; tests and applications construct as
// many independent instances as they need.
package sessionbag

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sessionbag/core"
	"github.com/hupe1980/sessionbag/httpapi"
	"github.com/hupe1980/sessionbag/httpsession"
	"github.com/hupe1980/sessionbag/logging"
	"github.com/hupe1980/sessionbag/session"
)

// Options configures the Registry.
type Options struct {
	// Store holds the session bags (defaults to session.NewInMemoryStore).
	Store core.Store

	// Session configures the cookie session subsystem.
	Session httpsession.Options

	// SweepInterval is how often Serve expires idle sessions.
	SweepInterval time.Duration

	// ShutdownTimeout bounds graceful server shutdown in Serve.
	ShutdownTimeout time.Duration

	// MaxValueBytes caps values written through the HTTP API.
	MaxValueBytes int64

	// RequestsPerSecond and Burst throttle the HTTP API. Zero disables it.
	RequestsPerSecond float64
	Burst             int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Registry is the façade aggregating the store, the session manager and the
// HTTP handlers.
type Registry struct {
	opts    Options
	store   core.Store
	manager *httpsession.Manager
	handler http.Handler
}

// New creates a Registry with optional overrides. Any unset dependency is
// initialized with an in-memory / no-op implementation.
func New(optFns ...func(o *Options)) (*Registry, error) {
	opts := Options{
		Session:         httpsession.DefaultOptions,
		SweepInterval:   time.Minute,
		ShutdownTimeout: 15 * time.Second,
		MaxValueBytes:   httpapi.DefaultMaxValueBytes,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Store == nil {
		logger := opts.Logger
		opts.Store = session.NewInMemoryStore(func(o *session.Options) { o.Logger = logger })
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = opts.Logger
	}

	sessionOpts := opts.Session
	manager, err := httpsession.NewManager(opts.Store, func(o *httpsession.Options) { *o = sessionOpts })
	if err != nil {
		return nil, err
	}

	r := &Registry{opts: opts, store: opts.Store, manager: manager}
	r.handler = r.buildHandler()
	return r, nil
}

func (r *Registry) buildHandler() http.Handler {
	mux := http.NewServeMux()

	api := httpapi.NewHandler(r.store, func(o *httpapi.Options) {
		o.MaxValueBytes = r.opts.MaxValueBytes
		o.Logger = r.opts.Logger
	})
	api.Register(mux)

	limit := httpapi.RateLimit(httpapi.NewLimiter(r.opts.RequestsPerSecond, r.opts.Burst), r.opts.Logger)

	// Health checks and session end bypass the session middleware, which
	// would otherwise open a session for cookieless requests. Invalidate
	// resolves the id from the cookie alone.
	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", r.health)
	root.Handle("POST /session/end", limit(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.manager.Invalidate(w, req)
		w.WriteHeader(http.StatusNoContent)
	})))
	root.Handle("/", limit(r.manager.Middleware(mux)))
	return root
}

type healthStatus struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}

func (r *Registry) health(w http.ResponseWriter, _ *http.Request) {
	status := healthStatus{Status: "ok", ActiveSessions: r.manager.Active()}
	if err := httpapi.WriteJSON(w, http.StatusOK, status); err != nil {
		r.opts.Logger.Error("writing health response failed", "error", err)
	}
}

// Store returns the underlying session registry.
func (r *Registry) Store() core.Store { return r.store }

// Manager returns the cookie session subsystem.
func (r *Registry) Manager() *httpsession.Manager { return r.manager }

// Handler returns the HTTP handler serving the data API behind the session
// middleware, plus POST /session/end and GET /healthz.
func (r *Registry) Handler() http.Handler { return r.handler }

// Get reads key from the bag of sessionID.
func (r *Registry) Get(sessionID, key string) (string, bool) {
	return r.store.Find(sessionID).Get(key)
}

// Put writes key into the bag of sessionID. Writes for inactive sessions are
// discarded.
func (r *Registry) Put(sessionID, key, value string) {
	r.store.Find(sessionID).Put(key, value)
}

// Remove deletes key from the bag of sessionID.
func (r *Registry) Remove(sessionID, key string) {
	r.store.Find(sessionID).Remove(key)
}

// Serve runs srv with Handler() and the idle session sweeper until ctx is
// done or the server fails, then shuts the server down gracefully. A nil
// srv.Handler is replaced by Handler().
func (r *Registry) Serve(ctx context.Context, srv *http.Server) error {
	if srv.Handler == nil {
		srv.Handler = r.handler
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.opts.Logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return r.manager.Run(gctx, r.opts.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.opts.ShutdownTimeout)
		defer cancel()
		r.opts.Logger.Info("shutting down http server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
