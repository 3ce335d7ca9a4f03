package httpapi

import (
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/hupe1980/sessionbag/core"
	"github.com/hupe1980/sessionbag/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options configures a Handler.
type Options struct {
	// MaxValueBytes caps PUT bodies. Zero means DefaultMaxValueBytes.
	MaxValueBytes int64
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// DefaultMaxValueBytes is the PUT body limit used when none is configured.
const DefaultMaxValueBytes = 64 << 10

// Entry is the JSON shape of a single key/value pair.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Handler serves the bag of the session bound to each request.
type Handler struct {
	store core.SessionStore
	opts  Options
	mux   *http.ServeMux
}

// NewHandler returns a Handler reading and writing through store.
func NewHandler(store core.SessionStore, optFns ...func(o *Options)) *Handler {
	opts := Options{MaxValueBytes: DefaultMaxValueBytes, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxValueBytes <= 0 {
		opts.MaxValueBytes = DefaultMaxValueBytes
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	h := &Handler{store: store, opts: opts, mux: http.NewServeMux()}
	h.Register(h.mux)
	return h
}

// Register mounts the data routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /data", h.list)
	mux.HandleFunc("GET /data/{key}", h.get)
	mux.HandleFunc("PUT /data/{key}", h.put)
	mux.HandleFunc("DELETE /data/{key}", h.remove)
}

// ServeHTTP serves the data routes on the handler's own mux.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) requestContext(w http.ResponseWriter, r *http.Request) (*core.RequestContext, bool) {
	rc, err := core.RequestContextFrom(r.Context(), h.store, h.opts.Logger)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, err)
		return nil, false
	}
	return rc, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rc, ok := h.requestContext(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, rc.Bag().Snapshot())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rc, ok := h.requestContext(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")
	v, found := rc.Get(key)
	if !found {
		h.writeError(w, http.StatusNotFound, errKeyNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, Entry{Key: key, Value: v})
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	rc, ok := h.requestContext(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxValueBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, errValueTooLarge)
			return
		}
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	if !rc.Put(r.PathValue("key"), string(body)) {
		h.writeError(w, http.StatusGone, errSessionEnded)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	rc, ok := h.requestContext(w, r)
	if !ok {
		return
	}
	if !rc.Remove(r.PathValue("key")) {
		h.writeError(w, http.StatusGone, errSessionEnded)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	if err := WriteJSON(w, status, v); err != nil {
		h.opts.Logger.Error("writing response failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.opts.Logger.Error("request failed", "status", status, "error", err)
	}
	h.writeJSON(w, status, errorBody{Error: err.Error()})
}
