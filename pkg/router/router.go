package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/catalog/pkg/response"
)

type Middleware func(http.Handler) http.Handler

// HandlerFunc is a route handler that reports failures by returning them.
// The router forwards every non-nil error to the ErrorHandler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// ErrorHandler turns a handler error into a response. w is always a
// *response.TrackedWriter so the handler can tell whether a response was
// already started.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Route describes one registered endpoint.
type Route struct {
	Method string
	Path   string
	Name   string
}

type Router struct {
	mux     chi.Router
	onError ErrorHandler
	routes  map[string]string
	table   []Route
	mu      sync.RWMutex
}

type Group struct {
	router      *Router
	prefix      string
	middlewares []Middleware
}

type Option func(*Router)

// WithErrorHandler sets the handler that receives every route error.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) { r.onError = h }
}

func New(opts ...Option) *Router {
	r := &Router{
		mux:     chi.NewRouter(),
		onError: defaultErrorHandler,
		routes:  make(map[string]string),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	if response.Track(w).Started() {
		return
	}
	response.Error(w, http.StatusInternalServerError, "Internal server error")
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

// Use appends global middleware. It must be called before any route is
// registered.
func (r *Router) Use(middlewares ...Middleware) {
	for _, mw := range middlewares {
		r.mux.Use(mw)
	}
}

// NotFound answers unmatched paths and unsupported methods alike.
func (r *Router) NotFound(h http.HandlerFunc) {
	r.mux.NotFound(h)
	r.mux.MethodNotAllowed(h)
}

func (r *Router) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      r,
		prefix:      normalizePath(prefix),
		middlewares: append([]Middleware(nil), middlewares...),
	}
}

func (r *Router) Get(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodGet, normalizePath(path), name, r.adapt(handler), middlewares...)
}

func (r *Router) Post(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	r.mount(http.MethodPost, normalizePath(path), name, r.adapt(handler), middlewares...)
}

// Handle mounts a plain http.Handler, for endpoints such as /metrics that
// never fail through the error path.
func (r *Router) Handle(method, path, name string, handler http.Handler, middlewares ...Middleware) {
	r.mount(method, normalizePath(path), name, handler, middlewares...)
}

func (r *Router) Path(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.routes[name]
	return path, ok
}

func (r *Router) URL(name string, params map[string]string) (string, error) {
	path, ok := r.Path(name)
	if !ok {
		return "", fmt.Errorf("route %q not found", name)
	}

	for key, value := range params {
		path = strings.ReplaceAll(path, "{"+key+"}", value)
	}

	if strings.Contains(path, "{") {
		return "", fmt.Errorf("missing parameters for route %q", name)
	}

	return path, nil
}

// Routes lists every registered endpoint ordered by path, then method.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	out := append([]Route(nil), r.table...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (r *Router) adapt(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tw := response.Track(w)
		if err := h(tw, req); err != nil {
			r.onError(tw, req, err)
		}
	})
}

func (r *Router) mount(method, fullPath, name string, handler http.Handler, middlewares ...Middleware) {
	r.mux.Method(method, fullPath, chain(handler, middlewares...))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.table = append(r.table, Route{Method: method, Path: fullPath, Name: name})
	if name != "" {
		r.routes[name] = fullPath
	}
}

func (g *Group) Group(prefix string, middlewares ...Middleware) *Group {
	return &Group{
		router:      g.router,
		prefix:      joinPath(g.prefix, prefix),
		middlewares: append(append([]Middleware(nil), g.middlewares...), middlewares...),
	}
}

func (g *Group) Get(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodGet, path, name, g.router.adapt(handler), middlewares...)
}

func (g *Group) Post(path, name string, handler HandlerFunc, middlewares ...Middleware) {
	g.mount(http.MethodPost, path, name, g.router.adapt(handler), middlewares...)
}

func (g *Group) mount(method, path, name string, handler http.Handler, middlewares ...Middleware) {
	combined := append(append([]Middleware(nil), g.middlewares...), middlewares...)
	g.router.mount(method, joinPath(g.prefix, path), name, handler, combined...)
}

func chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	wrapped := handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func joinPath(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.Trim(part, "/")
		if trimmed != "" {
			segments = append(segments, trimmed)
		}
	}

	if len(segments) == 0 {
		return "/"
	}

	return "/" + strings.Join(segments, "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	return joinPath(path)
}
