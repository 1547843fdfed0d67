package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/red-safe/platform/internal/data"
	"github.com/red-safe/platform/internal/tokens"
)

// Deps is every repository and service handlers need. It is assembled once
// at startup by cmd/server and injected into Server, the way spec.md §9's
// "explicit connection pool" redesign replaces a thread-local DB handle.
type Deps struct {
	Users         data.UserModel
	Edges         data.EdgeModel
	Bindings      data.BindingModel
	IOSDevices    data.IOSDeviceModel
	RefreshTokens data.RefreshTokenModel
	Access        *tokens.Manager

	// Lockout and NetworkSnapshots are both supplemented features (§10):
	// neither is required by the §4.5 table itself, so both are nil-safe
	// — a zero Deps still serves every endpoint the spec requires.
	Lockout           *Lockout
	NetworkSnapshots  NetworkSnapshotStore
}

// Server is the C5 HTTP request pipeline: an http.ServeMux built from the
// method+path table in spec.md §4.5, wrapped with access logging. It
// satisfies http.Handler directly so cmd/server can hand it straight to
// http.Server.
type Server struct {
	deps       Deps
	mux        *http.ServeMux
	serverLog  lineLogger
	accessLog  lineLogger
	byPath     map[string]map[string]handlerFunc
}

// NewServer builds the routed handler. serverLog and accessLog are the
// two persisted logs from spec.md §6; passing io.Discard is valid for
// tests that don't care about log output.
func NewServer(deps Deps, serverLog, accessLog io.Writer) *Server {
	s := &Server{
		deps:      deps,
		mux:       http.NewServeMux(),
		serverLog: newLineLogger(serverLog),
		accessLog: newLineLogger(accessLog),
		byPath:    make(map[string]map[string]handlerFunc),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handlerFunc is the shape every endpoint handler has: parse the request,
// do the work, return a Result. It never writes to w directly; route
// wires it through writeResult so every endpoint shares one envelope and
// one access-log line.
type handlerFunc func(r *http.Request) Result

// route registers h for method+path. Patterns are kept path-only on the
// underlying mux (method dispatch happens in dispatchPath below) so that a
// request whose path matches but whose method doesn't falls through to the
// same 404/ErrUnknownEndpoint envelope spec.md §4.5 requires, instead of
// ServeMux's own bare-text 405 for a registered "METHOD /path" pattern.
func (s *Server) route(method, pattern string, h handlerFunc) {
	if _, ok := s.byPath[pattern]; !ok {
		s.byPath[pattern] = make(map[string]handlerFunc)
		s.mux.HandleFunc(pattern, s.dispatchPath(pattern))
	}
	s.byPath[pattern][method] = h
}

// dispatchPath looks up the handler registered for r.Method against pattern,
// answering an unknown method the same way as an unknown path.
func (s *Server) dispatchPath(pattern string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h, ok := s.byPath[pattern][r.Method]
		var result Result
		if ok {
			result = h(r)
		} else {
			result = fail(404, ErrUnknownEndpoint)
		}
		writeResult(w, result)
		s.accessLog.info("%s %s %d %d %s", r.Method, r.URL.Path, result.StatusCode, result.ErrorCode, time.Since(start))
	}
}

func (s *Server) routes() {
	s.route(http.MethodPost, "/edge/signup", s.handleEdgeSignup)
	s.route(http.MethodPost, "/user/signup", s.handleUserSignup)
	s.route(http.MethodPost, "/user/signin", s.handleUserSignin)
	s.route(http.MethodPost, "/ios/signup", s.handleIOSSignup)
	s.route(http.MethodPost, "/ios/bind", s.handleIOSBind)
	s.route(http.MethodPost, "/ios/unbind", s.handleIOSUnbind)
	s.route(http.MethodPost, "/auth/refresh", s.handleAuthRefresh)
	s.route(http.MethodPost, "/auth/out", s.handleAuthOut)
	s.route(http.MethodGet, "/user/all", s.handleUserAll)

	s.mux.Handle("/edge/", s.networkSnapshotRouter())

	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, fail(404, ErrUnknownEndpoint))
	})
}

// writeResult renders the envelope: the body fields merged with
// error_code, at the fixed status for that code, plus a Set-Cookie line
// when the handler issued a new refresh token (spec.md §4.5's "second
// overload").
func writeResult(w http.ResponseWriter, res Result) {
	if res.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     "refresh_token",
			Value:    res.RefreshToken,
			Path:     "/auth",
			MaxAge:   int(data.RefreshTTL / time.Second),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	body := res.Body
	if body == nil {
		body = map[string]any{}
	}
	body["error_code"] = res.ErrorCode
	writeJSON(w, body)
}
