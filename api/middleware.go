package api

import (
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultSignInPath = "/api/auth/signin"

type authMiddleware struct {
	responder  Responder
	logger     zerolog.Logger
	verifier   *auth.Verifier
	signInPath string
}

func newAuthMiddleware(verifier *auth.Verifier, signInPath string) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	if signInPath == "" {
		signInPath = defaultSignInPath
	}
	return authMiddleware{
		responder:  NewResponder(logger),
		logger:     logger,
		verifier:   verifier,
		signInPath: signInPath,
	}
}

// loadSession verifies the session token, if any, and stores the session in
// the request context. Requests without a valid token continue anonymously.
func (m authMiddleware) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.verifier.FromRequest(r)
		if err != nil {
			if !errs.IsMissingTokenError(err) {
				m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("ignoring invalid session token")
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// guardAdminPages protects admin pages. Anonymous callers are sent to sign-in
// with the page they asked for as callbackUrl; signed-in non-admins are sent
// to the site root.
func (m authMiddleware) guardAdminPages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, m.signInURL(r), http.StatusTemporaryRedirect)
			return
		}
		if !session.IsAdmin() {
			http.Redirect(w, r, requestOrigin(r)+"/", http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects admin API calls before any entity logic runs: 401 when
// there is no session, 403 when the session is not an admin.
func (m authMiddleware) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := auth.SessionFromContext(r.Context())
		if !ok {
			m.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}
		if !session.IsAdmin() {
			m.responder.WriteError(w, errs.NewInsufficientRoleError(auth.RoleAdmin))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m authMiddleware) signInURL(r *http.Request) string {
	origin := requestOrigin(r)
	target := m.signInPath
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = origin + "/" + strings.TrimPrefix(target, "/")
	}

	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: defaultSignInPath}
	}
	q := u.Query()
	q.Set("callbackUrl", origin+r.URL.RequestURI())
	u.RawQuery = q.Encode()
	return u.String()
}

// requestOrigin is scheme://host of the URL the client asked for, honouring
// proxy forwarding headers.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "recoverer").Logger())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					responder.WriteError(srw, errs.NewInternalError("panic"))
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status >= http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Msg("5xx error response")
		}
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with a level based on status code
func ColoredHTTPLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = log.Error()
		case srw.status >= 400:
			logEvent = log.Warn()
		default:
			logEvent = log.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
