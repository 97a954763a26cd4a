package server

import (
	"context"
	"net/http"
	"time"

	"campusrun/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyUserID contextKey = "user_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth resolves the session cookie to a user id and puts it on
// the request context. Handlers below this middleware always have an
// actor.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.config.CookieName)
		if err != nil {
			s.respondError(w, types.ErrNotAuthenticated)
			return
		}

		var token string
		err = s.cookie.Decode(s.config.CookieName, cookie.Value, &token)
		if err != nil {
			s.logger.WithError(err).Debug("failed to decode session cookie")
			s.respondError(w, types.ErrNotAuthenticated)
			return
		}

		userID, err := s.sessions.UserID(r.Context(), token)
		if err != nil {
			s.respondError(w, types.ErrNotAuthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
