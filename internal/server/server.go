package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"campusrun/internal/delivery"
	"campusrun/internal/notify"
	"campusrun/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	cookie   *securecookie.SecureCookie
	sessions sessionStore
	users    userStore
	messages messageStore
	photos   photoStorage

	engine     *delivery.Engine
	stats      *delivery.Aggregator
	dispatcher notify.Dispatcher

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	sessions sessionStore,
	users userStore,
	messages messageStore,
	photos photoStorage,
	engine *delivery.Engine,
	stats *delivery.Aggregator,
	dispatcher notify.Dispatcher,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_HASH_KEY: %w", err)
	}

	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("invalid COOKIE_BLOCK_KEY: %w", err)
	}

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		sessions: sessions,
		users:    users,
		messages: messages,
		photos:   photos,

		engine:     engine,
		stats:      stats,
		dispatcher: dispatcher,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/login", s.handleLogin, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/logout", s.handleLogout, http.MethodPost)
		r.HandleFunc("/api/me", s.handleMe, http.MethodGet)

		r.HandleFunc("/api/requests", s.handleCreateRequest, http.MethodPost)
		r.HandleFunc("/api/requests", s.handleListRequests, http.MethodGet)
		r.HandleFunc("/api/requests/:id", s.handleGetRequest, http.MethodGet)
		r.HandleFunc("/api/requests/:id", s.handleDeleteRequest, http.MethodDelete)

		r.HandleFunc("/api/requests/:id/accept", s.handleAcceptRequest, http.MethodPost)
		r.HandleFunc("/api/requests/:id/photo", s.handleUploadPhoto, http.MethodPost)
		r.HandleFunc("/api/requests/:id/complete", s.handleCompleteDelivery, http.MethodPost)
		r.HandleFunc("/api/requests/:id/cancel", s.handleCancelDelivery, http.MethodPost)
		r.HandleFunc("/api/requests/:id/confirm-received", s.handleConfirmReceived, http.MethodPost)
		r.HandleFunc("/api/requests/:id/confirm-not-received", s.handleConfirmNotReceived, http.MethodPost)

		r.HandleFunc("/api/requests/:id/messages", s.handleListMessages, http.MethodGet)
		r.HandleFunc("/api/requests/:id/messages", s.handlePostMessage, http.MethodPost)

		r.HandleFunc("/api/users/:id/stats", s.handleUserStats, http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok || userID == "" {
		return "", types.ErrNotAuthenticated
	}
	return userID, nil
}
