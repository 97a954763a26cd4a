package server

import (
	"net/http"
	"net/mail"
	"strings"

	"campusrun/pkg/types"

	"golang.org/x/crypto/bcrypt"
)

type registerPayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	payload.DisplayName = strings.TrimSpace(payload.DisplayName)

	if err := validateRegisterPayload(&payload); err != nil {
		s.respondError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("failed to hash password")
		s.respondError(w, err)
		return
	}

	user := &types.User{
		Email:        payload.Email,
		DisplayName:  payload.DisplayName,
		PasswordHash: string(hash),
	}

	if err := s.users.Create(r.Context(), user); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, user)
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if !s.decodeJSON(w, r, &payload) {
		return
	}

	user, err := s.users.UserByEmail(r.Context(), strings.TrimSpace(payload.Email))
	if err != nil {
		// Same response for unknown email and bad password.
		s.respondError(w, types.ErrNotAuthenticated)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password))
	if err != nil {
		s.respondError(w, types.ErrNotAuthenticated)
		return
	}

	token, err := s.sessions.Create(r.Context(), user.ID)
	if err != nil {
		s.logger.WithError(err).Error("failed to create session")
		s.respondError(w, err)
		return
	}

	encoded, err := s.cookie.Encode(s.config.CookieName, token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode session cookie")
		s.respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   s.config.SessionMaxAgeSec,
		Path:     "/",
	})

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(s.config.CookieName)
	if err == nil {
		var token string
		if decodeErr := s.cookie.Decode(s.config.CookieName, cookie.Value, &token); decodeErr == nil {
			if destroyErr := s.sessions.Destroy(r.Context(), token); destroyErr != nil {
				s.logger.WithError(destroyErr).Warn("failed to destroy session")
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Path:     "/",
	})

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	user, err := s.users.User(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func validateRegisterPayload(payload *registerPayload) error {
	if payload.Email == "" {
		return &types.ValidationError{Field: "email", Message: "is required"}
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		return &types.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if payload.DisplayName == "" {
		return &types.ValidationError{Field: "displayName", Message: "is required"}
	}
	if len(payload.Password) < 8 {
		return &types.ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	return nil
}
