package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/medspa/internal/auth"
	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

// SessionStore is the persistence the session layer needs.
// [repositories.SessionRepository] implements it.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// Sessions issues, loads and ends browser sessions.
//
// The cookie holds a signed session id; tokens stay in the store.
type Sessions struct {
	store      SessionStore
	codec      *auth.SessionCodec
	cookieName string
	secure     bool
	logger     *log.Logger
	now        func() time.Time
}

// NewSessions creates a [Sessions]. Cookies are marked Secure when secure is set.
func NewSessions(store SessionStore, codec *auth.SessionCodec, cookieName string, secure bool, logger *log.Logger) *Sessions {
	if cookieName == "" {
		cookieName = "medspa_session"
	}
	return &Sessions{
		store:      store,
		codec:      codec,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger,
		now:        time.Now,
	}
}

// Start persists a session for userID and sets the session cookie.
func (s *Sessions) Start(ctx context.Context, w http.ResponseWriter, userID string, token *oauth2.Token) (*models.Session, error) {
	session := &models.Session{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    s.now().Add(s.codec.TTL()).UTC(),
	}
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	value, err := s.codec.Encode(session.ID)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return session, nil
}

// Load resolves the session named by the request cookie.
func (s *Sessions) Load(r *http.Request) (*models.Session, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil, shared.ErrNotAuthenticated
	}

	id, err := s.codec.Decode(cookie.Value)
	if err != nil {
		return nil, err
	}

	session, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, shared.ErrSessionExpired
	}
	return session, nil
}

// End deletes the current session, if any, and clears the cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) {
	if session, ok := auth.SessionFrom(r.Context()); ok {
		if err := s.store.Delete(r.Context(), session.ID); err != nil && !errors.Is(err, shared.ErrSessionNotFound) {
			s.logger.Warn("failed to delete session", "session_id", session.ID, "error", err)
		}
	}
	clearCookie(w, s.cookieName, s.secure)
}

// Middleware attaches the request's session to its context when one is valid.
//
// Requests without a valid session continue anonymously.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Load(r)
		if err != nil {
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				s.logger.Debug("ignoring session cookie", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// RequireSession answers 401 when the request carries no session.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.SessionFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, shared.ErrNotAuthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
