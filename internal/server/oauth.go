package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/medspa/internal/auth"
	"github.com/desertthunder/medspa/internal/shared"
)

const (
	stateCookie    = "medspa_oauth_state"
	verifierCookie = "medspa_oauth_verifier"
	nextCookie     = "medspa_oauth_next"
	loginCookieTTL = 10 * time.Minute
)

// OAuthHandler serves login, the authorization code callback and logout.
type OAuthHandler struct {
	config   *oauth2.Config
	machine  *auth.Machine
	routes   auth.Routes
	sessions *Sessions
	metrics  *Metrics
	secure   bool
	logger   *log.Logger
}

// NewOAuthConfig builds the [oauth2.Config] for the configured provider.
func NewOAuthConfig(config shared.AuthConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		RedirectURL:  config.RedirectURL,
		Scopes:       config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  config.AuthURL,
			TokenURL: config.TokenURL,
		},
	}
}

// NewOAuthHandler creates an [OAuthHandler]. exchanger defaults to config.
func NewOAuthHandler(config *oauth2.Config, exchanger auth.Exchanger, routes auth.Routes, sessions *Sessions, metrics *Metrics, secure bool, logger *log.Logger) *OAuthHandler {
	if exchanger == nil {
		exchanger = config
	}
	machine := auth.NewMachine(exchanger, routes, logger)
	return &OAuthHandler{
		config:   config,
		machine:  machine,
		routes:   routes,
		sessions: sessions,
		metrics:  metrics,
		secure:   secure,
		logger:   logger,
	}
}

// Login starts the authorization code flow with state and a PKCE challenge.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.config.ClientID == "" || h.config.Endpoint.AuthURL == "" {
		h.logger.Error("login unavailable", "error", shared.ErrMissingCredentials)
		http.Error(w, "Authentication is not configured", http.StatusInternalServerError)
		return
	}

	state := shared.GenerateID()
	verifier := oauth2.GenerateVerifier()

	h.setLoginCookie(w, stateCookie, state)
	h.setLoginCookie(w, verifierCookie, verifier)
	if next := r.URL.Query().Get("next"); auth.SafeNext(next) {
		h.setLoginCookie(w, nextCookie, next)
	}

	target := h.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback runs the callback state machine and redirects to its target.
//
// On success the session is persisted and its cookie set; login cookies are always cleared.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := auth.Request{
		Code:          q.Get("code"),
		Next:          q.Get("next"),
		State:         q.Get("state"),
		ProviderError: q.Get("error"),
		ExpectedState: cookieValue(r, stateCookie),
		Verifier:      cookieValue(r, verifierCookie),
	}
	if req.Next == "" {
		req.Next = cookieValue(r, nextCookie)
	}

	for _, name := range []string{stateCookie, verifierCookie, nextCookie} {
		clearCookie(w, name, h.secure)
	}

	out := h.machine.Run(r.Context(), req)

	if out.State == auth.Success {
		if err := h.startSession(w, r, out); err != nil {
			out = h.machine.Step(r.Context(), auth.Outcome{State: auth.Failure, Err: err}, req)
		}
	}

	h.metrics.Callback(out.State.String())
	http.Redirect(w, r, out.Redirect, http.StatusSeeOther)
}

func (h *OAuthHandler) startSession(w http.ResponseWriter, r *http.Request, out auth.Outcome) error {
	userID, err := auth.UserID(out.Token)
	if err != nil {
		return err
	}
	session, err := h.sessions.Start(r.Context(), w, userID, out.Token)
	if err != nil {
		return err
	}
	h.logger.Info("signed in", "user_id", userID, "session_id", session.ID)
	return nil
}

// Logout ends the session and returns to the landing route.
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	http.Redirect(w, r, h.landing(), http.StatusSeeOther)
}

func (h *OAuthHandler) landing() string {
	if h.routes.Landing == "" {
		return auth.DefaultRoutes().Landing
	}
	return h.routes.Landing
}

func (h *OAuthHandler) setLoginCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(loginCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
