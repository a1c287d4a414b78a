package auth

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/medspa/internal/shared"
)

// State is a callback state.
type State int

const (
	NoCode State = iota
	Exchanging
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case NoCode:
		return "no_code"
	case Exchanging:
		return "exchanging"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s != Exchanging
}

// Exchanger trades an authorization code for a token. [oauth2.Config] implements it.
type Exchanger interface {
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// Routes are the redirect targets used by the machine.
type Routes struct {
	Landing string
	Success string
	Error   string
}

// DefaultRoutes returns the routes used when none are configured.
func DefaultRoutes() Routes {
	return Routes{Landing: "/", Success: "/my-page", Error: "/auth/auth-code-error"}
}

// RoutesFromConfig reads the redirect targets from config.
func RoutesFromConfig(config shared.AuthConfig) Routes {
	return Routes{Landing: config.LandingRoute, Success: config.SuccessRoute, Error: config.ErrorRoute}
}

// Request is the input to a callback run.
type Request struct {
	Code          string // authorization code, empty when the provider sent none
	Next          string // requested post-login path
	State         string // state echoed by the provider
	ExpectedState string // state issued at login; empty skips the check
	Verifier      string // PKCE verifier issued at login
	ProviderError string // error query parameter sent by the provider
}

// Outcome is the result of a transition.
type Outcome struct {
	State    State
	Redirect string
	Token    *oauth2.Token
	Err      error
}

// Machine runs the callback state machine.
type Machine struct {
	exchanger Exchanger
	routes    Routes
	logger    *log.Logger
}

// NewMachine creates a [Machine]. Empty routes fall back to [DefaultRoutes] and a nil logger discards output.
func NewMachine(exchanger Exchanger, routes Routes, logger *log.Logger) *Machine {
	defaults := DefaultRoutes()
	if routes.Landing == "" {
		routes.Landing = defaults.Landing
	}
	if routes.Success == "" {
		routes.Success = defaults.Success
	}
	if routes.Error == "" {
		routes.Error = defaults.Error
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{exchanger: exchanger, routes: routes, logger: logger}
}

// Start returns the initial state for req.
func Start(req Request) State {
	if strings.TrimSpace(req.Code) == "" {
		return NoCode
	}
	return Exchanging
}

// Run drives the machine from [Start] until it reaches a terminal state.
func (m *Machine) Run(ctx context.Context, req Request) Outcome {
	out := Outcome{State: Start(req)}
	for {
		out = m.Step(ctx, out, req)
		if out.State.Terminal() && out.Redirect != "" {
			return out
		}
	}
}

// Step is the transition function. Given the current outcome it returns the next one.
//
// Terminal states resolve their redirect target and stay where they are.
func (m *Machine) Step(ctx context.Context, current Outcome, req Request) Outcome {
	switch current.State {
	case NoCode:
		if req.ProviderError != "" {
			m.logger.Warn("callback without code", "provider_error", req.ProviderError)
		}
		return Outcome{State: NoCode, Redirect: m.routes.Landing}
	case Exchanging:
		token, err := m.exchange(ctx, req)
		if err != nil {
			return Outcome{State: Failure, Err: err}
		}
		return Outcome{State: Success, Token: token}
	case Success:
		current.Redirect = m.routes.Success
		if SafeNext(req.Next) {
			current.Redirect = req.Next
		}
		return current
	case Failure:
		m.logger.Error("auth callback failed", "error", current.Err)
		current.Redirect = ErrorRedirect(m.routes.Error, current.Err)
		return current
	default:
		return Outcome{
			State: Failure,
			Err:   fmt.Errorf("%w: unknown callback state %s", shared.ErrAuthFailed, current.State),
		}
	}
}

// exchange calls the exchanger, converting a panic into an error.
func (m *Machine) exchange(ctx context.Context, req Request) (token *oauth2.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			token = nil
			err = fmt.Errorf("%w: exchange panicked: %v", shared.ErrAuthFailed, r)
		}
	}()

	if req.ExpectedState != "" && req.State != req.ExpectedState {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, shared.ErrInvalidState)
	}
	if m.exchanger == nil {
		return nil, fmt.Errorf("%w: no exchanger configured", shared.ErrMissingCredentials)
	}

	var opts []oauth2.AuthCodeOption
	if req.Verifier != "" {
		opts = append(opts, oauth2.VerifierOption(req.Verifier))
	}

	token, err = m.exchanger.Exchange(ctx, req.Code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if token == nil {
		return nil, fmt.Errorf("%w: exchange returned no token", shared.ErrAuthFailed)
	}
	return token, nil
}

// SafeNext reports whether next is a local absolute path that cannot leave the site.
func SafeNext(next string) bool {
	if next == "" || !strings.HasPrefix(next, "/") {
		return false
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	// browsers drop tabs and newlines, so "/\t/host" would become "//host"
	for i := 0; i < len(next); i++ {
		if next[i] < 0x20 || next[i] == 0x7f {
			return false
		}
	}
	u, err := url.Parse(next)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// ErrorRedirect appends the error detail to route as the error query parameter.
func ErrorRedirect(route string, err error) string {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	u, err := url.Parse(route)
	if err != nil {
		return route + "?" + url.Values{"error": {detail}}.Encode()
	}
	q := u.Query()
	q.Set("error", detail)
	u.RawQuery = q.Encode()
	return u.String()
}
