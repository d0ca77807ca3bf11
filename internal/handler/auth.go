package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/budgetgate/budgetgate/internal/auth"
	"github.com/budgetgate/budgetgate/internal/cache"
	"github.com/budgetgate/budgetgate/internal/metrics"
	"github.com/budgetgate/budgetgate/internal/middleware"
)

// Sign-in redirect targets.
const (
	privatePath   = "/private"
	errorPagePath = "/auth/error"
)

// StateStore keeps pending OAuth state values between redirect and callback.
type StateStore interface {
	SaveOAuthState(ctx context.Context, state string) error
	ConsumeOAuthState(ctx context.Context, state string) (bool, error)
}

// AuthHandlerConfig wires an AuthHandler. Provider is nil when sign-in is
// not configured.
type AuthHandlerConfig struct {
	Provider auth.Provider
	States   StateStore
	Sessions *auth.Sessions
	Gate     *auth.Gate
	Metrics  metrics.Recorder
	Logger   *slog.Logger
}

// AuthHandler orchestrates sign-in: it sends the browser to the identity
// provider, runs the returned identity through the Gate and issues the
// session on admission.
type AuthHandler struct {
	provider auth.Provider
	states   StateStore
	sessions *auth.Sessions
	gate     *auth.Gate
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &AuthHandler{
		provider: cfg.Provider,
		states:   cfg.States,
		sessions: cfg.Sessions,
		gate:     cfg.Gate,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
}

// SignIn handles GET and POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil || h.states == nil || h.sessions == nil {
		h.fail(w, r, auth.ErrorConfiguration, "provider_not_configured", nil)
		return
	}

	state := cache.NewOAuthState()
	if err := h.states.SaveOAuthState(r.Context(), state); err != nil {
		h.fail(w, r, auth.ErrorDefault, "save_state_failed", err)
		return
	}

	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /auth/callback/{provider}.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil || h.states == nil || h.sessions == nil {
		h.fail(w, r, auth.ErrorConfiguration, "provider_not_configured", nil)
		return
	}

	query := r.URL.Query()
	if providerError := query.Get("error"); providerError != "" {
		_, _ = h.states.ConsumeOAuthState(r.Context(), query.Get("state"))
		code := auth.ErrorCodeFromProvider(providerError)
		h.logger.Info("sign_in_provider_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"provider_error", providerError,
		)
		if code == auth.ErrorAccessDenied {
			h.metrics.IncSignIn(metrics.SignInDenied)
		} else {
			h.metrics.IncSignIn(metrics.SignInFailed)
		}
		h.redirectError(w, r, code)
		return
	}

	pending, err := h.states.ConsumeOAuthState(r.Context(), query.Get("state"))
	if err != nil {
		h.fail(w, r, auth.ErrorDefault, "consume_state_failed", err)
		return
	}
	if !pending {
		h.fail(w, r, auth.ErrorVerification, "unknown_state", nil)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.fail(w, r, auth.ErrorVerification, "missing_code", nil)
		return
	}

	identity, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.fail(w, r, auth.ErrorDefault, "exchange_failed", err)
		return
	}

	if !h.gate.Admit(identity) {
		h.logger.Warn("sign_in_denied",
			"request_id", middleware.GetRequestID(r.Context()),
			"provider", h.provider.Name(),
		)
		h.metrics.IncSignIn(metrics.SignInDenied)
		h.redirectError(w, r, auth.ErrorAccessDenied)
		return
	}

	if err := h.sessions.Issue(w, identity); err != nil {
		h.fail(w, r, auth.ErrorDefault, "issue_session_failed", err)
		return
	}

	h.logger.Info("sign_in_admitted",
		"request_id", middleware.GetRequestID(r.Context()),
		"provider", h.provider.Name(),
	)
	h.metrics.IncSignIn(metrics.SignInAdmitted)
	http.Redirect(w, r, privatePath, http.StatusFound)
}

// SignOut handles GET and POST /auth/signout.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		h.sessions.Clear(w)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, code auth.ErrorCode, reason string, err error) {
	attrs := []any{
		"request_id", middleware.GetRequestID(r.Context()),
		"reason", reason,
		"code", string(code),
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		h.logger.Error("sign_in_failed", attrs...)
	} else {
		h.logger.Warn("sign_in_failed", attrs...)
	}
	h.metrics.IncSignIn(metrics.SignInFailed)
	h.redirectError(w, r, code)
}

func (h *AuthHandler) redirectError(w http.ResponseWriter, r *http.Request, code auth.ErrorCode) {
	http.Redirect(w, r, errorPagePath+"?error="+url.QueryEscape(string(code)), http.StatusFound)
}
