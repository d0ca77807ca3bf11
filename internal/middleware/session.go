package middleware

import (
	"log/slog"
	"net/http"

	"github.com/budgetgate/budgetgate/internal/auth"
	"github.com/budgetgate/budgetgate/internal/metrics"
)

// SignInPath is where unauthenticated page requests are sent.
const SignInPath = "/auth/signin"

// SessionMode selects how RequireSession rejects a request.
type SessionMode int

const (
	// SessionModeAPI answers 401 with a JSON body.
	SessionModeAPI SessionMode = iota
	// SessionModePage redirects to the sign-in page.
	SessionModePage
)

// RequireSession admits a request only when it carries a valid session whose
// identity the gate admits. The gate is re-evaluated on every request, so
// changing the allow-list revokes existing sessions. The admitted identity is
// stored in the request context.
func RequireSession(source auth.IdentitySource, gate *auth.Gate, mode SessionMode, recorder metrics.Recorder, logger *slog.Logger) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := source.CurrentIdentity(r)
			if !ok || !gate.Admit(identity) {
				logger.LogAttrs(r.Context(), slog.LevelDebug, "session rejected",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("path", r.URL.Path),
					slog.Bool("had_session", ok),
				)
				recorder.IncRequestRejected(metrics.RejectUnauthorized)
				reject(w, r, mode)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, mode SessionMode) {
	if mode == SessionModePage {
		http.Redirect(w, r, SignInPath, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
