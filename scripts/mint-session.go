// Command mint-session prints a signed session token for local testing of
// session-bound routes with curl:
//
//	curl -b "budgetgate.session=$(go run ./scripts/mint-session.go)" localhost:8080/api/test-db
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/budgetgate/budgetgate/internal/auth"
	"github.com/budgetgate/budgetgate/internal/model"
)

type output struct {
	Cookie    string    `json:"cookie"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func main() {
	var (
		secret = pflag.StringP("secret", "s", os.Getenv("AUTH_SECRET"), "Session secret (AUTH_SECRET)")
		email  = pflag.StringP("email", "e", os.Getenv("ALLOWED_EMAIL"), "Email asserted by the session")
		name   = pflag.StringP("name", "n", "", "Display name")
		format = pflag.StringP("format", "f", "plain", "Output format: plain, cookie or json")
	)
	pflag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "AUTH_SECRET is required")
		os.Exit(1)
	}
	if *email == "" {
		fmt.Fprintln(os.Stderr, "email is required")
		os.Exit(1)
	}
	if allowed := os.Getenv("ALLOWED_EMAIL"); allowed != "" && allowed != *email {
		fmt.Fprintf(os.Stderr, "warning: %s is not ALLOWED_EMAIL; the gate will reject this session\n", *email)
	}

	sessions, err := auth.NewSessions(*secret, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init sessions:", err)
		os.Exit(1)
	}

	token, err := sessions.Sign(&model.Identity{Subject: "local", Email: *email, Name: *name})
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign session:", err)
		os.Exit(1)
	}

	out := output{
		Cookie:    auth.SessionCookieName + "=" + token,
		Token:     token,
		Email:     *email,
		ExpiresAt: time.Now().Add(auth.SessionTTL).UTC().Truncate(time.Second),
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "cookie":
		fmt.Println(out.Cookie)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain, cookie or json")
		os.Exit(1)
	}
}
