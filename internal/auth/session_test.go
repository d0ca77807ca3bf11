package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/budgetgate/budgetgate/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	s, err := NewSessions(testSecret, true)
	if err != nil {
		t.Fatalf("NewSessions() error: %v", err)
	}
	return s
}

func TestDeriveSessionKey(t *testing.T) {
	t.Parallel()

	k1, err := DeriveSessionKey(testSecret)
	if err != nil {
		t.Fatalf("DeriveSessionKey() error: %v", err)
	}
	k2, _ := DeriveSessionKey(testSecret)
	k3, _ := DeriveSessionKey(testSecret + "x")

	if len(k1) != sessionKeySize {
		t.Errorf("key length = %d, want %d", len(k1), sessionKeySize)
	}
	if string(k1) != string(k2) {
		t.Error("expected deterministic derivation")
	}
	if string(k1) == string(k3) {
		t.Error("expected different secrets to derive different keys")
	}
	if string(k1) == testSecret[:sessionKeySize] {
		t.Error("expected derived key to differ from raw secret")
	}

	if _, err := DeriveSessionKey(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestSessions_SignParseRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestSessions(t)
	in := &model.Identity{Subject: "g-1", Email: "owner@example.com", Name: "Owner"}

	token, err := s.Sign(in)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	out, err := s.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if *out != *in {
		t.Errorf("Parse() = %+v, want %+v", out, in)
	}
}

func TestSessions_ParseRejects(t *testing.T) {
	t.Parallel()

	s := newTestSessions(t)
	other, err := NewSessions(testSecret+"-other", true)
	if err != nil {
		t.Fatalf("NewSessions() error: %v", err)
	}
	foreign, _ := other.Sign(&model.Identity{Email: "owner@example.com"})

	expired := newTestSessions(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * SessionTTL) }
	stale, _ := expired.Sign(&model.Identity{Email: "owner@example.com"})

	none := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "owner@example.com",
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"foreign key", foreign},
		{"expired", stale},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Parse(tt.token); err != ErrInvalidSession {
				t.Errorf("Parse() error = %v, want ErrInvalidSession", err)
			}
		})
	}
}

func TestSessions_IssueAndCurrentIdentity(t *testing.T) {
	t.Parallel()

	s := newTestSessions(t)
	rec := httptest.NewRecorder()

	if err := s.Issue(rec, &model.Identity{Email: "owner@example.com"}); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName {
		t.Errorf("cookie name = %q", c.Name)
	}
	if !c.HttpOnly || !c.Secure {
		t.Errorf("expected HttpOnly and Secure cookie, got %+v", c)
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", c.SameSite)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(c)

	identity, ok := s.CurrentIdentity(req)
	if !ok {
		t.Fatal("expected identity from cookie")
	}
	if identity.Email != "owner@example.com" {
		t.Errorf("email = %q", identity.Email)
	}
}

func TestSessions_CurrentIdentity_Missing(t *testing.T) {
	t.Parallel()

	s := newTestSessions(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if _, ok := s.CurrentIdentity(req); ok {
		t.Error("expected no identity without cookie")
	}

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tampered"})
	if _, ok := s.CurrentIdentity(req); ok {
		t.Error("expected no identity for tampered cookie")
	}
}

func TestSessions_Clear(t *testing.T) {
	t.Parallel()

	s := newTestSessions(t)
	rec := httptest.NewRecorder()
	s.Clear(rec)

	header := rec.Header().Get("Set-Cookie")
	if !strings.Contains(header, SessionCookieName+"=") || !strings.Contains(header, "Max-Age=0") {
		t.Errorf("expected expiring cookie, got %q", header)
	}
}
