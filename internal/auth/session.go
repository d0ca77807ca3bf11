package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/hkdf"

	"github.com/budgetgate/budgetgate/internal/model"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "budgetgate.session"
	// SessionTTL is how long an issued session stays valid.
	SessionTTL = 30 * 24 * time.Hour

	sessionIssuer  = "budgetgate"
	sessionKeyInfo = "budgetgate session signing key"
	sessionKeySize = 32
)

// ErrInvalidSession is returned when a session token fails verification.
var ErrInvalidSession = errors.New("invalid session")

// IdentitySource yields the identity asserted for the current request.
type IdentitySource interface {
	CurrentIdentity(r *http.Request) (*model.Identity, bool)
}

// SessionClaims is the JWT payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sessions issues and verifies stateless session cookies. The token is the
// only record of the session; nothing is stored server-side.
type Sessions struct {
	key    []byte
	secure bool
	ttl    time.Duration
	now    func() time.Time
}

// DeriveSessionKey expands secret into an HS256 signing key with HKDF-SHA256.
func DeriveSessionKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	key := make([]byte, sessionKeySize)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(sessionKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

// NewSessions creates a Sessions keyed from secret. secure marks cookies
// Secure and should be false only for plain-HTTP development.
func NewSessions(secret string, secure bool) (*Sessions, error) {
	key, err := DeriveSessionKey(secret)
	if err != nil {
		return nil, err
	}
	return &Sessions{
		key:    key,
		secure: secure,
		ttl:    SessionTTL,
		now:    time.Now,
	}, nil
}

// Sign returns a signed session token for identity.
func (s *Sessions) Sign(identity *model.Identity) (string, error) {
	now := s.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   identity.Subject,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: identity.Email,
		Name:  identity.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and returns the identity it carries.
func (s *Sessions) Parse(tokenString string) (*model.Identity, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	return &model.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

// Issue writes the session cookie for identity.
func (s *Sessions) Issue(w http.ResponseWriter, identity *model.Identity) error {
	token, err := s.Sign(identity)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.now().Add(s.ttl),
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentIdentity returns the identity from the request's session cookie.
// A missing, expired or tampered cookie yields (nil, false).
func (s *Sessions) CurrentIdentity(r *http.Request) (*model.Identity, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	identity, err := s.Parse(cookie.Value)
	if err != nil {
		return nil, false
	}
	return identity, true
}
