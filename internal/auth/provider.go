package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/budgetgate/budgetgate/internal/model"
)

// Google OAuth 2.0 / OpenID Connect endpoints.
const (
	GoogleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenURL    = "https://oauth2.googleapis.com/token"
	GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// maxUserInfoSize bounds the userinfo response body.
const maxUserInfoSize = 1 << 20

// ErrProviderExchange is returned when the authorization code cannot be
// turned into an identity.
var ErrProviderExchange = errors.New("identity provider exchange failed")

// Provider is the external identity provider.
type Provider interface {
	// Name is the provider identifier used in callback routes.
	Name() string
	// AuthCodeURL returns the URL that starts the provider's sign-in flow.
	AuthCodeURL(state string) string
	// Exchange redeems an authorization code for the asserted identity.
	Exchange(ctx context.Context, code string) (*model.Identity, error)
}

// GoogleConfig configures a GoogleProvider. Endpoint URLs default to
// Google's production endpoints.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	// HTTPClient is used for token and userinfo requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client
}

// GoogleProvider signs users in with Google and asserts their email.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleProvider creates a Google identity provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = GoogleAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = GoogleTokenURL
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = GoogleUserInfoURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: userInfoURL,
		httpClient:  httpClient,
	}
}

// Name returns "google".
func (p *GoogleProvider) Name() string {
	return "google"
}

// AuthCodeURL returns Google's consent URL carrying state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// googleUserInfo is the subset of the OIDC userinfo response we read.
type googleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange redeems code and fetches the user's profile. An unverified email
// is dropped so that the gate denies it.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*model.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token: %v", ErrProviderExchange, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo request: %v", ErrProviderExchange, err)
	}

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", ErrProviderExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrProviderExchange, resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUserInfoSize)).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", ErrProviderExchange, err)
	}

	identity := &model.Identity{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    info.Name,
	}
	if !info.EmailVerified {
		identity.Email = ""
	}
	return identity, nil
}
