package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"fyndflip-backend/pkg/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// Provider is the closed set of supported OAuth providers.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderGitHub   Provider = "github"
	ProviderApple    Provider = "apple"
)

// ParseProvider maps a path/query value onto the closed provider set.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderGoogle, ProviderFacebook, ProviderGitHub, ProviderApple:
		return Provider(s), true
	}
	return "", false
}

// EncodeState packs the provider and the post-login return path into the
// round-tripped state value. Every provider echoes state back verbatim, so
// the callback can tell which client config to run the code exchange against.
func EncodeState(p Provider, next string) string {
	v := url.Values{}
	v.Set("provider", string(p))
	if next != "" {
		v.Set("next", next)
	}
	return v.Encode()
}

// DecodeState reverses EncodeState. ok is false when the value does not name
// a recognized provider.
func DecodeState(state string) (Provider, string, bool) {
	v, err := url.ParseQuery(state)
	if err != nil {
		return "", "", false
	}
	p, ok := ParseProvider(v.Get("provider"))
	if !ok {
		return "", "", false
	}
	return p, v.Get("next"), true
}

// ProviderConfig carries a provider's capability flags as typed fields,
// resolved once at startup rather than re-read from the environment per call.
type ProviderConfig struct {
	Provider        Provider
	Name            string
	Enabled         bool
	DevelopmentOnly bool
	ProductionOnly  bool
	UserInfoURL     string

	oauth oauth2.Config
}

// UserInfo is the identity returned by a provider's userinfo endpoint.
type UserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Registry holds the resolved provider set for the process lifetime.
type Registry struct {
	providers map[Provider]*ProviderConfig
	client    *http.Client
}

var appleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://appleid.apple.com/auth/authorize",
	TokenURL: "https://appleid.apple.com/auth/token",
}

// NewRegistry resolves every provider's enablement against the configured
// flags and the environment class. GitHub is development-only and Apple
// production-only until their app reviews complete.
func NewRegistry(cfg *config.Config) *Registry {
	redirect := cfg.SiteURL + "/auth/callback"

	providers := map[Provider]*ProviderConfig{
		ProviderGoogle: {
			Provider:    ProviderGoogle,
			Name:        "Google",
			Enabled:     cfg.Google.Enabled,
			UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
			oauth: oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				Endpoint:     endpoints.Google,
				RedirectURL:  redirect,
				Scopes:       []string{"openid", "email", "profile"},
			},
		},
		ProviderFacebook: {
			Provider:    ProviderFacebook,
			Name:        "Facebook",
			Enabled:     cfg.Facebook.Enabled,
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
			oauth: oauth2.Config{
				ClientID:     cfg.Facebook.ClientID,
				ClientSecret: cfg.Facebook.ClientSecret,
				Endpoint:     endpoints.Facebook,
				RedirectURL:  redirect,
				Scopes:       []string{"email"},
			},
		},
		ProviderGitHub: {
			Provider:        ProviderGitHub,
			Name:            "GitHub",
			Enabled:         cfg.GitHub.Enabled,
			DevelopmentOnly: true,
			UserInfoURL:     "https://api.github.com/user",
			oauth: oauth2.Config{
				ClientID:     cfg.GitHub.ClientID,
				ClientSecret: cfg.GitHub.ClientSecret,
				Endpoint:     endpoints.GitHub,
				RedirectURL:  redirect,
				Scopes:       []string{"user:email"},
			},
		},
		ProviderApple: {
			Provider:       ProviderApple,
			Name:           "Apple",
			Enabled:        cfg.Apple.Enabled,
			ProductionOnly: true,
			oauth: oauth2.Config{
				ClientID:     cfg.Apple.ClientID,
				ClientSecret: cfg.Apple.ClientSecret,
				Endpoint:     appleEndpoint,
				RedirectURL:  redirect,
				Scopes:       []string{"name", "email"},
			},
		},
	}

	for _, p := range providers {
		if p.DevelopmentOnly && !cfg.IsDevelopment() {
			p.Enabled = false
		}
		if p.ProductionOnly && !cfg.IsProduction() {
			p.Enabled = false
		}
	}

	return &Registry{providers: providers, client: http.DefaultClient}
}

// Enabled reports whether the provider can be offered to users.
func (r *Registry) Enabled(p Provider) bool {
	cfg, ok := r.providers[p]
	return ok && cfg.Enabled
}

// Config returns the resolved configuration for a provider.
func (r *Registry) Config(p Provider) (*ProviderConfig, bool) {
	cfg, ok := r.providers[p]
	return cfg, ok
}

// EnabledProviders lists the providers usable in the current environment.
func (r *Registry) EnabledProviders() []Provider {
	var out []Provider
	for _, p := range []Provider{ProviderGoogle, ProviderFacebook, ProviderGitHub, ProviderApple} {
		if r.Enabled(p) {
			out = append(out, p)
		}
	}
	return out
}

// DisplayName returns the human-readable provider name.
func (r *Registry) DisplayName(p Provider) string {
	if cfg, ok := r.providers[p]; ok {
		return cfg.Name
	}
	return string(p)
}

// AuthCodeURL builds the provider authorization redirect.
func (r *Registry) AuthCodeURL(p Provider, state string) (string, error) {
	cfg, ok := r.providers[p]
	if !ok || !cfg.Enabled {
		return "", fmt.Errorf("%s authentication is not currently available", r.DisplayName(p))
	}
	return cfg.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange completes the authorization-code leg: code for token, then a
// userinfo fetch with the token-bearing client.
func (r *Registry) Exchange(ctx context.Context, p Provider, code string) (*UserInfo, error) {
	cfg, ok := r.providers[p]
	if !ok || !cfg.Enabled {
		return nil, fmt.Errorf("%s authentication is not currently available", r.DisplayName(p))
	}

	token, err := cfg.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	token.SetAuthHeader(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return &info, nil
}
