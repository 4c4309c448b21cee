// File: internal/auth/oauth_client.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"blog_backend/internal/common"
	"blog_backend/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	naverUserInfoURL  = "https://openapi.naver.com/v1/nid/me"
	kakaoUserInfoURL  = "https://kapi.kakao.com/v2/user/me"
)

var (
	naverEndpoint = oauth2.Endpoint{
		AuthURL:   "https://nid.naver.com/oauth2.0/authorize",
		TokenURL:  "https://nid.naver.com/oauth2.0/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	kakaoEndpoint = oauth2.Endpoint{
		AuthURL:   "https://kauth.kakao.com/oauth/authorize",
		TokenURL:  "https://kauth.kakao.com/oauth/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
)

// Registration is one provider's client settings.
type Registration struct {
	Provider         Provider
	OAuth2           *oauth2.Config
	UserInfoURL      string
	NameAttributeKey string
}

// Clients performs the authorization-code handshake for the registered providers.
type Clients struct {
	registrations map[Provider]*Registration
	httpClient    *http.Client
}

// NewClients builds a client set. A nil httpClient gets a 10 second timeout default.
func NewClients(httpClient *http.Client, regs ...*Registration) *Clients {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	c := &Clients{registrations: make(map[Provider]*Registration, len(regs)), httpClient: httpClient}
	for _, r := range regs {
		if r.NameAttributeKey == "" {
			r.NameAttributeKey = r.Provider.DefaultNameAttributeKey()
		}
		c.registrations[r.Provider] = r
	}
	return c
}

// NewClientsFromConfig registers every provider that has a client ID configured.
func NewClientsFromConfig(cfg *config.Config) *Clients {
	var regs []*Registration
	if cfg.GoogleClientID != "" {
		regs = append(regs, &Registration{
			Provider: ProviderGoogle,
			OAuth2: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.GoogleRedirectURI,
				Scopes:       []string{"openid", "profile", "email"},
				Endpoint:     google.Endpoint,
			},
			UserInfoURL: googleUserInfoURL,
		})
	}
	if cfg.NaverClientID != "" {
		regs = append(regs, &Registration{
			Provider: ProviderNaver,
			OAuth2: &oauth2.Config{
				ClientID:     cfg.NaverClientID,
				ClientSecret: cfg.NaverClientSecret,
				RedirectURL:  cfg.NaverRedirectURI,
				Scopes:       []string{"name", "email", "profile_image"},
				Endpoint:     naverEndpoint,
			},
			UserInfoURL: naverUserInfoURL,
		})
	}
	if cfg.KakaoClientID != "" {
		regs = append(regs, &Registration{
			Provider: ProviderKakao,
			OAuth2: &oauth2.Config{
				ClientID:     cfg.KakaoClientID,
				ClientSecret: cfg.KakaoClientSecret,
				RedirectURL:  cfg.KakaoRedirectURI,
				Scopes:       []string{"profile_nickname", "profile_image", "account_email"},
				Endpoint:     kakaoEndpoint,
			},
			UserInfoURL: kakaoUserInfoURL,
		})
	}
	return NewClients(nil, regs...)
}

// Registration returns the settings for providerID. Unknown and unconfigured
// providers both yield common.ErrUnknownProvider.
func (c *Clients) Registration(providerID string) (*Registration, error) {
	p, err := ParseProvider(providerID)
	if err != nil {
		return nil, err
	}
	r, ok := c.registrations[p]
	if !ok {
		return nil, common.ErrUnknownProvider.WithDetails(fmt.Sprintf("Provider %q is not configured.", providerID))
	}
	return r, nil
}

// Enabled lists the configured providers.
func (c *Clients) Enabled() []Provider {
	var out []Provider
	for _, p := range Providers {
		if _, ok := c.registrations[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// AuthCodeURL is where the browser goes to start a login.
func (c *Clients) AuthCodeURL(r *Registration, state string) string {
	return r.OAuth2.AuthCodeURL(state)
}

// FetchAttributes exchanges code for a token and returns the user-info payload.
// Numbers are kept as json.Number so large provider IDs survive unchanged.
func (c *Clients) FetchAttributes(ctx context.Context, r *Registration, code string) (map[string]interface{}, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := r.OAuth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange failed: %w", r.Provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.OAuth2.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s user-info request failed: %w", r.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s user-info returned status %d: %s", r.Provider, resp.StatusCode, body)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var attrs map[string]interface{}
	if err := dec.Decode(&attrs); err != nil {
		return nil, fmt.Errorf("%s user-info decode failed: %w", r.Provider, err)
	}
	if attrs == nil {
		return nil, fmt.Errorf("%s user-info returned an empty body", r.Provider)
	}
	return attrs, nil
}
