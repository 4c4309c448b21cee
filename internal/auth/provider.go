// File: internal/auth/provider.go
package auth

import (
	"fmt"
	"strings"

	"blog_backend/internal/common"
)

// Provider identifies a supported OAuth2 login provider. The set is closed:
// adding one means adding a constant, a case in extract, and a registration.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderNaver  Provider = "naver"
	ProviderKakao  Provider = "kakao"
)

// Providers lists every supported provider.
var Providers = []Provider{ProviderGoogle, ProviderNaver, ProviderKakao}

// ParseProvider maps a registration ID to a Provider. Matching is exact.
func ParseProvider(id string) (Provider, error) {
	switch p := Provider(id); p {
	case ProviderGoogle, ProviderNaver, ProviderKakao:
		return p, nil
	default:
		return "", common.ErrUnknownProvider.WithDetails(fmt.Sprintf("Unsupported provider %q.", id))
	}
}

func (p Provider) String() string {
	return string(p)
}

// DefaultNameAttributeKey is the user-info field holding the provider's primary identifier.
func (p Provider) DefaultNameAttributeKey() string {
	switch p {
	case ProviderGoogle:
		return "sub"
	case ProviderNaver:
		return "response"
	case ProviderKakao:
		return "id"
	default:
		return ""
	}
}

// profileFields is what a provider payload yields before validation.
type profileFields struct {
	name    string
	email   string
	picture string
}

func (p Provider) extract(raw map[string]interface{}) profileFields {
	switch p {
	case ProviderGoogle:
		return extractGoogle(raw)
	case ProviderNaver:
		return extractNaver(raw)
	case ProviderKakao:
		return extractKakao(raw)
	default:
		panic("auth: extract called on unparsed provider " + string(p))
	}
}

// Google exposes the OpenID Connect claims at the top level.
func extractGoogle(raw map[string]interface{}) profileFields {
	return profileFields{
		name:    stringAt(raw, "name"),
		email:   stringAt(raw, "email"),
		picture: stringAt(raw, "picture"),
	}
}

// Naver nests the profile under "response".
func extractNaver(raw map[string]interface{}) profileFields {
	resp := mapAt(raw, "response")
	return profileFields{
		name:    stringAt(resp, "name"),
		email:   stringAt(resp, "email"),
		picture: stringAt(resp, "profile_image"),
	}
}

// Kakao keeps the email under kakao_account and the profile under
// kakao_account.profile, with a legacy copy under properties.
func extractKakao(raw map[string]interface{}) profileFields {
	account := mapAt(raw, "kakao_account")
	profile := mapAt(account, "profile")
	props := mapAt(raw, "properties")

	return profileFields{
		name:    firstNonEmpty(stringAt(profile, "nickname"), stringAt(props, "nickname")),
		email:   stringAt(account, "email"),
		picture: firstNonEmpty(stringAt(profile, "profile_image_url"), stringAt(props, "profile_image")),
	}
}

func mapAt(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	v, _ := m[key].(map[string]interface{})
	return v
}

// stringAt returns the trimmed string under key. Non-string values count as absent.
func stringAt(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
