// File: internal/auth/principal.go
package auth

import "fmt"

// Principal is the authenticated identity handed back to the OAuth2 layer.
type Principal struct {
	Authorities      []string               `json:"authorities"`
	Attributes       map[string]interface{} `json:"attributes"`
	NameAttributeKey string                 `json:"name_attribute_key"`
}

// Name is the provider's primary identifier for the user.
func (p *Principal) Name() string {
	v, ok := p.Attributes[p.NameAttributeKey]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// HasAuthority reports whether key is among the principal's authorities.
func (p *Principal) HasAuthority(key string) bool {
	for _, a := range p.Authorities {
		if a == key {
			return true
		}
	}
	return false
}
