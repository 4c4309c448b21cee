// File: internal/auth/attributes.go
package auth

import (
	"fmt"
	"strings"

	"blog_backend/internal/common"
	"blog_backend/internal/user"
)

// NormalizedAttributes is one login's provider payload reduced to the fields a user needs.
// It lives only for the duration of the login call.
type NormalizedAttributes struct {
	Provider Provider
	// Attributes is the provider payload exactly as received.
	Attributes       map[string]interface{}
	NameAttributeKey string
	Name             string
	Email            string
	Picture          *string
}

// Normalize extracts name, email and picture from a provider's user-info payload.
//
// An empty primaryKeyField selects the provider's default. The email is mandatory:
// without it the provider integration is broken and the result is
// common.ErrProviderMisconfigured. A missing picture is fine. A missing name falls
// back to the local part of the email.
func Normalize(providerID, primaryKeyField string, raw map[string]interface{}) (*NormalizedAttributes, error) {
	provider, err := ParseProvider(providerID)
	if err != nil {
		return nil, err
	}

	if primaryKeyField == "" {
		primaryKeyField = provider.DefaultNameAttributeKey()
	}
	fields := provider.extract(raw)
	if fields.email == "" {
		return nil, common.ErrProviderMisconfigured.WithDetails(
			fmt.Sprintf("%s payload has no email. Check the requested scopes.", provider))
	}

	name := fields.name
	if name == "" {
		name, _, _ = strings.Cut(fields.email, "@")
	}

	var picture *string
	if fields.picture != "" {
		picture = &fields.picture
	}

	return &NormalizedAttributes{
		Provider:         provider,
		Attributes:       raw,
		NameAttributeKey: primaryKeyField,
		Name:             name,
		Email:            fields.email,
		Picture:          picture,
	}, nil
}

// Profile is the part of the attributes the user store persists.
func (a *NormalizedAttributes) Profile() user.Profile {
	return user.Profile{
		Name:    a.Name,
		Email:   a.Email,
		Picture: a.Picture,
	}
}
