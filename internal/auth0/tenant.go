// Package auth0 derives the identity-provider addresses from the environment
// record and builds the authorization request the front-end redirects to.
package auth0

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
)

// responseType asks Auth0 for an access token in the redirect fragment.
const responseType = "token"

// ErrInvalidCallbackPath is returned for a callback path that is not rooted.
var ErrInvalidCallbackPath = errors.New("callback path must be empty or start with /")

// Tenant is an Auth0 tenant plus the client registered on it.
type Tenant struct {
	settings environment.Auth0
}

// NewTenant wraps the auth0 section of an environment record.
func NewTenant(settings environment.Auth0) Tenant {
	return Tenant{settings: settings}
}

// Domain returns the tenant host, e.g. dev-3jfc9qzs.us.auth0.com.
func (t Tenant) Domain() string {
	return t.settings.URL + environment.TenantDomainSuffix
}

// Issuer is the iss claim Auth0 puts in tokens for this tenant.
func (t Tenant) Issuer() string {
	return "https://" + t.Domain() + "/"
}

// JWKSURL is where the API server fetches signing keys.
func (t Tenant) JWKSURL() string {
	return t.Issuer() + ".well-known/jwks.json"
}

// Audience is the API identifier tokens are issued for.
func (t Tenant) Audience() string {
	return t.settings.Audience
}

// AuthorizeURL builds the login redirect. The identity provider sends the
// user back to the callback URL with callbackPath appended.
func (t Tenant) AuthorizeURL(callbackPath string) (string, error) {
	if callbackPath != "" && !strings.HasPrefix(callbackPath, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidCallbackPath, callbackPath)
	}

	params := url.Values{}
	params.Set("audience", t.settings.Audience)
	params.Set("response_type", responseType)
	params.Set("client_id", t.settings.ClientID)
	params.Set("redirect_uri", strings.TrimSuffix(t.settings.CallbackURL, "/")+callbackPath)

	u := url.URL{
		Scheme:   "https",
		Host:     t.Domain(),
		Path:     "/authorize",
		RawQuery: params.Encode(),
	}
	return u.String(), nil
}
