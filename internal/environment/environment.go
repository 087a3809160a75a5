// Package environment defines the front-end environment record: the
// production flag, the API base URL and the Auth0 client settings the
// coffee-shop app is built with.
//
// An Environment is a plain value. It is loaded once at start-up and handed
// out by copy, so holders can never observe a mutation.
package environment

// Placeholder values shipped in the front-end template. They are the
// defaults for every field and are rejected only when Production is set.
const (
	TemplateAPIServerURL = "http://127.0.0.1:5000"
	TemplateAuth0URL     = "dev-3jfc9qzs.us"
	TemplateAudience     = "image"
	TemplateClientID     = "56t7xuG1CHy7jI05lC1zgI2RTLI6YnS0"
	TemplateCallbackURL  = "http://localhost:8100"
)

// TenantDomainSuffix completes an Auth0.URL prefix into the tenant host.
const TenantDomainSuffix = ".auth0.com"

// Environment is the record the front-end reads at build or run time.
type Environment struct {
	Production   bool   `env:"ENV_PRODUCTION"     json:"production"   yaml:"production"`
	APIServerURL string `env:"ENV_API_SERVER_URL" json:"apiServerUrl" validate:"required,http_url" yaml:"apiServerUrl"`
	Auth0        Auth0  `json:"auth0"             yaml:"auth0"`
}

// Auth0 holds the identity-provider settings of the registered client.
type Auth0 struct {
	// URL is the tenant prefix, e.g. "dev-3jfc9qzs.us" for dev-3jfc9qzs.us.auth0.com.
	URL         string `env:"AUTH0_URL"          json:"url"         validate:"required,hostname_rfc1123,auth0_tenant" yaml:"url"`
	Audience    string `env:"AUTH0_AUDIENCE"     json:"audience"    validate:"required"                               yaml:"audience"`
	ClientID    string `env:"AUTH0_CLIENT_ID"    json:"clientId"    validate:"required"                               yaml:"clientId"`
	CallbackURL string `env:"AUTH0_CALLBACK_URL" json:"callbackURL" validate:"required,http_url"                      yaml:"callbackURL"`
}

// Template returns the placeholder record developers are expected to replace.
func Template() Environment {
	return Environment{
		Production:   false,
		APIServerURL: TemplateAPIServerURL,
		Auth0: Auth0{
			URL:         TemplateAuth0URL,
			Audience:    TemplateAudience,
			ClientID:    TemplateClientID,
			CallbackURL: TemplateCallbackURL,
		},
	}
}

// WithDefaults fills every empty string field from Template.
func (e Environment) WithDefaults() Environment {
	tmpl := Template()
	if e.APIServerURL == "" {
		e.APIServerURL = tmpl.APIServerURL
	}
	if e.Auth0.URL == "" {
		e.Auth0.URL = tmpl.Auth0.URL
	}
	if e.Auth0.Audience == "" {
		e.Auth0.Audience = tmpl.Auth0.Audience
	}
	if e.Auth0.ClientID == "" {
		e.Auth0.ClientID = tmpl.Auth0.ClientID
	}
	if e.Auth0.CallbackURL == "" {
		e.Auth0.CallbackURL = tmpl.Auth0.CallbackURL
	}
	return e
}

// IsTemplate reports whether the tenant or client id are still the
// template placeholders.
func (e Environment) IsTemplate() bool {
	return e.Auth0.URL == TemplateAuth0URL || e.Auth0.ClientID == TemplateClientID
}

// Equal reports whether two records hold identical values.
func (e Environment) Equal(other Environment) bool {
	return e == other
}
