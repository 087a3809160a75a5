// Package drift compares the front-end environment record with the API
// server's identity settings. Tokens minted for the front-end are rejected by
// the API whenever the two disagree on tenant, audience or signing algorithm.
package drift

import (
	"net"
	"net/url"
	"slices"
	"strings"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/auth0"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
)

// requiredAlgorithm is what Auth0 signs access tokens with for APIs.
const requiredAlgorithm = "RS256"

// Backend mirrors the API server settings that must agree with the record.
type Backend struct {
	Auth0Domain string   `env:"AUTH0_DOMAIN"     json:"auth0Domain" yaml:"auth0_domain"`
	APIAudience string   `env:"API_AUDIENCE"     json:"apiAudience" yaml:"api_audience"`
	Algorithms  []string `env:"AUTH0_ALGORITHMS" json:"algorithms"  yaml:"algorithms"`
	// ServerAddr is the API listen address, host:port.
	ServerAddr string `env:"API_SERVER_ADDR" json:"serverAddr" yaml:"server_addr"`
}

// Finding is one disagreement between front-end and API settings.
type Finding struct {
	Field    string `json:"field"`
	Frontend string `json:"frontend"`
	Backend  string `json:"backend"`
	Message  string `json:"message"`
}

// Check returns every disagreement. Backend fields left empty are skipped.
func Check(env environment.Environment, backend Backend) []Finding {
	tenant := auth0.NewTenant(env.Auth0)
	var findings []Finding

	if backend.APIAudience != "" && backend.APIAudience != env.Auth0.Audience {
		findings = append(findings, Finding{
			Field:    "auth0.audience",
			Frontend: env.Auth0.Audience,
			Backend:  backend.APIAudience,
			Message:  "API_AUDIENCE differs from the front-end audience",
		})
	}

	if backend.Auth0Domain != "" && normalizeDomain(backend.Auth0Domain) != normalizeDomain(tenant.Domain()) {
		findings = append(findings, Finding{
			Field:    "auth0.url",
			Frontend: tenant.Domain(),
			Backend:  backend.Auth0Domain,
			Message:  "AUTH0_DOMAIN points at a different tenant",
		})
	}

	if len(backend.Algorithms) > 0 && !slices.Contains(backend.Algorithms, requiredAlgorithm) {
		findings = append(findings, Finding{
			Field:    "algorithms",
			Frontend: requiredAlgorithm,
			Backend:  strings.Join(backend.Algorithms, ","),
			Message:  "API does not accept RS256 signed tokens",
		})
	}

	if backend.ServerAddr != "" {
		if f, ok := checkServerAddr(env.APIServerURL, backend.ServerAddr); !ok {
			findings = append(findings, f)
		}
	}

	return findings
}

// normalizeDomain lower-cases and strips a scheme and trailing slash: Flask
// setups commonly store either "tenant.auth0.com" or "https://tenant.auth0.com/".
func normalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}

func checkServerAddr(apiServerURL, listenAddr string) (Finding, bool) {
	mismatch := Finding{
		Field:    "apiServerUrl",
		Frontend: apiServerURL,
		Backend:  listenAddr,
	}

	u, err := url.Parse(apiServerURL)
	if err != nil || u.Host == "" {
		mismatch.Message = "apiServerUrl is not an absolute URL"
		return mismatch, false
	}

	listenHost, listenPort, err := net.SplitHostPort(listenAddr)
	if err != nil {
		mismatch.Message = "API_SERVER_ADDR is not host:port"
		return mismatch, false
	}

	if port := effectivePort(u); port != listenPort {
		mismatch.Message = "apiServerUrl port " + port + " differs from API listen port " + listenPort
		return mismatch, false
	}

	if !hostMatches(u.Hostname(), listenHost) {
		mismatch.Message = "apiServerUrl host differs from API listen host"
		return mismatch, false
	}

	return Finding{}, true
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}

// hostMatches treats a wildcard listen host as matching anything and
// considers the loopback names interchangeable.
func hostMatches(urlHost, listenHost string) bool {
	switch listenHost {
	case "", "0.0.0.0", "::":
		return true
	}
	if urlHost == listenHost {
		return true
	}
	return isLoopback(urlHost) && isLoopback(listenHost)
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
