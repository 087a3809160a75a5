// Package render writes the environment record in the forms the front-end
// consumes: a JSON document and an Angular environment.ts module.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
)

// JSON renders env as indented JSON using the front-end key names.
func JSON(env environment.Environment) ([]byte, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal environment: %w", err)
	}
	return append(data, '\n'), nil
}

var tsTemplate = template.Must(template.New("environment.ts").
	Funcs(template.FuncMap{"quote": quoteTS}).
	Parse(`/* Generated by envctl. Edit config.yml or the environment variables instead. */

export const environment = {
  production: {{ .Production }},
  apiServerUrl: {{ quote .APIServerURL }}, // the running API server url
  auth0: {
    url: {{ quote .Auth0.URL }}, // the auth0 domain prefix
    audience: {{ quote .Auth0.Audience }}, // the audience set for the auth0 app
    clientId: {{ quote .Auth0.ClientID }}, // the client id generated for the auth0 app
    callbackURL: {{ quote .Auth0.CallbackURL }}, // the base url of the running ionic application
  }
};
`))

// TypeScript renders env as an environment.ts module.
func TypeScript(env environment.Environment) ([]byte, error) {
	var buf bytes.Buffer
	if err := tsTemplate.Execute(&buf, env); err != nil {
		return nil, fmt.Errorf("render environment.ts: %w", err)
	}
	return buf.Bytes(), nil
}

var tsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// quoteTS returns s as a single-quoted TypeScript string literal.
func quoteTS(s string) string {
	return "'" + tsEscaper.Replace(s) + "'"
}

// Format names an output format accepted by Render.
type Format string

const (
	FormatJSON       Format = "json"
	FormatTypeScript Format = "ts"
)

// Render dispatches on format.
func Render(env environment.Environment, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(env)
	case FormatTypeScript:
		return TypeScript(env)
	default:
		return nil, fmt.Errorf("unknown format %s, want json or ts", strconv.Quote(string(format)))
	}
}
