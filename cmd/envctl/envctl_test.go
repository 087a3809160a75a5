package main

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const driftConfig = `
backend:
  api_audience: drinks
  auth0_domain: dev-3jfc9qzs.us.auth0.com
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidate_Template(t *testing.T) {
	out, err := execute(t, "validate", "--config", "")
	require.NoError(t, err)
	assert.Contains(t, out, "template placeholder")
}

func TestValidate_Invalid(t *testing.T) {
	t.Setenv("ENV_API_SERVER_URL", "127.0.0.1:5000")

	out, err := execute(t, "validate", "--config", "")
	require.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "invalid apiServerUrl")
}

func TestShow_Formats(t *testing.T) {
	out, err := execute(t, "show", "--config", "")
	require.NoError(t, err)
	env, err := environment.Decode([]byte(out))
	require.NoError(t, err)
	assert.True(t, env.Equal(environment.Template()))

	out, err = execute(t, "show", "--config", "", "--format", "ts")
	require.NoError(t, err)
	assert.Contains(t, out, "export const environment")

	_, err = execute(t, "show", "--config", "", "--format", "yaml")
	assert.Error(t, err)
}

func TestLoginURL(t *testing.T) {
	out, err := execute(t, "login-url", "--config", "", "--callback-path", "/tabs/user-page")
	require.NoError(t, err)

	u, err := url.Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "dev-3jfc9qzs.us.auth0.com", u.Host)
	assert.Equal(t, "http://localhost:8100/tabs/user-page", u.Query().Get("redirect_uri"))
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", "--config", "")
	require.NoError(t, err)
	assert.Equal(t, "consistent\n", out)

	out, err = execute(t, "check", "--config", writeFile(t, "config.yml", driftConfig))
	require.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "auth0.audience")
	assert.NotContains(t, out, "auth0.url")
}

func TestSchema(t *testing.T) {
	good := writeFile(t, "env.json", `{"production":false,"apiServerUrl":"http://127.0.0.1:5000",
		"auth0":{"url":"dev-3jfc9qzs.us","audience":"image","clientId":"abc","callbackURL":"http://localhost:8100"}}`)
	out, err := execute(t, "schema", good)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	extra := writeFile(t, "env.json", `{"production":false,"apiServerUrl":"http://127.0.0.1:5000","debug":true,
		"auth0":{"url":"dev-3jfc9qzs.us","audience":"image","clientId":"abc","callbackURL":"http://localhost:8100"}}`)
	_, err = execute(t, "schema", extra)
	assert.ErrorIs(t, err, errChecksFailed)

	_, err = execute(t, "schema")
	assert.Error(t, err)
}

func TestMissingConfigFlag(t *testing.T) {
	_, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
