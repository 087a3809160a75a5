package render_test

import (
	"strings"
	"testing"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_RoundTripsThroughSchema(t *testing.T) {
	t.Parallel()

	data, err := render.JSON(environment.Template())
	require.NoError(t, err)

	env, err := environment.Decode(data)
	require.NoError(t, err)
	assert.True(t, env.Equal(environment.Template()))
}

func TestTypeScript_Template(t *testing.T) {
	t.Parallel()

	data, err := render.TypeScript(environment.Template())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "export const environment = {")
	assert.Contains(t, out, "production: false,")
	assert.Contains(t, out, "apiServerUrl: 'http://127.0.0.1:5000',")
	assert.Contains(t, out, "url: 'dev-3jfc9qzs.us',")
	assert.Contains(t, out, "audience: 'image',")
	assert.Contains(t, out, "clientId: '56t7xuG1CHy7jI05lC1zgI2RTLI6YnS0',")
	assert.Contains(t, out, "callbackURL: 'http://localhost:8100',")
	assert.True(t, strings.HasSuffix(out, "};\n"))
}

func TestTypeScript_EscapesQuotes(t *testing.T) {
	t.Parallel()

	env := environment.Template()
	env.Production = true
	env.Auth0.Audience = `it's\here`

	data, err := render.TypeScript(env)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "production: true,")
	assert.Contains(t, out, `audience: 'it\'s\\here',`)
}

func TestRender_Formats(t *testing.T) {
	t.Parallel()

	for _, format := range []render.Format{render.FormatJSON, render.FormatTypeScript} {
		data, err := render.Render(environment.Template(), format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, data)
	}

	_, err := render.Render(environment.Template(), "xml")
	assert.Error(t, err)
}
