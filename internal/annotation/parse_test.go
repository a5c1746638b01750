package annotation

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat/swagdoc-mcp-golang/internal/types"
)

func TestParse_NoAnnotations(t *testing.T) {
	endpoint, ok := Parse([]string{"// plain comment", "// another one"})
	require.False(t, ok)
	require.Nil(t, endpoint)
}

func TestParse_OnlyUnknownTags(t *testing.T) {
	_, ok := Parse([]string{"// @Accept json", "// @Security ApiKey"})
	require.False(t, ok)
}

func TestParse_OnlyMalformedRouter(t *testing.T) {
	_, ok := Parse([]string{"// @Router /missing-method"})
	require.False(t, ok)
}

func TestParse_TagWithoutValueIgnored(t *testing.T) {
	_, ok := Parse([]string{"// @Summary"})
	require.False(t, ok)
}

func TestParse_Router(t *testing.T) {
	tests := []struct {
		line   string
		path   string
		method string
	}{
		{"// @Router /foo/bar [get]", "/foo/bar", "get"},
		{"// @Router /foo/bar [GET]", "/foo/bar", "get"},
		{"//@Router   /api/execute   [Post]", "/api/execute", "post"},
		{"// @Router /users/{id} [delete] extra", "/users/{id}", "delete"},
	}

	for _, test := range tests {
		endpoint, ok := Parse([]string{test.line})
		require.True(t, ok, test.line)
		assert.Equal(t, test.path, endpoint.Path, test.line)
		assert.Equal(t, test.method, endpoint.Method, test.line)
		assert.True(t, endpoint.Routed())
	}
}

func TestParse_Param(t *testing.T) {
	endpoint, ok := Parse([]string{`// @Param id path string true "the id"`})
	require.True(t, ok)
	require.Len(t, endpoint.Parameters, 1)
	assert.Equal(t, types.ParameterDescription{
		Name:        "id",
		In:          "path",
		Required:    true,
		Description: "the id",
		Schema:      types.Schema{Type: "string"},
	}, endpoint.Parameters[0])
}

func TestParse_ParamRequiredOnlyForLiteralTrue(t *testing.T) {
	endpoint, ok := Parse([]string{
		`// @Param a query boolean false "a"`,
		`// @Param b query int True "b"`,
		`// @Param c query int yes "c"`,
	})
	require.True(t, ok)
	require.Len(t, endpoint.Parameters, 3)
	for _, p := range endpoint.Parameters {
		assert.False(t, p.Required, p.Name)
	}
}

func TestParse_ParamMissingDescriptionDropped(t *testing.T) {
	endpoint, ok := Parse([]string{
		`// @Summary s`,
		`// @Param id path string true`,
		`// @Param id path string true ""`,
		`// @Param id path string "no required flag"`,
	})
	require.True(t, ok)
	assert.Empty(t, endpoint.Parameters)
}

func TestParse_ParamsKeepOrder(t *testing.T) {
	endpoint, ok := Parse([]string{
		`// @Param commit query boolean false "Commit results"`,
		`// @Param id path string true "the id"`,
	})
	require.True(t, ok)
	require.Len(t, endpoint.Parameters, 2)
	assert.Equal(t, "commit", endpoint.Parameters[0].Name)
	assert.Equal(t, "id", endpoint.Parameters[1].Name)
}

func TestParse_SuccessAndFailureShareStatus(t *testing.T) {
	endpoint, ok := Parse([]string{
		`// @Success 200 {object} models.Foo "ok"`,
		`// @Failure 500 {object} object "Internal server error"`,
		`// @Failure 200 {object} models.Err "bad"`,
	})
	require.True(t, ok)
	require.Equal(t, 2, endpoint.Responses.Len())

	resp, present := endpoint.Responses.Get("200")
	require.True(t, present)
	assert.Equal(t, "bad", resp.Description)
	assert.Equal(t, "object", resp.Content.JSON.Schema.Type)

	// first insertion fixes the position of a status code
	assert.Equal(t, "200", endpoint.Responses.Oldest().Key)
	assert.Equal(t, "500", endpoint.Responses.Newest().Key)
}

func TestParse_ResponseTypeDiscarded(t *testing.T) {
	endpoint, ok := Parse([]string{`// @Success 201 {array} models.Thing "created"`})
	require.True(t, ok)
	resp, _ := endpoint.Responses.Get("201")
	assert.Equal(t, "object", resp.Content.JSON.Schema.Type)
}

func TestParse_MalformedResponseIgnored(t *testing.T) {
	endpoint, ok := Parse([]string{
		`// @Summary s`,
		`// @Success ok {object} object "bad status"`,
		`// @Success 200 object object "no braces"`,
		`// @Failure 400 {object} object`,
	})
	require.True(t, ok)
	assert.Nil(t, endpoint.Responses)
}

func TestParse_LastValueWins(t *testing.T) {
	endpoint, ok := Parse([]string{
		"// @Summary one",
		"// @Summary two",
		"// @Description first",
		"// @Description second",
		"// @Tags query",
		"// @Tags health",
		"// @Produce json",
		"// @Produce plain",
	})
	require.True(t, ok)
	assert.Equal(t, "two", endpoint.Summary)
	assert.Equal(t, "second", endpoint.Description)
	assert.Equal(t, []string{"health"}, endpoint.Tags)
	assert.Equal(t, "plain", endpoint.Produces)
}

func TestParse_TagsNotSplit(t *testing.T) {
	endpoint, ok := Parse([]string{"// @Tags query, health"})
	require.True(t, ok)
	assert.Equal(t, []string{"query, health"}, endpoint.Tags)
}

func TestParse_CaseSensitiveKeywords(t *testing.T) {
	_, ok := Parse([]string{"// @summary lower", "// @ROUTER /x [get]"})
	require.False(t, ok)
}

func TestParse_FreeTextNotAppended(t *testing.T) {
	endpoint, ok := Parse([]string{
		"// @Description first line",
		"// continues here",
	})
	require.True(t, ok)
	assert.Equal(t, "first line", endpoint.Description)
}

func TestParse_UnroutedEndpointRetained(t *testing.T) {
	endpoint, ok := Parse([]string{"// @Summary no route"})
	require.True(t, ok)
	assert.False(t, endpoint.Routed())
}

func TestEndpoints_File(t *testing.T) {
	src := `package main

// @Summary Health check
// @Tags health
// @Router /health [get]
// @Success 200 {object} object "healthy"
func HandleHealth() {}

// writeJSON is a helper without annotations
func writeJSON() {}

func bare() {}
`
	endpoints := Endpoints("handlers.go", src)
	require.Len(t, endpoints, 1)
	assert.Equal(t, "/health", endpoints[0].Path)
	assert.Equal(t, "get", endpoints[0].Method)
	assert.Equal(t, "Health check", endpoints[0].Summary)
}

func TestEndpoints_MalformedLinesAreSilent(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	text := `package main

// @Router /broken
// @Router [get] /reversed
// @Param id path string true
// @Param onlyname
// @Success ok {object} object "not a status"
// @Failure 500 object "missing braces"
// @Unknown whatever
// @Summary
// @
func Broken() {}
`
	endpoints := Endpoints("broken.go", text)
	assert.Empty(t, endpoints)
	assert.Empty(t, buf.String())
}
