package openapi

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/redhat/swagdoc-mcp-golang/internal/annotation"
	"github.com/redhat/swagdoc-mcp-golang/internal/types"
)

const handlersSource = `package main

// @Summary Execute query and optionally commit to git
// @Description Fetches data and runs the configured query
// @Tags query
// @Router /api/execute [post]
// @Param commit query boolean false "Commit results to git repository"
// @Success 200 {object} object "Query results"
// @Failure 500 {object} object "Internal server error"
// @Produce json
func HandleExecuteQuery() {}

// @Summary Health check
// @Description Returns application health status
// @Tags health
// @Router /health [get]
// @Success 200 {object} object "healthy"
func HandleHealth() {}

func writeJSONError() {}
`

func buildHandlersDoc(t *testing.T) *Document {
	t.Helper()
	endpoints := annotation.Endpoints("handlers.go", handlersSource)
	require.Len(t, endpoints, 2)
	return Assemble(endpoints, DefaultMetadata())
}

func mappingKeys(t *testing.T, node *yaml.Node) []string {
	t.Helper()
	require.Equal(t, yaml.MappingNode, node.Kind)
	var keys []string
	for i := 0; i < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

func mappingValue(t *testing.T, node *yaml.Node, key string) *yaml.Node {
	t.Helper()
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	t.Fatalf("key %q not found", key)
	return nil
}

func TestRender_KeyOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, buildHandlersDoc(t)))

	var root yaml.Node
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &root))
	top := root.Content[0]

	assert.Equal(t, []string{"openapi", "info", "servers", "tags", "paths"}, mappingKeys(t, top))
	assert.Equal(t, "3.0.3", mappingValue(t, top, "openapi").Value)
	assert.Equal(t, []string{"title", "description", "version", "contact"}, mappingKeys(t, mappingValue(t, top, "info")))

	paths := mappingValue(t, top, "paths")
	assert.Equal(t, []string{"/api/execute", "/health"}, mappingKeys(t, paths))

	post := mappingValue(t, mappingValue(t, paths, "/api/execute"), "post")
	assert.Equal(t, []string{"summary", "description", "tags", "responses", "parameters"}, mappingKeys(t, post))
	assert.Equal(t, []string{"200", "500"}, mappingKeys(t, mappingValue(t, post, "responses")))

	params := mappingValue(t, post, "parameters")
	require.Equal(t, yaml.SequenceNode, params.Kind)
	assert.Equal(t, []string{"name", "in", "required", "description", "schema"}, mappingKeys(t, params.Content[0]))

	get := mappingValue(t, mappingValue(t, paths, "/health"), "get")
	assert.Equal(t, []string{"summary", "description", "tags", "responses"}, mappingKeys(t, get))
}

func TestRender_BlockStyle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, buildHandlersDoc(t)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "openapi: 3.0.3\n"))
	assert.NotContains(t, out, "{type")
	assert.Contains(t, out, "application/json:")
}

func TestRender_Deterministic(t *testing.T) {
	first, err := Marshal(buildHandlersDoc(t), FormatYAML)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Marshal(buildHandlersDoc(t), FormatYAML)
		require.NoError(t, err)
		require.Equal(t, string(first), string(again))
	}
}

func TestRenderJSON_KeyOrder(t *testing.T) {
	data, err := Marshal(buildHandlersDoc(t), FormatJSON)
	require.NoError(t, err)
	require.True(t, json.Valid(data))

	out := string(data)
	order := []string{`"openapi"`, `"info"`, `"servers"`, `"tags"`, `"paths"`, `"/api/execute"`, `"/health"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		require.Greater(t, idx, last, key)
		last = idx
	}
}

func TestMarshal_UnknownFormat(t *testing.T) {
	_, err := Marshal(Assemble(nil, DefaultMetadata()), "toml")
	require.Error(t, err)
}

func TestRender_EmptyResponsesAndTags(t *testing.T) {
	endpoint, ok := annotation.Parse([]string{"// @Router /bare [get]"})
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Assemble([]*types.EndpointDescription{endpoint}, DefaultMetadata())))
	out := buf.String()
	assert.Contains(t, out, "tags: []")
	assert.Contains(t, out, "responses: {}")
}

func TestVerify_RenderedDocument(t *testing.T) {
	data, err := Marshal(buildHandlersDoc(t), FormatYAML)
	require.NoError(t, err)

	model, err := Verify(data)
	require.NoError(t, err)
	require.NotNil(t, model)

	assert.Equal(t, 2, PathCount(model))
	require.NotNil(t, model.Model.Info)
	assert.Equal(t, "q2git API", model.Model.Info.Title)
	require.Len(t, model.Model.Servers, 1)
	assert.Equal(t, "http://localhost:8000", model.Model.Servers[0].URL)

	var summaries []string
	for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		item := pair.Value()
		if item.Get != nil {
			summaries = append(summaries, item.Get.Summary)
		}
		if item.Post != nil {
			summaries = append(summaries, item.Post.Summary)
		}
	}
	assert.Equal(t, []string{"Execute query and optionally commit to git", "Health check"}, summaries)
}

func TestVerify_JSONOutput(t *testing.T) {
	data, err := Marshal(buildHandlersDoc(t), FormatJSON)
	require.NoError(t, err)

	model, err := Verify(data)
	require.NoError(t, err)
	assert.Equal(t, 2, PathCount(model))
}

func TestVerify_RejectsGarbage(t *testing.T) {
	_, err := Verify([]byte("not: [an, openapi"))
	require.Error(t, err)
}

func TestVerify_RejectsSwagger2(t *testing.T) {
	_, err := Verify([]byte("swagger: \"2.0\"\ninfo:\n  title: x\n  version: \"1\"\npaths: {}\n"))
	require.Error(t, err)
}
