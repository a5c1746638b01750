// Package openapi assembles endpoint descriptions into an OpenAPI 3 document
// and renders it with a stable key order
package openapi

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/redhat/swagdoc-mcp-golang/internal/types"
)

// Version is the OpenAPI version written to every document
const Version = "3.0.3"

// Document is the generated API description. Field order is the rendered key order
type Document struct {
	OpenAPI string                                    `json:"openapi" yaml:"openapi"`
	Info    Info                                      `json:"info" yaml:"info"`
	Servers []Server                                  `json:"servers" yaml:"servers"`
	Tags    []Tag                                     `json:"tags" yaml:"tags"`
	Paths   *orderedmap.OrderedMap[string, *PathItem] `json:"paths" yaml:"paths"`
}

// PathItem maps a lowercase HTTP method to its operation
type PathItem = orderedmap.OrderedMap[string, *Operation]

// Info is the document metadata block
type Info struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Version     string  `json:"version" yaml:"version"`
	Contact     Contact `json:"contact" yaml:"contact"`
}

// Contact names the API owner
type Contact struct {
	Name string `json:"name" yaml:"name"`
}

// Server is one entry of the servers list
type Server struct {
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// Tag describes one operation tag
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Operation is the description of one method on one path
type Operation struct {
	Summary     string                                                     `json:"summary" yaml:"summary"`
	Description string                                                     `json:"description" yaml:"description"`
	Tags        []string                                                   `json:"tags" yaml:"tags"`
	Responses   *orderedmap.OrderedMap[string, *types.ResponseDescription] `json:"responses" yaml:"responses"`
	Parameters  []types.ParameterDescription                               `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Metadata is the fixed part of the document that does not come from annotations
type Metadata struct {
	Info    Info
	Servers []Server
	Tags    []Tag
}

// DefaultMetadata returns the skeleton used when no overrides are configured
func DefaultMetadata() Metadata {
	return Metadata{
		Info: Info{
			Title:       "q2git API",
			Description: "Query execution and Git commit service for wasmCloud",
			Version:     "1.0.0",
			Contact:     Contact{Name: "q2git"},
		},
		Servers: []Server{
			{URL: "http://localhost:8000", Description: "Local development server"},
		},
		Tags: []Tag{
			{Name: "query", Description: "Query execution and commit operations"},
			{Name: "health", Description: "Health and status endpoints"},
			{Name: "info", Description: "Service information"},
		},
	}
}

// Assemble groups endpoints by path and method. Endpoints without a route are
// skipped, and a later endpoint on the same path and method replaces an
// earlier one
func Assemble(endpoints []*types.EndpointDescription, meta Metadata) *Document {
	doc := &Document{
		OpenAPI: Version,
		Info:    meta.Info,
		Servers: append([]Server{}, meta.Servers...),
		Tags:    append([]Tag{}, meta.Tags...),
		Paths:   orderedmap.New[string, *PathItem](),
	}

	for _, endpoint := range endpoints {
		if endpoint == nil || !endpoint.Routed() {
			continue
		}

		item, ok := doc.Paths.Get(endpoint.Path)
		if !ok {
			item = orderedmap.New[string, *Operation]()
			doc.Paths.Set(endpoint.Path, item)
		}
		item.Set(endpoint.Method, newOperation(endpoint))
	}

	return doc
}

func newOperation(endpoint *types.EndpointDescription) *Operation {
	op := &Operation{
		Summary:     endpoint.Summary,
		Description: endpoint.Description,
		Tags:        append([]string{}, endpoint.Tags...),
		Responses:   orderedmap.New[string, *types.ResponseDescription](),
	}
	if endpoint.Responses != nil {
		for pair := endpoint.Responses.Oldest(); pair != nil; pair = pair.Next() {
			op.Responses.Set(pair.Key, pair.Value)
		}
	}
	if len(endpoint.Parameters) > 0 {
		op.Parameters = append([]types.ParameterDescription{}, endpoint.Parameters...)
	}
	return op
}

// Operations counts the operations in the document
func (d *Document) Operations() int {
	n := 0
	for pair := d.Paths.Oldest(); pair != nil; pair = pair.Next() {
		n += pair.Value.Len()
	}
	return n
}
