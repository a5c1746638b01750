package types

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EndpointDescription stores the annotations parsed from one comment block
type EndpointDescription struct {
	Summary     string                                               `json:"summary,omitempty"`
	Description string                                               `json:"description,omitempty"`
	Tags        []string                                             `json:"tags,omitempty"`
	Path        string                                               `json:"path,omitempty"`
	Method      string                                               `json:"method,omitempty"`
	Parameters  []ParameterDescription                               `json:"parameters,omitempty"`
	Responses   *orderedmap.OrderedMap[string, *ResponseDescription] `json:"responses,omitempty"`
	Produces    string                                               `json:"produces,omitempty"`
}

// Routed reports whether both path and method were set by a Router annotation
func (e *EndpointDescription) Routed() bool {
	return e.Path != "" && e.Method != ""
}

// ParameterDescription is one @Param annotation
type ParameterDescription struct {
	Name        string `json:"name" yaml:"name"`
	In          string `json:"in" yaml:"in"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description" yaml:"description"`
	Schema      Schema `json:"schema" yaml:"schema"`
}

// Schema carries the type token copied verbatim from the annotation
type Schema struct {
	Type string `json:"type" yaml:"type"`
}

// ResponseDescription is one @Success or @Failure annotation.
// The response type named in the annotation is not kept; every response
// advertises a generic JSON object
type ResponseDescription struct {
	Description string  `json:"description" yaml:"description"`
	Content     Content `json:"content" yaml:"content"`
}

// Content is the fixed media type map of a response
type Content struct {
	JSON MediaType `json:"application/json" yaml:"application/json"`
}

// MediaType holds the schema of one content entry
type MediaType struct {
	Schema Schema `json:"schema" yaml:"schema"`
}

// NewResponseDescription returns a response with the generic object schema
func NewResponseDescription(description string) *ResponseDescription {
	return &ResponseDescription{
		Description: description,
		Content: Content{
			JSON: MediaType{Schema: Schema{Type: "object"}},
		},
	}
}
