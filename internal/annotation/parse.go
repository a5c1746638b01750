package annotation

import (
	"regexp"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/redhat/swagdoc-mcp-golang/internal/types"
)

// Sigil starts every annotation line
const Sigil = "@"

var (
	tagLineRegex  = regexp.MustCompile(`^@(\w+)\s+(.*)$`)
	routerRegex   = regexp.MustCompile(`^(\S+)\s+\[(\w+)\]`)
	paramRegex    = regexp.MustCompile(`^(\w+)\s+(\w+)\s+(\w+)\s+(\w+)\s+"([^"]+)"`)
	responseRegex = regexp.MustCompile(`^(\d+)\s+\{(\w+)\}\s+(\S+)\s+"([^"]+)"`)
)

// Parse builds an endpoint description from the lines of one comment block.
// The second return value is false when no annotation set any field.
// Malformed annotations are dropped without notice
func Parse(lines []string) (*types.EndpointDescription, bool) {
	endpoint := &types.EndpointDescription{}
	set := false

	for _, raw := range lines {
		line := stripComment(raw)
		if !strings.HasPrefix(line, Sigil) {
			continue
		}

		m := tagLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, value := m[1], strings.TrimSpace(m[2])

		if apply(endpoint, key, value) {
			set = true
		}
	}

	if !set {
		return nil, false
	}
	return endpoint, true
}

// apply dispatches one annotation and reports whether a field was written
func apply(endpoint *types.EndpointDescription, key, value string) bool {
	switch key {
	case "Summary":
		endpoint.Summary = value
	case "Description":
		endpoint.Description = value
	case "Tags":
		endpoint.Tags = []string{value}
	case "Router":
		m := routerRegex.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		endpoint.Path = m[1]
		endpoint.Method = strings.ToLower(m[2])
	case "Param":
		m := paramRegex.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		endpoint.Parameters = append(endpoint.Parameters, types.ParameterDescription{
			Name:        m[1],
			In:          m[2],
			Required:    m[4] == "true",
			Description: m[5],
			Schema:      types.Schema{Type: m[3]},
		})
	case "Success", "Failure":
		m := responseRegex.FindStringSubmatch(value)
		if m == nil {
			return false
		}
		if endpoint.Responses == nil {
			endpoint.Responses = orderedmap.New[string, *types.ResponseDescription]()
		}
		endpoint.Responses.Set(m[1], types.NewResponseDescription(m[4]))
	case "Produce":
		endpoint.Produces = value
	default:
		return false
	}
	return true
}

// stripComment removes leading comment markers and surrounding whitespace
func stripComment(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "/"))
}

// Endpoints runs the scanner and the parser over one file and returns the
// descriptions of every block that carried at least one recognized tag
func Endpoints(file, text string) []*types.EndpointDescription {
	var endpoints []*types.EndpointDescription
	s := NewScanner(file, text)
	for s.Next() {
		if endpoint, ok := Parse(s.Block().Lines); ok {
			endpoints = append(endpoints, endpoint)
		}
	}
	return endpoints
}
