package openapi

import (
	"errors"
	"fmt"

	"github.com/pb33f/libopenapi"
	v3high "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Verify parses rendered output back into an OpenAPI 3 model. It fails when
// the bytes are not a readable OpenAPI 3 document
func Verify(data []byte) (*libopenapi.DocumentModel[v3high.Document], error) {
	document, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to create openapi document: %w", err)
	}

	if v := document.GetVersion(); v != Version {
		return nil, fmt.Errorf("unexpected openapi version %q", v)
	}

	docModel, buildErrs := document.BuildV3Model()
	if len(buildErrs) > 0 {
		return nil, fmt.Errorf("failed to build openapi v3 model: %w", errors.Join(buildErrs...))
	}
	if docModel == nil {
		return nil, fmt.Errorf("failed to build openapi v3 model")
	}

	return docModel, nil
}

// PathCount counts the paths of a verified model
func PathCount(model *libopenapi.DocumentModel[v3high.Document]) int {
	n := 0
	if model == nil || model.Model.Paths == nil {
		return n
	}
	for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		n++
	}
	return n
}
