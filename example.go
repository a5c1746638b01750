package main

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// runExample collects and builds the document, then prints what was found
// instead of writing it
func runExample(ctx context.Context, gen *Generator, w io.Writer) error {
	cfg := gen.GetConfig()
	fmt.Fprintf(w, "Scanning %s for annotated handlers\n", cfg.Source.Dir)

	if err := gen.Collect(ctx); err != nil {
		return err
	}
	doc := gen.Build()

	endpoints := gen.GetEndpoints()
	unrouted := 0
	for _, endpoint := range endpoints {
		if !endpoint.Routed() {
			unrouted++
		}
	}

	fmt.Fprintf(w, "\nFound %d endpoint descriptions (%d without a route)\n", len(endpoints), unrouted)
	fmt.Fprintf(w, "Document: %s %s (openapi %s)\n", doc.Info.Title, doc.Info.Version, doc.OpenAPI)

	for pathPair := doc.Paths.Oldest(); pathPair != nil; pathPair = pathPair.Next() {
		for opPair := pathPair.Value.Oldest(); opPair != nil; opPair = opPair.Next() {
			op := opPair.Value
			fmt.Fprintf(w, "- %s %s\n", strings.ToUpper(opPair.Key), pathPair.Key)
			if op.Summary != "" {
				fmt.Fprintf(w, "  Summary: %s\n", op.Summary)
			}
			if len(op.Tags) > 0 {
				fmt.Fprintf(w, "  Tags: %s\n", strings.Join(op.Tags, ", "))
			}
			if len(op.Parameters) > 0 {
				names := make([]string, 0, len(op.Parameters))
				for _, p := range op.Parameters {
					names = append(names, p.Name)
				}
				fmt.Fprintf(w, "  Parameters: %v\n", names)
			}
			if op.Responses.Len() > 0 {
				codes := make([]string, 0, op.Responses.Len())
				for respPair := op.Responses.Oldest(); respPair != nil; respPair = respPair.Next() {
					codes = append(codes, respPair.Key)
				}
				fmt.Fprintf(w, "  Responses: %s\n", strings.Join(codes, ", "))
			}
		}
	}

	fmt.Fprintf(w, "\nTo write the document, run:\n  swagdoc --src %s --out %s\n", cfg.Source.Dir, cfg.Output.Path)
	return nil
}
