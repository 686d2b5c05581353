// Package wrywebdriver embeds the module's OpenAPI document, the way the
// teacher's root-level server package embeds its spec for cmd/api/main.go to
// serve at /spec.yaml and /spec.json.
package wrywebdriver

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var OpenAPIYAML []byte

// OpenAPIDocument is OpenAPIYAML parsed and schema-validated once at process
// startup via kin-openapi, the same library the teacher's go.mod carries for
// its own generated-spec validation. A malformed embedded document panics at
// init instead of silently serving a broken spec from /spec.yaml and
// /spec.json.
var OpenAPIDocument = mustLoadOpenAPI()

func mustLoadOpenAPI() *openapi3.T {
	doc, err := openapi3.NewLoader().LoadFromData(OpenAPIYAML)
	if err != nil {
		panic(fmt.Sprintf("wrywebdriver: embedded openapi.yaml failed to parse: %v", err))
	}
	if err := doc.Validate(context.Background()); err != nil {
		panic(fmt.Sprintf("wrywebdriver: embedded openapi.yaml failed schema validation: %v", err))
	}
	return doc
}
