// Package schema serves JSON Schemas of the API payloads, reflected from the
// Go types so they never drift from what the handlers encode.
package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/okian/sentiboard/internal/domain/types"
)

// Error constants.
var (
	ErrUnknownSchema = errors.New("unknown schema")
)

// Prefix is the path under which schemas are served.
const Prefix = "/schema/"

// payloads maps schema names to the types they describe.
var payloads = map[string]any{
	"analyze_request": types.AnalyzeRequest{},
	"summary":         types.SummaryResponse{},
	"timeline":        types.TimelineResponse{},
	"error":           types.ErrorResponse{},
}

// Names lists the served schema names in order.
func Names() []string {
	names := make([]string, 0, len(payloads))
	for name := range payloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// For reflects the schema registered under name.
func For(name string) (*jsonschema.Schema, error) {
	v, ok := payloads[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	return reflector.Reflect(v), nil
}

// Register attaches GET /schema/{name}.json routes to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	for _, name := range Names() {
		s, err := For(name)
		if err != nil {
			panic(err)
		}
		body, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			panic(fmt.Sprintf("schema %s: %v", name, err))
		}
		mux.HandleFunc(Prefix+name+".json", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				w.Header().Set("Allow", "GET, HEAD")
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "application/schema+json; charset=utf-8")
			_, _ = w.Write(body)
		})
	}
}
