package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sync"
)

// DocMutator lets modules add paths or tweak the document before it is served
type DocMutator func(map[string]any)

var (
	mu       sync.RWMutex
	mutators []DocMutator
)

// Info is the document header
type Info struct {
	Title       string
	Version     string
	Description string
	BaseURL     string
	// DocsPath is where the UI and doc.json are served, "/api/docs" when empty
	DocsPath string
}

// Register adds a document mutator; modules call it when they mount
func Register(m DocMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// Reset drops every mutator, for tests
func Reset() {
	mu.Lock()
	mutators = nil
	mu.Unlock()
}

// Build assembles the OAS3 document from info and the registered mutators
func Build(info Info) map[string]any {
	oas := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       info.Title,
			"version":     info.Version,
			"description": info.Description,
		},
		"servers": []any{map[string]any{"url": info.BaseURL}},
		"paths":   map[string]any{},
	}
	ensureErrorResponseDefinition(oas)

	mu.RLock()
	ms := append([]DocMutator(nil), mutators...)
	mu.RUnlock()
	for _, m := range ms {
		m(oas)
	}

	addDefault(oas, "500", "Internal Server Error", map[string]any{
		"status_code": 500,
		"status":      "Internal Server Error",
		"code":        1,
		"error":       "panic recovered",
		"request_id":  "579f33bf50b1/abc-000001",
	})
	addDefault(oas, "400", "Bad Request", map[string]any{
		"status_code": 400,
		"status":      "Bad Request",
		"code":        5,
		"error":       "years must be 1 or more",
		"request_id":  "579f33bf50b1/abc-000001",
	})
	return oas
}

// AddPath sets one operation on the document, creating the path node as needed
func AddPath(oas map[string]any, path, method string, op map[string]any) {
	paths, ok := oas["paths"].(map[string]any)
	if !ok {
		paths = map[string]any{}
		oas["paths"] = paths
	}
	node, ok := paths[path].(map[string]any)
	if !ok {
		node = map[string]any{}
		paths[path] = node
	}
	node[method] = op
}

// serveDocJSON renders the document per request so late registrations show up
func serveDocJSON(info Info) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Build(info))
	}
}

// ensureErrorResponseDefinition creates the error envelope model if missing
// kept minimal so it does not drift from the runtime wire
func ensureErrorResponseDefinition(oas map[string]any) {
	comps, ok := oas["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		oas["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
			"session_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefault walks every operation and injects an error response for status if absent
func addDefault(oas map[string]any, status, description string, example map[string]any) {
	paths, ok := oas["paths"].(map[string]any)
	if !ok {
		return
	}
	resp := map[string]any{
		"description": description,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
