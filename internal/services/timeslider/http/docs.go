package http

import "timeslider/internal/modkit/swaggerkit"

type route struct {
	method, path, summary string
	body, query           string
}

var routes = []route{
	{method: "get", path: "/state", summary: "Current date, range, limit and fragment"},
	{method: "put", path: "/date", summary: "Select a year, either as a number or as typed text", body: "DateInput"},
	{method: "post", path: "/forward", summary: "Step the date forward", body: "StepInput"},
	{method: "post", path: "/back", summary: "Step the date back", body: "StepInput"},
	{method: "put", path: "/range", summary: "Edit the range; a missing bound is kept", body: "RangeInput"},
	{method: "post", path: "/jump", summary: "Select a year and narrow the range around it", body: "JumpInput"},
	{method: "get", path: "/widget", summary: "What the slider control renders right now"},
	{method: "get", path: "/layers", summary: "Outcome of the last attach per layer"},
	{method: "get", path: "/layers/{id}/filter", summary: "Live filter of one layer"},
	{method: "get", path: "/style", summary: "The style document with the live filters", query: "format"},
	{method: "put", path: "/style", summary: "Swap the style document; date and range carry over"},
	{method: "get", path: "/hash", summary: "The URL fragment"},
	{method: "put", path: "/hash", summary: "Navigate to a fragment", body: "HashInput"},
	{method: "post", path: "/features", summary: "Keep the GeoJSON features a layer's live filter shows", query: "layer"},
}

// Document returns a document mutator describing the routes mounted under prefix
func Document(prefix string) swaggerkit.DocMutator {
	return func(oas map[string]any) {
		for _, rt := range routes {
			op := map[string]any{
				"summary": rt.summary,
				"tags":    []any{"Timeslider"},
				"responses": map[string]any{
					"200": map[string]any{"description": "ok"},
				},
			}
			var params []any
			if rt.query != "" {
				params = append(params, map[string]any{"name": rt.query, "in": "query", "schema": map[string]any{"type": "string"}})
			}
			if rt.path == "/layers/{id}/filter" {
				params = append(params, map[string]any{"name": "id", "in": "path", "required": true, "schema": map[string]any{"type": "string"}})
			}
			if params != nil {
				op["parameters"] = params
			}
			if rt.body != "" {
				op["requestBody"] = map[string]any{
					"description": rt.body,
					"content":     map[string]any{"application/json": map[string]any{"schema": map[string]any{"type": "object"}}},
				}
			}
			swaggerkit.AddPath(oas, prefix+rt.path, rt.method, op)
		}
	}
}
