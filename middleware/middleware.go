// Package middleware holds the HTTP-framework-agnostic pieces shared by
// middleware/echo and middleware/gin: a typed context key for the decoded
// request body and the JSON error payload shape both frameworks return on
// a failed validation, grounded on goskema's middleware.go but retargeted
// from Decoded[T] struct binding to a *jsonschema.Result tree (SPEC_FULL.md
// D3/D4).
package middleware

import (
	"context"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/jsonvalue"
)

// Validated is what a successful ValidateJSON middleware call stores in the
// request context: the decoded body plus the Result that validated it (so
// a handler can still inspect annotations — defaults, unevaluated keys —
// without re-evaluating).
type Validated struct {
	Instance *jsonvalue.Node
	Result   *jsonschema.Result
}

type ctxKeyInstance struct{}

// ContextWithInstance attaches the decoded, schema-validated request body
// to ctx.
func ContextWithInstance(ctx context.Context, v Validated) context.Context {
	return context.WithValue(ctx, ctxKeyInstance{}, v)
}

// InstanceFromContext retrieves the Validated value stored by
// ContextWithInstance.
func InstanceFromContext(ctx context.Context) (Validated, bool) {
	v, ok := ctx.Value(ctxKeyInstance{}).(Validated)
	return v, ok
}

// ErrorPayload shapes a failed Result as a JSON response body, in the
// spec's basic output format — the shape most HTTP clients expect from a
// 400 response: a flat list of {instanceLocation, keywordLocation, error}.
func ErrorPayload(result *jsonschema.Result) map[string]any {
	return result.Output(jsonschema.FormatBasic)
}
