// Package echomw adapts a compiled jsonschema.Schema into echo request-body
// validation, grounded on goskema's middleware/echo/middleware.go but
// retargeted from Schema[T] struct binding to schema evaluation
// (SPEC_FULL.md D3).
package echomw

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/middleware"
)

// ValidateJSON evaluates every request body against sch, storing the
// decoded instance and Result in the request context on success, or
// responding 400 with middleware.ErrorPayload(result) on failure.
func ValidateJSON(sch *jsonschema.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			instance, err := jsonvalue.DecodeBytesWithOpt(body, sch.Catalog().DecodeOpt())
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]any{"error": "request body is not valid JSON: " + err.Error()})
			}
			result := sch.Evaluate(instance)
			if !result.Valid() {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(result))
			}
			ctx := middleware.ContextWithInstance(c.Request().Context(), middleware.Validated{Instance: instance, Result: result})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValidated fetches the Validated body stored by ValidateJSON.
func GetValidated(c echo.Context) (middleware.Validated, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
