// Package ginmw adapts a compiled jsonschema.Schema into gin request-body
// validation, grounded on goskema's middleware/gin/middleware.go but
// retargeted from Schema[T] struct binding to schema evaluation
// (SPEC_FULL.md D4).
package ginmw

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/middleware"
)

// ValidateJSON evaluates every request body against sch, storing the
// decoded instance and Result in the request context on success, or
// responding 400 with middleware.ErrorPayload(result) on failure.
func ValidateJSON(sch *jsonschema.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		instance, err := jsonvalue.DecodeBytesWithOpt(body, sch.Catalog().DecodeOpt())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON: " + err.Error()})
			c.Abort()
			return
		}
		result := sch.Evaluate(instance)
		if !result.Valid() {
			c.JSON(http.StatusBadRequest, middleware.ErrorPayload(result))
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInstance(c.Request.Context(), middleware.Validated{Instance: instance, Result: result}))
		c.Next()
	}
}

// GetValidated fetches the Validated body stored by ValidateJSON.
func GetValidated(c *gin.Context) (middleware.Validated, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
