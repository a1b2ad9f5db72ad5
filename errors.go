package jsonschema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes name the keyword or structural rule that produced an
// evaluation failure, adapted from goskema's Issue code set (errors.go) —
// the struct-validation-flavored codes there (business_rule, conflict,
// dependency_unavailable, discriminator_*) have no meaning for a schema
// evaluator and are replaced with the JSON Schema keyword vocabulary.
const (
	CodeType                 = "type"
	CodeRequired             = "required"
	CodeProperties           = "properties"
	CodePatternProperties    = "pattern_properties"
	CodePropertyNames        = "property_names"
	CodeAdditionalProperties = "additional_properties"
	CodeUnevaluatedProperty  = "unevaluated_properties"
	CodeUnevaluatedItem      = "unevaluated_items"
	CodeDuplicateKey         = "duplicate_key"
	CodeMinimum              = "minimum"
	CodeMaximum              = "maximum"
	CodeExclusiveMinimum     = "exclusive_minimum"
	CodeExclusiveMaximum     = "exclusive_maximum"
	CodeMultipleOf           = "multiple_of"
	CodeMinLength            = "min_length"
	CodeMaxLength            = "max_length"
	CodePattern              = "pattern"
	CodeMinItems             = "min_items"
	CodeMaxItems             = "max_items"
	CodeUniqueItems          = "unique_items"
	CodeMinContains          = "min_contains"
	CodeMaxContains          = "max_contains"
	CodeContains             = "contains"
	CodeMinProperties        = "min_properties"
	CodeMaxProperties        = "max_properties"
	CodeDependentRequired    = "dependent_required"
	CodeEnum                 = "enum"
	CodeConst                = "const"
	CodeFormat               = "format"
	CodeAllOf                = "all_of"
	CodeAnyOf                = "any_of"
	CodeOneOf                = "one_of"
	CodeNot                  = "not"
	CodeRef                  = "ref"
	CodeDynamicRef           = "dynamic_ref"
	CodeUnresolvedReference  = "unresolved_reference"
	CodeContentEncoding      = "content_encoding"
	CodeContentMediaType     = "content_media_type"
	CodeContentSchema        = "content_schema"
)

// Issue represents a single evaluation failure attached to one keyword at
// one instance/schema location, the atomic unit both the error tree and the
// output formatters (flag/basic/detailed/verbose) are built from.
type Issue struct {
	// Path mirrors InstanceLocation, kept as its own field so callers
	// migrating from goskema's flatter Issue shape (Path, Code, Message,
	// Hint, Cause, Params, Rule) find the field they expect; JSON Schema
	// evaluation additionally needs the two schema-side locations below,
	// which goskema's single-document validator had no equivalent for.
	Path             string
	InstanceLocation string // JSON Pointer into the instance, e.g. /items/2/price.
	KeywordLocation  string // JSON Pointer into the schema that produced this issue.
	AbsoluteKeyword  string // Fully resolved schema URI + keyword location fragment.
	Code             string // One of the codes listed above.
	Message          string
	Hint             string // optional human-readable suggestion, set by a handful of keywords (e.g. pattern, enum)
	Rule             string // optional sub-rule discriminator within Code, e.g. a dependentRequired trigger name
	Cause            error
	Params           map[string]any
}

// Issues is a collection of evaluation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.InstanceLocation)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice
// when needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
