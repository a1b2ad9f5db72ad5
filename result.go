package jsonschema

import (
	"github.com/reoring/jsonschema/i18n"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// Result is one node of the evaluation result tree: the outcome of running
// a single schema (or a single keyword within a schema) against a single
// instance location, grounded on jschon's jsonschema.Scope.
type Result struct {
	Schema *Schema

	InstanceLocation pointer.Pointer
	// KeywordLocation is the path within the originally evaluated schema,
	// following $ref/$dynamicRef as a plain path segment (not resolved).
	KeywordLocation pointer.Pointer
	// AbsoluteKeywordLocation is set only on a node whose schema was reached
	// by crossing a $ref/$dynamicRef/$recursiveRef boundary: the resolved
	// schema's own URI, needed by detailed/verbose output per spec's output
	// format (jschon calls this "absoluteKeywordLocation").
	AbsoluteKeywordLocation uri.URI

	valid       bool
	Annotations map[string]any
	Errors      []Issue
	Children    []*Result

	parent *Result
}

// Valid reports whether this node (and everything below it) passed
// evaluation, matching SPEC_FULL.md §6's external interface.
func (r *Result) Valid() bool { return r.valid }

// newRootResult starts a fresh result tree rooted at sch, with nothing
// evaluated yet.
func newRootResult(sch *Schema) *Result {
	return &Result{
		Schema:           sch,
		InstanceLocation: pointer.Root,
		KeywordLocation:  pointer.Root,
		valid:            true,
		Annotations:      map[string]any{},
	}
}

// Child starts a new result scoped to a keyword (and, for array-/map-shaped
// keywords, its sub-key/index as additional path tokens) of r's schema, at
// the same instance location. Used by most keywords for their own
// top-level result.
func (r *Result) Child(keywordPath ...string) *Result {
	return r.childAt(r.InstanceLocation, r.Schema, keywordPath...)
}

// ChildAt is Child but also descending into a sub-instance (e.g.
// "properties" recursing into instance["foo"]).
func (r *Result) ChildAt(instanceLoc pointer.Pointer, keywordPath ...string) *Result {
	return r.childAt(instanceLoc, r.Schema, keywordPath...)
}

// ChildSchema starts a new result for evaluating a different (sub)schema —
// e.g. "properties" recursing into the subschema compiled for a given
// property — against instanceLoc.
func (r *Result) ChildSchema(sch *Schema, instanceLoc pointer.Pointer, keywordPath ...string) *Result {
	return r.childAt(instanceLoc, sch, keywordPath...)
}

func (r *Result) childAt(instanceLoc pointer.Pointer, sch *Schema, keywordPath ...string) *Result {
	loc := r.KeywordLocation
	for _, tok := range keywordPath {
		loc = loc.Field(tok)
	}
	c := &Result{
		Schema:           sch,
		InstanceLocation: instanceLoc,
		KeywordLocation:  loc,
		valid:            true,
		Annotations:      map[string]any{},
		parent:           r,
	}
	r.Children = append(r.Children, c)
	return c
}

// Annotate records a successful keyword's annotation value, retrievable by
// CollectAnnotations from ancestors (used by unevaluatedProperties/Items).
func (r *Result) Annotate(key string, value any) {
	r.Annotations[key] = value
}

// Fail records a validation failure at this node and marks it invalid. The
// caller fills in Code/Message/Params; InstanceLocation and KeywordLocation
// are taken from r unless already set.
func (r *Result) Fail(issue Issue) {
	if issue.InstanceLocation == "" {
		issue.InstanceLocation = r.InstanceLocation.String()
	}
	if issue.KeywordLocation == "" {
		issue.KeywordLocation = r.KeywordLocation.String()
	}
	if issue.AbsoluteKeyword == "" && !r.AbsoluteKeywordLocation.IsZero() {
		issue.AbsoluteKeyword = r.AbsoluteKeywordLocation.String()
	}
	if issue.Path == "" {
		issue.Path = issue.InstanceLocation
	}
	if issue.Message == "" {
		issue.Message = i18n.T(issue.Code, nil)
	}
	r.valid = false
	r.Errors = append(r.Errors, issue)
}

// Invalidate marks r invalid without adding a new Issue — used by container
// keywords (allOf, properties, ...) whose own failure is purely a function
// of a child result already carrying the error.
func (r *Result) Invalidate() {
	r.valid = false
}

// AllErrors flattens every Issue in r's subtree, depth-first.
func (r *Result) AllErrors() []Issue {
	var out []Issue
	var walk func(*Result)
	walk = func(n *Result) {
		out = append(out, n.Errors...)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(r)
	return out
}

// Issues flattens r's subtree into the goskema-style Issues view used by
// callers that want a single error value rather than a Result tree to walk.
func (r *Result) Issues() Issues {
	errs := r.AllErrors()
	if len(errs) == 0 {
		return nil
	}
	return Issues(errs)
}

// CollectAnnotations gathers every value annotated under key anywhere in
// r's subtree whose result was Valid, mirroring the dynamic-scope
// annotation collection unevaluatedProperties/unevaluatedItems depend on.
func (r *Result) CollectAnnotations(key string) []any {
	var out []any
	var walk func(*Result)
	walk = func(n *Result) {
		if !n.valid {
			return
		}
		if v, ok := n.Annotations[key]; ok {
			out = append(out, v)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(r)
	return out
}
