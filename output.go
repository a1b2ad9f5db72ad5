package jsonschema

// OutputFormat selects the shape Result.Output renders, grounded on
// original_source/jschon/output.py's OutputFormatter and the supplemental
// hierarchical formatter from original_source/jschon/output/__init__.py.
type OutputFormat int

const (
	// FormatFlag reports only {"valid": bool}.
	FormatFlag OutputFormat = iota
	// FormatBasic flattens every annotation (if valid) or error (if not)
	// in the subtree into a single array.
	FormatBasic
	// FormatDetailed nests child results under "errors"/"annotations",
	// collapsing any node whose only child carries the whole result
	// (jschon's single-child flattening).
	FormatDetailed
	// FormatVerbose nests the complete tree, valid and invalid branches
	// alike, with annotations/errors at every level.
	FormatVerbose
	// FormatHierarchical is like FormatDetailed but never collapses
	// single-child nodes, nesting everything under a "nested" key.
	FormatHierarchical
)

// Output renders r in the requested format, as a JSON-marshalable value.
func (r *Result) Output(format OutputFormat) map[string]any {
	switch format {
	case FormatBasic:
		return r.outputBasic()
	case FormatDetailed:
		return r.outputDetailed()
	case FormatVerbose:
		return r.outputVerbose()
	case FormatHierarchical:
		return r.outputHierarchical()
	default:
		return map[string]any{"valid": r.Valid()}
	}
}

func (r *Result) outputBasic() map[string]any {
	out := map[string]any{"valid": r.Valid()}
	if r.Valid() {
		var annotations []map[string]any
		r.walkMatching(true, func(n *Result) {
			for key, val := range n.Annotations {
				annotations = append(annotations, n.locationFields(map[string]any{"keyword": key, "annotation": val}))
			}
		})
		out["annotations"] = annotations
	} else {
		var errors []map[string]any
		r.walkMatching(false, func(n *Result) {
			for _, issue := range n.Errors {
				errors = append(errors, map[string]any{
					"instanceLocation":        issue.InstanceLocation,
					"keywordLocation":         issue.KeywordLocation,
					"absoluteKeywordLocation": issue.AbsoluteKeyword,
					"error":                   issue.Message,
				})
			}
		})
		out["errors"] = errors
	}
	return out
}

// walkMatching visits r and every descendant whose own validity equals want,
// mirroring jschon's "collect along nodes of the same validity" basic/detailed
// traversal.
func (r *Result) walkMatching(want bool, visit func(*Result)) {
	if r.Valid() == want {
		visit(r)
	}
	for _, c := range r.Children {
		c.walkMatching(want, visit)
	}
}

func (r *Result) locationFields(extra map[string]any) map[string]any {
	out := map[string]any{
		"instanceLocation":        r.InstanceLocation.String(),
		"keywordLocation":         r.KeywordLocation.String(),
		"absoluteKeywordLocation": r.AbsoluteKeywordLocation.String(),
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func (r *Result) outputDetailed() map[string]any {
	return r.visitDetailed()
}

// visitDetailed builds one node, collapsing to its sole child when that
// child is the only content this node would otherwise carry — jschon's
// detailed formatter does this so a long $ref/allOf chain with exactly one
// failing branch reads as a single flat entry instead of a deep ladder.
func (r *Result) visitDetailed() map[string]any {
	valid := r.Valid()
	childKey, msgKey := "errors", "error"
	if valid {
		childKey, msgKey = "annotations", "annotation"
	}

	var children []map[string]any
	for _, c := range r.Children {
		if c.Valid() == valid {
			children = append(children, c.visitDetailed())
		}
	}

	result := r.locationFields(nil)
	if len(children) == 0 {
		if msg, ok := r.ownMessage(msgKey); ok {
			result[msgKey] = msg
		}
		return result
	}
	if len(children) == 1 {
		return children[0]
	}
	result[childKey] = children
	return result
}

// ownMessage returns r's single most relevant annotation/error value, the
// way jschon's Scope.annotation/Scope.error expose one value per scope (this
// module shares one Result node across sibling keywords, so "most relevant"
// means: the first error if invalid, or an arbitrary annotation if valid and
// there is exactly one).
func (r *Result) ownMessage(key string) (any, bool) {
	if key == "error" {
		if len(r.Errors) == 0 {
			return nil, false
		}
		return r.Errors[0].Message, true
	}
	if len(r.Annotations) == 0 {
		return nil, false
	}
	for _, v := range r.Annotations {
		return v, true
	}
	return nil, false
}

func (r *Result) outputVerbose() map[string]any {
	return r.visitVerbose()
}

func (r *Result) visitVerbose() map[string]any {
	valid := r.Valid()
	result := r.locationFields(map[string]any{"valid": valid})
	if valid {
		if len(r.Annotations) > 0 {
			result["annotation"] = r.Annotations
		}
		var children []map[string]any
		for _, c := range r.Children {
			children = append(children, c.visitVerbose())
		}
		if len(children) > 0 {
			result["annotations"] = children
		}
	} else {
		if len(r.Errors) > 0 {
			result["error"] = r.Errors[0].Message
		}
		var children []map[string]any
		for _, c := range r.Children {
			children = append(children, c.visitVerbose())
		}
		if len(children) > 0 {
			result["errors"] = children
		}
	}
	return result
}

func (r *Result) outputHierarchical() map[string]any {
	return r.visitHierarchical()
}

// visitHierarchical is outputDetailed's raw counterpart: every same-validity
// child is nested under "nested" regardless of count, never collapsing.
func (r *Result) visitHierarchical() map[string]any {
	valid := r.Valid()
	result := r.locationFields(map[string]any{"valid": valid})
	if msg, ok := r.ownMessage(map[bool]string{true: "annotation", false: "error"}[valid]); ok {
		result[map[bool]string{true: "annotation", false: "error"}[valid]] = msg
	}
	var nested []map[string]any
	for _, c := range r.Children {
		if c.Valid() == valid {
			nested = append(nested, c.visitHierarchical())
		}
	}
	if len(nested) > 0 {
		result["nested"] = nested
	}
	return result
}
