package jsonschema

import (
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// Core2019URI and Core2020URI identify the core vocabularies the two
// supported drafts declare by default; drafts/ wires these into each
// draft's Metaschema.
var (
	Core2019URI = uri.MustParse("https://json-schema.org/draft/2019-09/vocab/core")
	Core2020URI = uri.MustParse("https://json-schema.org/draft/2020-12/vocab/core")
)

// NewCoreVocabulary builds the $ref-family vocabulary shared by both
// supported drafts. recursive selects whether "$recursiveRef"/
// "$recursiveAnchor" (2019-09) or "$dynamicRef"/"$dynamicAnchor"
// (2020-12) are registered — a document only uses one family in
// practice, but registering both factories is harmless since a document
// simply won't contain the other draft's keyword.
func NewCoreVocabulary(u uri.URI) *Vocabulary {
	return NewVocabulary(u, map[string]KeywordFactory{
		"$ref":         refFactory,
		"$dynamicRef":  dynamicRefFactory,
		"$recursiveRef": recursiveRefFactory,
		"$defs":        defsFactory,
		"$comment":     commentFactory,
	})
}

// refKeyword implements "$ref": evaluating the instance against a schema
// resolved (possibly only after the whole document finishes compiling) at
// a fixed, statically known URI.
type refKeyword struct {
	rawTarget uri.URI
	cacheid   string
	resolved  *Schema
}

func refFactory(parent *Schema, value *jsonvalue.Node) (Keyword, error) {
	s, ok := value.Value().(string)
	if !ok {
		return nil, &SchemaError{At: value.Path, Msg: "$ref must be a string"}
	}
	ref, err := uri.Parse(s)
	if err != nil {
		return nil, &SchemaError{At: value.Path, Msg: "invalid $ref", Cause: err}
	}
	target := ref.Resolve(parent.baseURI)
	kw := &refKeyword{rawTarget: target, cacheid: parent.cacheid}
	parent.catalog.addPendingRef(kw, target)
	return kw, nil
}

func (k *refKeyword) Key() string         { return "$ref" }
func (k *refKeyword) cacheID() string     { return k.cacheid }
func (k *refKeyword) resolve(sch *Schema) { k.resolved = sch }

func (k *refKeyword) Evaluate(ctx *EvalContext, instance *jsonvalue.Node, result *Result) {
	if k.resolved == nil {
		result.Fail(Issue{Code: CodeUnresolvedReference, Message: "unresolved $ref: " + k.rawTarget.String()})
		return
	}
	child := result.ChildSchema(k.resolved, result.InstanceLocation, "$ref")
	child.AbsoluteKeywordLocation = k.resolved.uri
	evaluateSchema(ctx, k.resolved, instance, child)
	if !child.Valid() {
		result.Invalidate()
	}
}

// dynamicRefKeyword implements 2020-12's "$dynamicRef": the statically
// resolved target is only the fallback; if a $dynamicAnchor of the same
// name is visible in the dynamic scope at evaluation time, that wins —
// this is what lets a base schema's extension point be overridden by
// whichever document $ref'd into it.
type dynamicRefKeyword struct {
	rawTarget  uri.URI
	anchorName string // non-empty only when the $ref target had a plain-name fragment
	cacheid    string
	static     *Schema
}

func dynamicRefFactory(parent *Schema, value *jsonvalue.Node) (Keyword, error) {
	s, ok := value.Value().(string)
	if !ok {
		return nil, &SchemaError{At: value.Path, Msg: "$dynamicRef must be a string"}
	}
	ref, err := uri.Parse(s)
	if err != nil {
		return nil, &SchemaError{At: value.Path, Msg: "invalid $dynamicRef", Cause: err}
	}
	target := ref.Resolve(parent.baseURI)
	kw := &dynamicRefKeyword{rawTarget: target, anchorName: ref.Fragment(), cacheid: parent.cacheid}
	parent.catalog.addPendingRef(kw, target)
	return kw, nil
}

func (k *dynamicRefKeyword) Key() string         { return "$dynamicRef" }
func (k *dynamicRefKeyword) cacheID() string     { return k.cacheid }
func (k *dynamicRefKeyword) resolve(sch *Schema) { k.static = sch }

func (k *dynamicRefKeyword) Evaluate(ctx *EvalContext, instance *jsonvalue.Node, result *Result) {
	target := k.static
	if k.anchorName != "" && k.anchorName[0] != '/' {
		if dyn, ok := ctx.ResolveDynamicAnchor(k.anchorName); ok {
			target = dyn
		}
	}
	if target == nil {
		result.Fail(Issue{Code: CodeUnresolvedReference, Message: "unresolved $dynamicRef: " + k.rawTarget.String()})
		return
	}
	child := result.ChildSchema(target, result.InstanceLocation, "$dynamicRef")
	child.AbsoluteKeywordLocation = target.uri
	evaluateSchema(ctx, target, instance, child)
	if !child.Valid() {
		result.Invalidate()
	}
}

// recursiveRefKeyword implements 2019-09's "$recursiveRef": "#" is the
// only legal value in practice; if the resolved target declares
// "$recursiveAnchor": true, the outermost such anchor in the dynamic
// scope is used instead.
type recursiveRefKeyword struct {
	rawTarget uri.URI
	cacheid   string
	static    *Schema
}

func recursiveRefFactory(parent *Schema, value *jsonvalue.Node) (Keyword, error) {
	s, ok := value.Value().(string)
	if !ok {
		return nil, &SchemaError{At: value.Path, Msg: "$recursiveRef must be a string"}
	}
	ref, err := uri.Parse(s)
	if err != nil {
		return nil, &SchemaError{At: value.Path, Msg: "invalid $recursiveRef", Cause: err}
	}
	target := ref.Resolve(parent.baseURI)
	kw := &recursiveRefKeyword{rawTarget: target, cacheid: parent.cacheid}
	parent.catalog.addPendingRef(kw, target)
	return kw, nil
}

func (k *recursiveRefKeyword) Key() string         { return "$recursiveRef" }
func (k *recursiveRefKeyword) cacheID() string     { return k.cacheid }
func (k *recursiveRefKeyword) resolve(sch *Schema) { k.static = sch }

func (k *recursiveRefKeyword) Evaluate(ctx *EvalContext, instance *jsonvalue.Node, result *Result) {
	target := k.static
	if dyn, ok := ctx.ResolveRecursiveAnchor(); ok {
		target = dyn
	}
	if target == nil {
		result.Fail(Issue{Code: CodeUnresolvedReference, Message: "unresolved $recursiveRef: " + k.rawTarget.String()})
		return
	}
	child := result.ChildSchema(target, result.InstanceLocation, "$recursiveRef")
	child.AbsoluteKeywordLocation = target.uri
	evaluateSchema(ctx, target, instance, child)
	if !child.Valid() {
		result.Invalidate()
	}
}

// defsKeyword compiles every entry of "$defs" as a subschema so it is
// registered in the catalog (and reachable by $ref/$anchor) even though
// "$defs" itself asserts nothing about the instance.
type defsKeyword struct{}

func defsFactory(parent *Schema, value *jsonvalue.Node) (Keyword, error) {
	if value.Kind != jsonvalue.KindObject {
		return nil, &SchemaError{At: value.Path, Msg: "$defs must be an object"}
	}
	for _, m := range value.Object.Members {
		if _, err := parent.CompileSubschema(m.Value, pointer.New("$defs", m.Key)); err != nil {
			return nil, err
		}
	}
	return defsKeyword{}, nil
}

func (defsKeyword) Key() string { return "$defs" }
func (defsKeyword) Evaluate(*EvalContext, *jsonvalue.Node, *Result) {}

// commentKeyword is a pure annotation: "$comment" has no bearing on
// validation and is not even exposed as a Result annotation, matching the
// spec's treatment of it as documentation only.
type commentKeyword struct{}

func commentFactory(*Schema, *jsonvalue.Node) (Keyword, error) { return commentKeyword{}, nil }
func (commentKeyword) Key() string                             { return "$comment" }
func (commentKeyword) Evaluate(*EvalContext, *jsonvalue.Node, *Result) {}
