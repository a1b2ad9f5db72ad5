package jsonschema

import (
	"encoding/json"

	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
)

// EvalContext threads the dynamic scope (the stack of resource-root
// schemas entered so far, including across $ref/$dynamicRef boundaries)
// through one Evaluate call, grounded on jschon's Scope dynamic-scope
// chain used to resolve $dynamicRef/$recursiveRef.
type EvalContext struct {
	dynamicScope []*Schema // outermost first
}

// PushDynamic enters sch's resource scope, returning a function that
// leaves it again; call as `defer ctx.PushDynamic(root)()`.
func (ctx *EvalContext) PushDynamic(root *Schema) func() {
	ctx.dynamicScope = append(ctx.dynamicScope, root)
	return func() {
		ctx.dynamicScope = ctx.dynamicScope[:len(ctx.dynamicScope)-1]
	}
}

// ResolveDynamicAnchor implements $dynamicRef's 2020-12 resolution rule:
// the outermost resource in the current dynamic scope that declares a
// matching $dynamicAnchor wins, not the innermost.
func (ctx *EvalContext) ResolveDynamicAnchor(name string) (*Schema, bool) {
	for _, root := range ctx.dynamicScope {
		if root.dynamicAnchors == nil {
			continue
		}
		if sch, ok := root.dynamicAnchors[name]; ok {
			return sch, true
		}
	}
	return nil, false
}

// ResolveRecursiveAnchor implements the 2019-09 $recursiveRef: true behavior
// — the outermost resource in scope with $recursiveAnchor: true wins.
func (ctx *EvalContext) ResolveRecursiveAnchor() (*Schema, bool) {
	for _, root := range ctx.dynamicScope {
		if root.dynamicAnchors == nil {
			continue
		}
		if sch, ok := root.dynamicAnchors[""]; ok {
			return sch, true
		}
	}
	return nil, false
}

// Evaluate walks instance against s, producing a Result tree. This is the
// spec's primary evaluation entry point; instance may be a *jsonvalue.Node
// (already decoded via this module's order-preserving decoder), raw JSON
// (string or []byte), or a plain Go value (map[string]any/[]any/scalars, as
// produced by a generic decoder such as yaml.v3's Unmarshal into `any`).
func (s *Schema) Evaluate(instance any) *Result {
	node, err := toNode(instance, s.catalog.decodeOpt)
	ctx := &EvalContext{}
	result := newRootResult(s)
	if err != nil {
		result.Fail(Issue{Code: CodeType, Message: "instance could not be decoded", Cause: err})
		return result
	}
	evaluateSchema(ctx, s, node, result)
	return result
}

// toNode normalizes the accepted Evaluate input shapes into a *jsonvalue.Node.
// Raw-bytes shapes go through opt's structural enforcement (duplicate-key/
// depth/size limits) since they may originate outside the process, unlike an
// already-decoded *jsonvalue.Node or a plain Go value.
func toNode(instance any, opt jsonvalue.DecodeOpt) (*jsonvalue.Node, error) {
	switch v := instance.(type) {
	case *jsonvalue.Node:
		return v, nil
	case []byte:
		return jsonvalue.DecodeBytesWithOpt(v, opt)
	case string:
		return jsonvalue.DecodeBytesWithOpt([]byte(v), opt)
	case json.RawMessage:
		return jsonvalue.DecodeBytesWithOpt(v, opt)
	default:
		return jsonvalue.FromAny(instance, pointer.Root, nil), nil
	}
}

// EvaluateInto runs s against instance, writing into result, exactly as
// Evaluate does for the root schema. This is the seam applicator keywords
// (in package vocabulary) use to recurse into a subschema while keeping
// ctx's dynamic scope intact — the same role CompileSubschema plays at
// compile time.
func (s *Schema) EvaluateInto(ctx *EvalContext, instance *jsonvalue.Node, result *Result) {
	evaluateSchema(ctx, s, instance, result)
}

// evaluateSchema runs sch's own keywords (already topologically ordered at
// compile time) against instance, writing into result. Boolean schemas
// short-circuit: true always passes, false always fails.
func evaluateSchema(ctx *EvalContext, sch *Schema, instance *jsonvalue.Node, result *Result) {
	if sch.IsBoolean() {
		if !sch.BoolValue() {
			result.Fail(Issue{Code: CodeType, Message: "instance rejected by boolean schema false"})
		}
		return
	}

	pop := ctx.PushDynamic(sch.nearestResourceRoot())
	defer pop()

	for _, kw := range sch.keywords {
		if tr, ok := kw.(TypeRestricted); ok && !typeApplies(tr.InstanceTypes(), instance) {
			continue
		}
		kw.Evaluate(ctx, instance, result)
	}
}

func typeApplies(types []string, instance *jsonvalue.Node) bool {
	it := instanceTypeName(instance)
	for _, t := range types {
		if t == it {
			return true
		}
		if t == "number" && it == "integer" {
			return true
		}
	}
	return false
}

// instanceTypeName returns the JSON Schema type name of instance, treating
// whole-valued numbers as both "integer" and "number" via the caller's
// typeApplies check.
func instanceTypeName(instance *jsonvalue.Node) string {
	switch instance.Kind {
	case jsonvalue.KindNull:
		return "null"
	case jsonvalue.KindBool:
		return "boolean"
	case jsonvalue.KindString:
		return "string"
	case jsonvalue.KindArray:
		return "array"
	case jsonvalue.KindObject:
		return "object"
	case jsonvalue.KindNumber:
		if isIntegerValued(instance) {
			return "integer"
		}
		return "number"
	}
	return ""
}

func isIntegerValued(n *jsonvalue.Node) bool {
	f := n.Float
	if n.Number != "" {
		if fv, err := n.Number.Float64(); err == nil {
			f = fv
		}
	}
	return f == float64(int64(f))
}
