// Package vocabulary implements the keyword vocabularies of JSON Schema
// drafts 2019-09 and 2020-12 — applicator, validation, content and metadata
// keywords — as jsonschema.Keyword/jsonschema.KeywordFactory values, grounded
// on original_source/jschon/vocabulary/applicator.py and validation.py.
//
// Core keywords ($ref family, $id, $schema, $defs) and the format keyword
// live in the root package instead, because they need privileged access to
// Catalog/Schema internals (deferred reference resolution, the format
// validator registry) that this package only sees through the public API.
package vocabulary

import (
	"regexp"
	"strconv"

	"github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// Applicator2020URI and Applicator2019URI identify the two drafts'
// applicator vocabularies; drafts/ registers NewApplicatorVocabulary under
// one of these per draft.
var (
	Applicator2020URI = uri.MustParse("https://json-schema.org/draft/2020-12/vocab/applicator")
	Applicator2019URI = uri.MustParse("https://json-schema.org/draft/2019-09/vocab/applicator")
)

func init() {
	jsonschema.DependencyHints["additionalProperties"] = []string{"properties", "patternProperties"}
	jsonschema.DependencyHints["unevaluatedProperties"] = []string{
		"properties", "patternProperties", "additionalProperties",
		"allOf", "anyOf", "oneOf", "not", "if", "then", "else", "dependentSchemas", "$ref", "$dynamicRef", "$recursiveRef",
	}
	jsonschema.DependencyHints["unevaluatedItems"] = []string{
		"prefixItems", "items", "additionalItems", "contains",
		"allOf", "anyOf", "oneOf", "not", "if", "then", "else", "$ref", "$dynamicRef", "$recursiveRef",
	}
	jsonschema.DependencyHints["then"] = []string{"if"}
	jsonschema.DependencyHints["else"] = []string{"if"}
	jsonschema.DependencyHints["minContains"] = []string{"contains"}
	jsonschema.DependencyHints["maxContains"] = []string{"contains"}
	jsonschema.DependencyHints["items"] = []string{"prefixItems"}
	jsonschema.DependencyHints["additionalItems"] = []string{"items"}
}

// NewApplicatorVocabulary builds the applicator vocabulary; has2019Items
// selects between 2020-12's prefixItems/items split and 2019-09's
// array-form items/additionalItems split (both may legally coexist in the
// factory map — a document only uses the keywords of its own draft).
func NewApplicatorVocabulary(u uri.URI) *jsonschema.Vocabulary {
	return jsonschema.NewVocabulary(u, map[string]jsonschema.KeywordFactory{
		"allOf":                 allOfFactory,
		"anyOf":                 anyOfFactory,
		"oneOf":                 oneOfFactory,
		"not":                   notFactory,
		"if":                    ifFactory,
		"then":                  thenElseFactory("then"),
		"else":                  thenElseFactory("else"),
		"dependentSchemas":      dependentSchemasFactory,
		"prefixItems":           prefixItemsFactory,
		"items":                 itemsFactory,
		"additionalItems":       additionalItemsFactory,
		"contains":              containsFactory,
		"minContains":           minContainsFactory,
		"maxContains":           maxContainsFactory,
		"properties":            propertiesFactory,
		"patternProperties":     patternPropertiesFactory,
		"additionalProperties":  additionalPropertiesFactory,
		"unevaluatedProperties": unevaluatedPropertiesFactory,
		"unevaluatedItems":      unevaluatedItemsFactory,
		"propertyNames":         propertyNamesFactory,
	})
}

// --- allOf / anyOf / oneOf / not -------------------------------------------

func compileSchemaArray(parent *jsonschema.Schema, key string, value *jsonvalue.Node) ([]*jsonschema.Schema, error) {
	if value.Kind != jsonvalue.KindArray {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: key + " must be an array"}
	}
	subs := make([]*jsonschema.Schema, len(value.Array))
	for i, item := range value.Array {
		sch, err := parent.CompileSubschema(item, pointer.New(key, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		subs[i] = sch
	}
	return subs, nil
}

func allOfFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	subs, err := compileSchemaArray(parent, "allOf", value)
	if err != nil {
		return nil, err
	}
	return &allOfKeyword{subs: subs}, nil
}

type allOfKeyword struct{ subs []*jsonschema.Schema }

func (k *allOfKeyword) Key() string { return "allOf" }
func (k *allOfKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	ok := true
	for i, sub := range k.subs {
		child := result.ChildSchema(sub, result.InstanceLocation, "allOf", strconv.Itoa(i))
		sub.EvaluateInto(ctx, instance, child)
		if !child.Valid() {
			ok = false
		}
	}
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAllOf, Message: "not all subschemas of allOf matched"})
	}
}

func anyOfFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	subs, err := compileSchemaArray(parent, "anyOf", value)
	if err != nil {
		return nil, err
	}
	return &anyOfKeyword{subs: subs}, nil
}

type anyOfKeyword struct{ subs []*jsonschema.Schema }

func (k *anyOfKeyword) Key() string { return "anyOf" }
func (k *anyOfKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	matched := false
	for i, sub := range k.subs {
		child := result.ChildSchema(sub, result.InstanceLocation, "anyOf", strconv.Itoa(i))
		sub.EvaluateInto(ctx, instance, child)
		if child.Valid() {
			matched = true
		}
	}
	if !matched {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAnyOf, Message: "no subschema of anyOf matched"})
	}
}

func oneOfFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	subs, err := compileSchemaArray(parent, "oneOf", value)
	if err != nil {
		return nil, err
	}
	return &oneOfKeyword{subs: subs}, nil
}

type oneOfKeyword struct{ subs []*jsonschema.Schema }

func (k *oneOfKeyword) Key() string { return "oneOf" }
func (k *oneOfKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	matches := 0
	for i, sub := range k.subs {
		child := result.ChildSchema(sub, result.InstanceLocation, "oneOf", strconv.Itoa(i))
		sub.EvaluateInto(ctx, instance, child)
		if child.Valid() {
			matches++
		}
	}
	if matches != 1 {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeOneOf, Message: "exactly one subschema of oneOf must match"})
	}
}

func notFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("not"))
	if err != nil {
		return nil, err
	}
	return &notKeyword{sub: sub}, nil
}

type notKeyword struct{ sub *jsonschema.Schema }

func (k *notKeyword) Key() string { return "not" }
func (k *notKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	child := result.ChildSchema(k.sub, result.InstanceLocation, "not")
	k.sub.EvaluateInto(ctx, instance, child)
	if child.Valid() {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeNot, Message: "instance must not match the \"not\" subschema"})
	}
}

// --- if / then / else -------------------------------------------------------

func ifFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("if"))
	if err != nil {
		return nil, err
	}
	return &ifKeyword{sub: sub}, nil
}

// ifKeyword records whether the "if" condition matched as an annotation so
// the sibling "then"/"else" keywords (ordered to run afterward) can read it
// off the shared result node, and the condition check itself never fails
// the schema — jschon's "if" keyword is always structurally valid.
type ifKeyword struct{ sub *jsonschema.Schema }

func (k *ifKeyword) Key() string { return "if" }
func (k *ifKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	child := result.ChildSchema(k.sub, result.InstanceLocation, "if")
	k.sub.EvaluateInto(ctx, instance, child)
	result.Annotate("if", child.Valid())
}

func thenElseFactory(key string) jsonschema.KeywordFactory {
	return func(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
		sub, err := parent.CompileSubschema(value, pointer.New(key))
		if err != nil {
			return nil, err
		}
		return &thenElseKeyword{key: key, sub: sub}, nil
	}
}

type thenElseKeyword struct {
	key string
	sub *jsonschema.Schema
}

func (k *thenElseKeyword) Key() string { return k.key }
func (k *thenElseKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	ifMatched, hasIf := result.Annotations["if"].(bool)
	if !hasIf {
		return // no sibling "if": then/else are ignored per spec
	}
	if k.key == "then" && !ifMatched {
		return
	}
	if k.key == "else" && ifMatched {
		return
	}
	child := result.ChildSchema(k.sub, result.InstanceLocation, k.key)
	k.sub.EvaluateInto(ctx, instance, child)
	if !child.Valid() {
		code := jsonschema.CodeAllOf
		result.Fail(jsonschema.Issue{Code: code, Message: k.key + " subschema did not match"})
	}
}

// --- dependentSchemas --------------------------------------------------------

func dependentSchemasFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	if value.Kind != jsonvalue.KindObject {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "dependentSchemas must be an object"}
	}
	subs := map[string]*jsonschema.Schema{}
	for _, m := range value.Object.Members {
		sch, err := parent.CompileSubschema(m.Value, pointer.New("dependentSchemas", m.Key))
		if err != nil {
			return nil, err
		}
		subs[m.Key] = sch
	}
	return &dependentSchemasKeyword{subs: subs}, nil
}

type dependentSchemasKeyword struct{ subs map[string]*jsonschema.Schema }

func (k *dependentSchemasKeyword) Key() string { return "dependentSchemas" }
func (k *dependentSchemasKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	if instance.Kind != jsonvalue.KindObject {
		return
	}
	ok := true
	for name, sub := range k.subs {
		if !instance.Object.Has(name) {
			continue
		}
		child := result.ChildSchema(sub, result.InstanceLocation, "dependentSchemas", name)
		sub.EvaluateInto(ctx, instance, child)
		if !child.Valid() {
			ok = false
		}
	}
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAllOf, Message: "dependentSchemas subschema did not match"})
	}
}

// --- array keywords: prefixItems / items / additionalItems / contains ------

func prefixItemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	subs, err := compileSchemaArray(parent, "prefixItems", value)
	if err != nil {
		return nil, err
	}
	return &prefixItemsKeyword{subs: subs}, nil
}

type prefixItemsKeyword struct{ subs []*jsonschema.Schema }

func (k *prefixItemsKeyword) Key() string                   { return "prefixItems" }
func (k *prefixItemsKeyword) InstanceTypes() []string        { return []string{"array"} }
func (k *prefixItemsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	ok := true
	n := len(k.subs)
	if n > len(instance.Array) {
		n = len(instance.Array)
	}
	for i := 0; i < n; i++ {
		child := result.ChildSchema(k.subs[i], instance.Array[i].Path, "prefixItems", strconv.Itoa(i))
		k.subs[i].EvaluateInto(ctx, instance.Array[i], child)
		if !child.Valid() {
			ok = false
		}
	}
	result.Annotate("prefixItems", n)
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAllOf, Message: "one or more prefixItems subschemas did not match"})
	}
}

// itemsKeyword implements 2020-12's single-schema "items": applies to every
// array element beyond whatever "prefixItems" already covered.
func itemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	if value.Kind == jsonvalue.KindArray {
		return legacyItemsFactory(parent, value)
	}
	sub, err := parent.CompileSubschema(value, pointer.New("items"))
	if err != nil {
		return nil, err
	}
	return &itemsKeyword{sub: sub}, nil
}

type itemsKeyword struct{ sub *jsonschema.Schema }

func (k *itemsKeyword) Key() string            { return "items" }
func (k *itemsKeyword) InstanceTypes() []string { return []string{"array"} }
func (k *itemsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	start := 0
	if n, ok := result.Annotations["prefixItems"].(int); ok {
		start = n
	}
	ok := true
	for i := start; i < len(instance.Array); i++ {
		child := result.ChildSchema(k.sub, instance.Array[i].Path, "items", strconv.Itoa(i))
		k.sub.EvaluateInto(ctx, instance.Array[i], child)
		if !child.Valid() {
			ok = false
		}
	}
	if len(instance.Array) > start {
		result.Annotate("items", true)
	}
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAllOf, Message: "one or more items subschema matches did not hold"})
	}
}

// legacyItemsFactory implements 2019-09's array-form "items": a positional
// schema per index, paired with "additionalItems" for the remainder.
func legacyItemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	subs, err := compileSchemaArray(parent, "items", value)
	if err != nil {
		return nil, err
	}
	return &legacyItemsKeyword{subs: subs}, nil
}

type legacyItemsKeyword struct{ subs []*jsonschema.Schema }

func (k *legacyItemsKeyword) Key() string            { return "items" }
func (k *legacyItemsKeyword) InstanceTypes() []string { return []string{"array"} }
func (k *legacyItemsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	ok := true
	n := len(k.subs)
	if n > len(instance.Array) {
		n = len(instance.Array)
	}
	for i := 0; i < n; i++ {
		child := result.ChildSchema(k.subs[i], instance.Array[i].Path, "items", strconv.Itoa(i))
		k.subs[i].EvaluateInto(ctx, instance.Array[i], child)
		if !child.Valid() {
			ok = false
		}
	}
	result.Annotate("prefixItems", n) // reuse the same "how many from the front are covered" signal additionalItems/unevaluatedItems read
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAllOf, Message: "one or more items subschemas did not match"})
	}
}

func additionalItemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("additionalItems"))
	if err != nil {
		return nil, err
	}
	return &additionalItemsKeyword{sub: sub}, nil
}

type additionalItemsKeyword struct{ sub *jsonschema.Schema }

func (k *additionalItemsKeyword) Key() string            { return "additionalItems" }
func (k *additionalItemsKeyword) InstanceTypes() []string { return []string{"array"} }
func (k *additionalItemsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	start := 0
	if n, ok := result.Annotations["prefixItems"].(int); ok {
		start = n
	}
	ok := true
	for i := start; i < len(instance.Array); i++ {
		child := result.ChildSchema(k.sub, instance.Array[i].Path, "additionalItems", strconv.Itoa(i))
		k.sub.EvaluateInto(ctx, instance.Array[i], child)
		if !child.Valid() {
			ok = false
		}
	}
	if len(instance.Array) > start {
		result.Annotate("items", true)
	}
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAllOf, Message: "one or more additionalItems matches did not hold"})
	}
}

func containsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("contains"))
	if err != nil {
		return nil, err
	}
	_, hasMin := parent.Keyword("minContains")
	_, hasMax := parent.Keyword("maxContains")
	return &containsKeyword{sub: sub, deferCount: hasMin || hasMax}, nil
}

type containsKeyword struct {
	sub        *jsonschema.Schema
	deferCount bool
}

func (k *containsKeyword) Key() string            { return "contains" }
func (k *containsKeyword) InstanceTypes() []string { return []string{"array"} }
func (k *containsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	var matched []int
	for i, item := range instance.Array {
		child := result.ChildSchema(k.sub, item.Path, "contains", strconv.Itoa(i))
		k.sub.EvaluateInto(ctx, item, child)
		if child.Valid() {
			matched = append(matched, i)
		}
	}
	result.Annotate("contains", matched)
	if !k.deferCount && len(matched) == 0 {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeContains, Message: "array must contain at least one matching item"})
	}
}

func minContainsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "minContains")
	if err != nil {
		return nil, err
	}
	return &minContainsKeyword{n: n}, nil
}

type minContainsKeyword struct{ n int }

func (k *minContainsKeyword) Key() string { return "minContains" }
func (k *minContainsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	matched, _ := result.Annotations["contains"].([]int)
	if len(matched) < k.n {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeMinContains, Message: "array must contain at least the required number of matching items"})
	}
}

func maxContainsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "maxContains")
	if err != nil {
		return nil, err
	}
	return &maxContainsKeyword{n: n}, nil
}

type maxContainsKeyword struct{ n int }

func (k *maxContainsKeyword) Key() string { return "maxContains" }
func (k *maxContainsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	matched, _ := result.Annotations["contains"].([]int)
	if len(matched) > k.n {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeMaxContains, Message: "array must not contain more than the allowed number of matching items"})
	}
}

// --- object keywords: properties / patternProperties / additionalProperties /
//     unevaluatedProperties / unevaluatedItems / propertyNames -------------

func propertiesFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	if value.Kind != jsonvalue.KindObject {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "properties must be an object"}
	}
	subs := map[string]*jsonschema.Schema{}
	for _, m := range value.Object.Members {
		sch, err := parent.CompileSubschema(m.Value, pointer.New("properties", m.Key))
		if err != nil {
			return nil, err
		}
		subs[m.Key] = sch
	}
	return &propertiesKeyword{subs: subs}, nil
}

type propertiesKeyword struct{ subs map[string]*jsonschema.Schema }

func (k *propertiesKeyword) Key() string            { return "properties" }
func (k *propertiesKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *propertiesKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	var matched []string
	ok := true
	for _, m := range instance.Object.Members {
		sub, has := k.subs[m.Key]
		if !has {
			continue
		}
		matched = append(matched, m.Key)
		child := result.ChildSchema(sub, m.Value.Path, "properties", m.Key)
		sub.EvaluateInto(ctx, m.Value, child)
		if !child.Valid() {
			ok = false
		}
	}
	result.Annotate("properties", matched)
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeProperties, Message: "one or more properties did not match their subschema"})
	}
}

func patternPropertiesFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	if value.Kind != jsonvalue.KindObject {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "patternProperties must be an object"}
	}
	var entries []patternPropertyEntry
	for _, m := range value.Object.Members {
		re, err := regexp.Compile(m.Key)
		if err != nil {
			return nil, &jsonschema.SchemaError{At: value.Path, Msg: "invalid patternProperties regex " + m.Key, Cause: err}
		}
		sch, err := parent.CompileSubschema(m.Value, pointer.New("patternProperties", m.Key))
		if err != nil {
			return nil, err
		}
		entries = append(entries, patternPropertyEntry{re, sch})
	}
	return &patternPropertiesKeyword{entries: entries}, nil
}

type patternPropertyEntry struct {
	re  *regexp.Regexp
	sch *jsonschema.Schema
}

type patternPropertiesKeyword struct {
	entries []patternPropertyEntry
}

func (k *patternPropertiesKeyword) Key() string            { return "patternProperties" }
func (k *patternPropertiesKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *patternPropertiesKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	var matched []string
	ok := true
	for _, m := range instance.Object.Members {
		for _, e := range k.entries {
			if !e.re.MatchString(m.Key) {
				continue
			}
			matched = append(matched, m.Key)
			child := result.ChildSchema(e.sch, m.Value.Path, "patternProperties", m.Key)
			e.sch.EvaluateInto(ctx, m.Value, child)
			if !child.Valid() {
				ok = false
			}
		}
	}
	result.Annotate("patternProperties", matched)
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodePatternProperties, Message: "one or more patternProperties matches did not hold"})
	}
}

func additionalPropertiesFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("additionalProperties"))
	if err != nil {
		return nil, err
	}
	return &additionalPropertiesKeyword{sub: sub}, nil
}

type additionalPropertiesKeyword struct{ sub *jsonschema.Schema }

func (k *additionalPropertiesKeyword) Key() string            { return "additionalProperties" }
func (k *additionalPropertiesKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *additionalPropertiesKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	covered := coveredNames(result, "properties", "patternProperties")
	var matched []string
	ok := true
	for _, m := range instance.Object.Members {
		if covered[m.Key] {
			continue
		}
		matched = append(matched, m.Key)
		child := result.ChildSchema(k.sub, m.Value.Path, "additionalProperties", m.Key)
		k.sub.EvaluateInto(ctx, m.Value, child)
		if !child.Valid() {
			ok = false
		}
	}
	result.Annotate("additionalProperties", matched)
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeAdditionalProperties, Message: "one or more additional properties did not match"})
	}
}

func unevaluatedPropertiesFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("unevaluatedProperties"))
	if err != nil {
		return nil, err
	}
	return &unevaluatedPropertiesKeyword{sub: sub}, nil
}

type unevaluatedPropertiesKeyword struct{ sub *jsonschema.Schema }

func (k *unevaluatedPropertiesKeyword) Key() string            { return "unevaluatedProperties" }
func (k *unevaluatedPropertiesKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *unevaluatedPropertiesKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	evaluated := map[string]bool{}
	for _, key := range []string{"properties", "patternProperties", "additionalProperties", "unevaluatedProperties"} {
		for _, v := range result.CollectAnnotations(key) {
			addNames(evaluated, v)
		}
	}
	ok := true
	var matched []string
	for _, m := range instance.Object.Members {
		if evaluated[m.Key] {
			continue
		}
		matched = append(matched, m.Key)
		child := result.ChildSchema(k.sub, m.Value.Path, "unevaluatedProperties", m.Key)
		k.sub.EvaluateInto(ctx, m.Value, child)
		if !child.Valid() {
			ok = false
		}
	}
	result.Annotate("unevaluatedProperties", matched)
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeUnevaluatedProperty, Message: "one or more unevaluated properties did not match"})
	}
}

func unevaluatedItemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("unevaluatedItems"))
	if err != nil {
		return nil, err
	}
	return &unevaluatedItemsKeyword{sub: sub}, nil
}

type unevaluatedItemsKeyword struct{ sub *jsonschema.Schema }

func (k *unevaluatedItemsKeyword) Key() string            { return "unevaluatedItems" }
func (k *unevaluatedItemsKeyword) InstanceTypes() []string { return []string{"array"} }
func (k *unevaluatedItemsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	start := 0
	for _, v := range result.CollectAnnotations("prefixItems") {
		if n, ok := v.(int); ok && n > start {
			start = n
		}
	}
	allCovered := false
	for _, key := range []string{"items", "unevaluatedItems"} {
		for _, v := range result.CollectAnnotations(key) {
			if b, ok := v.(bool); ok && b {
				allCovered = true
			}
		}
	}
	if allCovered {
		start = len(instance.Array)
	}
	ok := true
	var n int
	for i := start; i < len(instance.Array); i++ {
		n++
		child := result.ChildSchema(k.sub, instance.Array[i].Path, "unevaluatedItems", strconv.Itoa(i))
		k.sub.EvaluateInto(ctx, instance.Array[i], child)
		if !child.Valid() {
			ok = false
		}
	}
	if n > 0 {
		result.Annotate("unevaluatedItems", true)
	}
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeUnevaluatedItem, Message: "one or more unevaluated items did not match"})
	}
}

func propertyNamesFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("propertyNames"))
	if err != nil {
		return nil, err
	}
	return &propertyNamesKeyword{sub: sub}, nil
}

type propertyNamesKeyword struct{ sub *jsonschema.Schema }

func (k *propertyNamesKeyword) Key() string            { return "propertyNames" }
func (k *propertyNamesKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *propertyNamesKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	ok := true
	for _, m := range instance.Object.Members {
		nameNode := &jsonvalue.Node{Kind: jsonvalue.KindString, String: m.Key, Path: m.Value.Path}
		child := result.ChildSchema(k.sub, m.Value.Path, "propertyNames", m.Key)
		k.sub.EvaluateInto(ctx, nameNode, child)
		if !child.Valid() {
			ok = false
		}
	}
	if !ok {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodePropertyNames, Message: "one or more property names did not match propertyNames"})
	}
}

// --- shared helpers ----------------------------------------------------------

func coveredNames(result *jsonschema.Result, keys ...string) map[string]bool {
	out := map[string]bool{}
	for _, key := range keys {
		if v, ok := result.Annotations[key]; ok {
			addNames(out, v)
		}
	}
	return out
}

func addNames(set map[string]bool, v any) {
	if names, ok := v.([]string); ok {
		for _, n := range names {
			set[n] = true
		}
	}
}

func intValue(value *jsonvalue.Node, key string) (int, error) {
	if value.Kind != jsonvalue.KindNumber {
		return 0, &jsonschema.SchemaError{At: value.Path, Msg: key + " must be an integer"}
	}
	f := value.Float
	if value.Number != "" {
		if fv, err := value.Number.Float64(); err == nil {
			f = fv
		}
	}
	return int(f), nil
}
