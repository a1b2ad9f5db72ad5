package vocabulary

import (
	"math/big"
	"regexp"
	"unicode/utf8"

	"github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/uri"
)

// Validation2020URI and Validation2019URI identify the validation
// vocabulary for each supported draft.
var (
	Validation2020URI = uri.MustParse("https://json-schema.org/draft/2020-12/vocab/validation")
	Validation2019URI = uri.MustParse("https://json-schema.org/draft/2019-09/vocab/validation")
)

// NewValidationVocabulary builds the type/enum/const/numeric/string/array/
// object assertion keywords, grounded on
// original_source/jschon/vocabulary/validation.py.
func NewValidationVocabulary(u uri.URI) *jsonschema.Vocabulary {
	return jsonschema.NewVocabulary(u, map[string]jsonschema.KeywordFactory{
		"type":              typeFactory,
		"enum":              enumFactory,
		"const":             constFactory,
		"multipleOf":        multipleOfFactory,
		"maximum":           maximumFactory,
		"exclusiveMaximum":  exclusiveMaximumFactory,
		"minimum":           minimumFactory,
		"exclusiveMinimum":  exclusiveMinimumFactory,
		"maxLength":         maxLengthFactory,
		"minLength":         minLengthFactory,
		"pattern":           patternFactory,
		"maxItems":          maxItemsFactory,
		"minItems":          minItemsFactory,
		"uniqueItems":       uniqueItemsFactory,
		"maxProperties":     maxPropertiesFactory,
		"minProperties":     minPropertiesFactory,
		"required":          requiredFactory,
		"dependentRequired": dependentRequiredFactory,
	})
}

// --- type --------------------------------------------------------------------

func typeFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	switch value.Kind {
	case jsonvalue.KindString:
		return &typeKeyword{types: []string{value.String}}, nil
	case jsonvalue.KindArray:
		types := make([]string, len(value.Array))
		for i, item := range value.Array {
			s, ok := item.Value().(string)
			if !ok {
				return nil, &jsonschema.SchemaError{At: value.Path, Msg: "type array entries must be strings"}
			}
			types[i] = s
		}
		return &typeKeyword{types: types}, nil
	default:
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "type must be a string or array of strings"}
	}
}

type typeKeyword struct{ types []string }

func (k *typeKeyword) Key() string { return "type" }
func (k *typeKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	it := instanceKindName(instance)
	for _, t := range k.types {
		if t == it || (t == "number" && it == "integer") {
			return
		}
	}
	result.Fail(jsonschema.Issue{Code: jsonschema.CodeType, Message: "value does not match the expected type", Params: map[string]any{"expected": k.types, "actual": it}})
}

func instanceKindName(n *jsonvalue.Node) string {
	switch n.Kind {
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
		if isInteger(n) {
			return "integer"
		}
		return "number"
	}
	return ""
}

func isInteger(n *jsonvalue.Node) bool {
	if n.Number != "" {
		r, ok := new(big.Rat).SetString(n.Number.String())
		if ok {
			return r.IsInt()
		}
	}
	return n.Float == float64(int64(n.Float))
}

// --- enum / const ------------------------------------------------------------

func enumFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	if value.Kind != jsonvalue.KindArray {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "enum must be an array"}
	}
	return &enumKeyword{values: value.Array}, nil
}

type enumKeyword struct{ values []*jsonvalue.Node }

func (k *enumKeyword) Key() string { return "enum" }
func (k *enumKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	for _, v := range k.values {
		if deepEqualNode(v, instance) {
			return
		}
	}
	result.Fail(jsonschema.Issue{Code: jsonschema.CodeEnum, Message: "value is not one of the enumerated values"})
}

func constFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	return &constKeyword{value: value}, nil
}

type constKeyword struct{ value *jsonvalue.Node }

func (k *constKeyword) Key() string { return "const" }
func (k *constKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	if !deepEqualNode(k.value, instance) {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeConst, Message: "value does not equal the required constant"})
	}
}

// deepEqualNode compares two decoded JSON trees by value, per JSON Schema's
// equality rule: numbers compare mathematically (not textually), object key
// order is irrelevant, array order matters.
func deepEqualNode(a, b *jsonvalue.Node) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case jsonvalue.KindNull:
		return true
	case jsonvalue.KindBool:
		return a.Bool == b.Bool
	case jsonvalue.KindString:
		return a.String == b.String
	case jsonvalue.KindNumber:
		ra, oka := numberRat(a)
		rb, okb := numberRat(b)
		if oka && okb {
			return ra.Cmp(rb) == 0
		}
		return a.Float == b.Float
	case jsonvalue.KindArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !deepEqualNode(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case jsonvalue.KindObject:
		if a.Object.Len() != b.Object.Len() {
			return false
		}
		for _, m := range a.Object.Members {
			bv, ok := b.Object.Get(m.Key)
			if !ok || !deepEqualNode(m.Value, bv) {
				return false
			}
		}
		return true
	}
	return false
}

func numberRat(n *jsonvalue.Node) (*big.Rat, bool) {
	if n.Number != "" {
		r, ok := new(big.Rat).SetString(n.Number.String())
		return r, ok
	}
	return new(big.Rat).SetFloat64(n.Float), true
}

// --- numeric assertions -------------------------------------------------------

func numericValue(value *jsonvalue.Node, key string) (*big.Rat, error) {
	if value.Kind != jsonvalue.KindNumber {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: key + " must be a number"}
	}
	if value.Number != "" {
		if r, ok := new(big.Rat).SetString(value.Number.String()); ok {
			return r, nil
		}
	}
	return new(big.Rat).SetFloat64(value.Float), nil
}

func multipleOfFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := numericValue(value, "multipleOf")
	if err != nil {
		return nil, err
	}
	if n.Sign() == 0 {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "multipleOf must not be zero"}
	}
	return &multipleOfKeyword{n: n}, nil
}

type multipleOfKeyword struct{ n *big.Rat }

func (k *multipleOfKeyword) Key() string            { return "multipleOf" }
func (k *multipleOfKeyword) InstanceTypes() []string { return []string{"number"} }
func (k *multipleOfKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	v, ok := numberRat(instance)
	if !ok {
		return
	}
	q := new(big.Rat).Quo(v, k.n)
	if !q.IsInt() {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeMultipleOf, Message: "value is not a multiple of the required divisor"})
	}
}

type cmpKeyword struct {
	key       string
	code      string
	n         *big.Rat
	exclusive bool
	greater   bool // true for minimum/exclusiveMinimum, false for maximum/exclusiveMaximum
}

func (k *cmpKeyword) Key() string            { return k.key }
func (k *cmpKeyword) InstanceTypes() []string { return []string{"number"} }
func (k *cmpKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	v, ok := numberRat(instance)
	if !ok {
		return
	}
	c := v.Cmp(k.n)
	var fail bool
	if k.greater {
		fail = c < 0 || (k.exclusive && c == 0)
	} else {
		fail = c > 0 || (k.exclusive && c == 0)
	}
	if fail {
		result.Fail(jsonschema.Issue{Code: k.code, Message: k.key + " constraint not satisfied"})
	}
}

func maximumFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := numericValue(value, "maximum")
	if err != nil {
		return nil, err
	}
	return &cmpKeyword{key: "maximum", code: jsonschema.CodeMaximum, n: n, greater: false}, nil
}

func minimumFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := numericValue(value, "minimum")
	if err != nil {
		return nil, err
	}
	return &cmpKeyword{key: "minimum", code: jsonschema.CodeMinimum, n: n, greater: true}, nil
}

func exclusiveMaximumFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := numericValue(value, "exclusiveMaximum")
	if err != nil {
		return nil, err
	}
	return &cmpKeyword{key: "exclusiveMaximum", code: jsonschema.CodeExclusiveMaximum, n: n, greater: false, exclusive: true}, nil
}

func exclusiveMinimumFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := numericValue(value, "exclusiveMinimum")
	if err != nil {
		return nil, err
	}
	return &cmpKeyword{key: "exclusiveMinimum", code: jsonschema.CodeExclusiveMinimum, n: n, greater: true, exclusive: true}, nil
}

// --- string assertions ---------------------------------------------------------

func maxLengthFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "maxLength")
	if err != nil {
		return nil, err
	}
	return &lengthKeyword{key: "maxLength", code: jsonschema.CodeMaxLength, n: n, max: true}, nil
}

func minLengthFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "minLength")
	if err != nil {
		return nil, err
	}
	return &lengthKeyword{key: "minLength", code: jsonschema.CodeMinLength, n: n, max: false}, nil
}

type lengthKeyword struct {
	key  string
	code string
	n    int
	max  bool
}

func (k *lengthKeyword) Key() string            { return k.key }
func (k *lengthKeyword) InstanceTypes() []string { return []string{"string"} }
func (k *lengthKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	n := utf8.RuneCountInString(instance.String)
	if k.max && n > k.n {
		result.Fail(jsonschema.Issue{Code: k.code, Message: "string is longer than maxLength"})
	}
	if !k.max && n < k.n {
		result.Fail(jsonschema.Issue{Code: k.code, Message: "string is shorter than minLength"})
	}
}

func patternFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	s, ok := value.Value().(string)
	if !ok {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "pattern must be a string"}
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "invalid pattern regex", Cause: err}
	}
	return &patternKeyword{re: re}, nil
}

type patternKeyword struct{ re *regexp.Regexp }

func (k *patternKeyword) Key() string            { return "pattern" }
func (k *patternKeyword) InstanceTypes() []string { return []string{"string"} }
func (k *patternKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	if !k.re.MatchString(instance.String) {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodePattern, Message: "string does not match pattern " + k.re.String()})
	}
}

// --- array assertions ----------------------------------------------------------

func maxItemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "maxItems")
	if err != nil {
		return nil, err
	}
	return &itemsCountKeyword{key: "maxItems", code: jsonschema.CodeMaxItems, n: n, max: true}, nil
}

func minItemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "minItems")
	if err != nil {
		return nil, err
	}
	return &itemsCountKeyword{key: "minItems", code: jsonschema.CodeMinItems, n: n, max: false}, nil
}

type itemsCountKeyword struct {
	key  string
	code string
	n    int
	max  bool
}

func (k *itemsCountKeyword) Key() string            { return k.key }
func (k *itemsCountKeyword) InstanceTypes() []string { return []string{"array"} }
func (k *itemsCountKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	n := len(instance.Array)
	if k.max && n > k.n {
		result.Fail(jsonschema.Issue{Code: k.code, Message: "array has more items than maxItems"})
	}
	if !k.max && n < k.n {
		result.Fail(jsonschema.Issue{Code: k.code, Message: "array has fewer items than minItems"})
	}
}

func uniqueItemsFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	b, _ := value.Value().(bool)
	return &uniqueItemsKeyword{enabled: b}, nil
}

type uniqueItemsKeyword struct{ enabled bool }

func (k *uniqueItemsKeyword) Key() string            { return "uniqueItems" }
func (k *uniqueItemsKeyword) InstanceTypes() []string { return []string{"array"} }
func (k *uniqueItemsKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	if !k.enabled {
		return
	}
	for i := 0; i < len(instance.Array); i++ {
		for j := i + 1; j < len(instance.Array); j++ {
			if deepEqualNode(instance.Array[i], instance.Array[j]) {
				result.Fail(jsonschema.Issue{Code: jsonschema.CodeUniqueItems, Message: "array items must be unique"})
				return
			}
		}
	}
}

// --- object assertions -----------------------------------------------------------

func maxPropertiesFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "maxProperties")
	if err != nil {
		return nil, err
	}
	return &propCountKeyword{key: "maxProperties", code: jsonschema.CodeMaxProperties, n: n, max: true}, nil
}

func minPropertiesFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	n, err := intValue(value, "minProperties")
	if err != nil {
		return nil, err
	}
	return &propCountKeyword{key: "minProperties", code: jsonschema.CodeMinProperties, n: n, max: false}, nil
}

type propCountKeyword struct {
	key  string
	code string
	n    int
	max  bool
}

func (k *propCountKeyword) Key() string            { return k.key }
func (k *propCountKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *propCountKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	n := instance.Object.Len()
	if k.max && n > k.n {
		result.Fail(jsonschema.Issue{Code: k.code, Message: "object has more properties than maxProperties"})
	}
	if !k.max && n < k.n {
		result.Fail(jsonschema.Issue{Code: k.code, Message: "object has fewer properties than minProperties"})
	}
}

func requiredFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	if value.Kind != jsonvalue.KindArray {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "required must be an array"}
	}
	names := make([]string, len(value.Array))
	for i, item := range value.Array {
		s, ok := item.Value().(string)
		if !ok {
			return nil, &jsonschema.SchemaError{At: value.Path, Msg: "required entries must be strings"}
		}
		names[i] = s
	}
	return &requiredKeyword{names: names}, nil
}

type requiredKeyword struct{ names []string }

func (k *requiredKeyword) Key() string            { return "required" }
func (k *requiredKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *requiredKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	var missing []string
	for _, name := range k.names {
		if !instance.Object.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeRequired, Message: "missing required properties", Params: map[string]any{"missing": missing}})
	}
}

func dependentRequiredFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	if value.Kind != jsonvalue.KindObject {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "dependentRequired must be an object"}
	}
	deps := map[string][]string{}
	for _, m := range value.Object.Members {
		if m.Value.Kind != jsonvalue.KindArray {
			return nil, &jsonschema.SchemaError{At: m.Value.Path, Msg: "dependentRequired entries must be arrays"}
		}
		names := make([]string, len(m.Value.Array))
		for i, item := range m.Value.Array {
			s, ok := item.Value().(string)
			if !ok {
				return nil, &jsonschema.SchemaError{At: m.Value.Path, Msg: "dependentRequired entries must be strings"}
			}
			names[i] = s
		}
		deps[m.Key] = names
	}
	return &dependentRequiredKeyword{deps: deps}, nil
}

type dependentRequiredKeyword struct{ deps map[string][]string }

func (k *dependentRequiredKeyword) Key() string            { return "dependentRequired" }
func (k *dependentRequiredKeyword) InstanceTypes() []string { return []string{"object"} }
func (k *dependentRequiredKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	var missing []string
	for trigger, required := range k.deps {
		if !instance.Object.Has(trigger) {
			continue
		}
		for _, name := range required {
			if !instance.Object.Has(name) {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		result.Fail(jsonschema.Issue{Code: jsonschema.CodeDependentRequired, Message: "missing properties required by dependentRequired", Params: map[string]any{"missing": missing}})
	}
}
