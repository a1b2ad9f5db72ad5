package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
)

func compile(t *testing.T, schemaJSON string) *jsonschema.Schema {
	t.Helper()
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(schemaJSON))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}
	return sch
}

func evaluate(t *testing.T, sch *jsonschema.Schema, instanceJSON string) *jsonschema.Result {
	t.Helper()
	instance, err := jsonvalue.DecodeBytes([]byte(instanceJSON))
	if err != nil {
		t.Fatalf("decoding instance: %v", err)
	}
	return sch.Evaluate(instance)
}

func TestEvaluate_TypeAndRequired(t *testing.T) {
	sch := compile(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}, "age": {"type": "integer", "minimum": 0}},
		"required": ["name"]
	}`)

	cases := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid", `{"name":"alice","age":30}`, true},
		{"missing required", `{"age":30}`, false},
		{"wrong type", `{"name":1}`, false},
		{"negative age", `{"name":"bob","age":-1}`, false},
		{"not an object", `"nope"`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := evaluate(t, sch, tc.input)
			if result.Valid() != tc.valid {
				t.Fatalf("Valid() = %v, want %v; errors=%v", result.Valid(), tc.valid, result.AllErrors())
			}
		})
	}
}

func TestEvaluate_AdditionalPropertiesFalse(t *testing.T) {
	sch := compile(t, `{
		"type": "object",
		"properties": {"id": {"type": "string"}},
		"additionalProperties": false
	}`)

	if r := evaluate(t, sch, `{"id":"x"}`); !r.Valid() {
		t.Fatalf("expected valid, got errors: %v", r.AllErrors())
	}
	r := evaluate(t, sch, `{"id":"x","extra":1}`)
	if r.Valid() {
		t.Fatal("expected invalid due to additionalProperties: false")
	}
	found := false
	for _, issue := range r.AllErrors() {
		if issue.Code == jsonschema.CodeAdditionalProperties {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an additional_properties issue, got %v", r.AllErrors())
	}
}

func TestEvaluate_Combinators(t *testing.T) {
	sch := compile(t, `{
		"allOf": [{"type": "string"}],
		"anyOf": [{"minLength": 5}, {"const": "ok"}]
	}`)

	if r := evaluate(t, sch, `"hello world"`); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}
	if r := evaluate(t, sch, `"ok"`); !r.Valid() {
		t.Fatalf("expected valid via const branch, got %v", r.AllErrors())
	}
	if r := evaluate(t, sch, `"no"`); r.Valid() {
		t.Fatal("expected invalid: too short and not the const value")
	}
	if r := evaluate(t, sch, `5`); r.Valid() {
		t.Fatal("expected invalid: allOf requires a string")
	}
}

func TestEvaluate_RefWithinDocument(t *testing.T) {
	sch := compile(t, `{
		"$defs": {"positiveInt": {"type": "integer", "minimum": 1}},
		"type": "array",
		"items": {"$ref": "#/$defs/positiveInt"}
	}`)

	if r := evaluate(t, sch, `[1,2,3]`); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}
	if r := evaluate(t, sch, `[1,-2,3]`); r.Valid() {
		t.Fatal("expected invalid: -2 violates the referenced minimum")
	}
}

func TestEvaluate_BooleanSchemas(t *testing.T) {
	trueSch := compile(t, `true`)
	if r := evaluate(t, trueSch, `{"anything":"goes"}`); !r.Valid() {
		t.Fatalf("boolean schema true should always pass, got %v", r.AllErrors())
	}

	falseSch := compile(t, `false`)
	if r := evaluate(t, falseSch, `{}`); r.Valid() {
		t.Fatal("boolean schema false should always fail")
	}
}

func TestEvaluate_UnevaluatedProperties(t *testing.T) {
	sch := compile(t, `{
		"allOf": [{"properties": {"id": {"type": "string"}}}],
		"unevaluatedProperties": false
	}`)
	if r := evaluate(t, sch, `{"id":"x"}`); !r.Valid() {
		t.Fatalf("expected valid: id was evaluated by allOf's properties, got %v", r.AllErrors())
	}
	if r := evaluate(t, sch, `{"id":"x","extra":1}`); r.Valid() {
		t.Fatal("expected invalid: extra was never evaluated by any applicator")
	}
}

func TestEvaluate_AcceptsRawJSONInputShapes(t *testing.T) {
	sch := compile(t, `{"type": "string"}`)

	if r := sch.Evaluate("\"hello\""); !r.Valid() {
		t.Fatalf("string input: expected valid, got %v", r.AllErrors())
	}
	if r := sch.Evaluate([]byte("\"hello\"")); !r.Valid() {
		t.Fatalf("[]byte input: expected valid, got %v", r.AllErrors())
	}
	if r := sch.Evaluate(42); r.Valid() {
		t.Fatal("plain Go int 42 is not a string instance")
	}
	if r := sch.Evaluate("hello"); r.Valid() {
		t.Fatal("a bare Go string value, not JSON-encoded, should fail to decode as JSON")
	}
}

func TestOutput_FlagAndBasic(t *testing.T) {
	sch := compile(t, `{"type": "object", "required": ["id"]}`)
	r := evaluate(t, sch, `{}`)

	flag := r.Output(jsonschema.FormatFlag)
	if flag["valid"] != false {
		t.Fatalf("flag output valid = %v, want false", flag["valid"])
	}

	basic := r.Output(jsonschema.FormatBasic)
	errs, ok := basic["errors"].([]map[string]any)
	if !ok || len(errs) == 0 {
		t.Fatalf("expected non-empty errors in basic output, got %#v", basic)
	}
}
