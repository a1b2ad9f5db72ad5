package compare_test

import (
	"bytes"
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
	jschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Minimal schema that requires id:string; unknowns allowed.
const jsonSchemaUser = `{
  "type": "object",
  "properties": {"id": {"type": "string"}},
  "required": ["id"],
  "additionalProperties": true
}`

func compileOwn(tb testing.TB) *jsonschema.Schema {
	tb.Helper()
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		tb.Fatalf("registering draft: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(jsonSchemaUser))
	if err != nil {
		tb.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		tb.Fatalf("compiling schema: %v", err)
	}
	return sch
}

// Benchmark_Evaluate_jsonschema_v5_Small measures santhosh-tekuri/jsonschema/v5's
// Validate on a small object, decoding with encoding/json as that engine requires.
func Benchmark_Evaluate_jsonschema_v5_Small(b *testing.B) {
	comp := jschema.MustCompileString("mem:user", jsonSchemaUser)
	data := []byte(`{"id":"u_1","name":"alice"}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v, err := jschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		if err := comp.Validate(v); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark_Evaluate_own_Small measures this module's decode-then-Evaluate path
// on the same schema and payload.
func Benchmark_Evaluate_own_Small(b *testing.B) {
	sch := compileOwn(b)
	data := []byte(`{"id":"u_1","name":"alice"}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		instance, err := jsonvalue.DecodeBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if result := sch.Evaluate(instance); !result.Valid() {
			b.Fatal(result.AllErrors())
		}
	}
}

// Benchmark_Evaluate_own_Invalid measures the error-collection path: a payload
// missing the required field, so every iteration walks the failure branch.
func Benchmark_Evaluate_own_Invalid(b *testing.B) {
	sch := compileOwn(b)
	data := []byte(`{"name":"alice"}`)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		instance, err := jsonvalue.DecodeBytes(data)
		if err != nil {
			b.Fatal(err)
		}
		if result := sch.Evaluate(instance); result.Valid() {
			b.Fatal("expected invalid")
		}
	}
}
