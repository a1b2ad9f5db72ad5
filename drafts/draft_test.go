package drafts_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/uri"
)

func compileUnder(t *testing.T, register func(*jsonschema.Catalog) error, metaURI uri.URI, schemaJSON string) *jsonschema.Schema {
	t.Helper()
	cat := jsonschema.NewCatalog()
	if err := register(cat); err != nil {
		t.Fatalf("registering draft: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(schemaJSON))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: metaURI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}
	return sch
}

func TestRegister202012_BasicEvaluation(t *testing.T) {
	sch := compileUnder(t, drafts.Register202012, drafts.Metaschema202012URI, `{
		"type": "object",
		"required": ["id"],
		"properties": {"id": {"type": "string"}}
	}`)

	ok, err := jsonvalue.DecodeBytes([]byte(`{"id":"a"}`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(ok); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}

	bad, err := jsonvalue.DecodeBytes([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(bad); r.Valid() {
		t.Fatal("expected invalid: missing required \"id\"")
	}
}

func TestRegister201909_TupleTypedItems(t *testing.T) {
	sch := compileUnder(t, drafts.Register201909, drafts.Metaschema201909URI, `{
		"type": "array",
		"items": [{"type": "string"}, {"type": "integer"}],
		"additionalItems": false
	}`)

	ok, err := jsonvalue.DecodeBytes([]byte(`["a",1]`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(ok); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}

	tooLong, err := jsonvalue.DecodeBytes([]byte(`["a",1,"extra"]`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(tooLong); r.Valid() {
		t.Fatal("expected invalid: additionalItems: false rejects a third element")
	}

	wrongType, err := jsonvalue.DecodeBytes([]byte(`[1,"a"]`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(wrongType); r.Valid() {
		t.Fatal("expected invalid: positional item types swapped")
	}
}
