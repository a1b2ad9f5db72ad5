package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/uri"
)

func TestCatalog_RefAcrossDocuments(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}

	base := uri.MustParse("https://example.com/schemas/")
	err := cat.AddSource(base, jsonschema.EmbedSource{Docs: map[string][]byte{
		"positive-int.json": []byte(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"$id": "https://example.com/schemas/positive-int.json",
			"type": "integer",
			"minimum": 1
		}`),
	}})
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	doc, err := jsonvalue.DecodeBytes([]byte(`{
		"$id": "https://example.com/schemas/main.json",
		"type": "array",
		"items": {"$ref": "https://example.com/schemas/positive-int.json"}
	}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}

	valid, err := jsonvalue.DecodeBytes([]byte(`[1,2,3]`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(valid); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}

	invalid, err := jsonvalue.DecodeBytes([]byte(`[1,-2,3]`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(invalid); r.Valid() {
		t.Fatal("expected invalid: -2 fails the externally $ref'd document's minimum")
	}
}

func TestCatalog_GetSchemaByAnchor(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}

	doc, err := jsonvalue.DecodeBytes([]byte(`{
		"$id": "https://example.com/anchored.json",
		"type": "object",
		"properties": {
			"name": {"$anchor": "nameSchema", "type": "string", "minLength": 1}
		}
	}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	if _, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI}); err != nil {
		t.Fatalf("compiling schema: %v", err)
	}

	anchored, err := cat.GetSchema(uri.MustParse("https://example.com/anchored.json#nameSchema"))
	if err != nil {
		t.Fatalf("GetSchema by anchor: %v", err)
	}

	empty, err := jsonvalue.DecodeBytes([]byte(`""`))
	if err != nil {
		t.Fatal(err)
	}
	if r := anchored.Evaluate(empty); r.Valid() {
		t.Fatal("expected invalid: minLength 1 rejects an empty string")
	}
}

func TestCatalog_UnresolvedReferenceError(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(`{"$ref": "https://example.com/does-not-exist.json"}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	_, err = cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err == nil {
		t.Fatal("expected an UnresolvedReferenceError")
	}
	if _, ok := err.(*jsonschema.UnresolvedReferenceError); !ok {
		t.Fatalf("expected *UnresolvedReferenceError, got %T: %v", err, err)
	}
}
