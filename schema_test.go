package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/uri"
)

// TestSchema_DynamicRefOutermostWins exercises the 2020-12 extensible-base
// pattern: a $dynamicRef in a shared base resource resolves against
// whichever $dynamicAnchor of the same name is declared outermost in the
// dynamic scope, not the base resource's own fallback.
func TestSchema_DynamicRefOutermostWins(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}

	err := cat.AddSource(uri.MustParse("https://example.com/"), jsonschema.EmbedSource{Docs: map[string][]byte{
		"list.json": []byte(`{
			"$schema": "https://json-schema.org/draft/2020-12/schema",
			"$id": "https://example.com/list.json",
			"type": "array",
			"items": {"$dynamicRef": "#itemSchema"},
			"$defs": {
				"itemSchema": {"$dynamicAnchor": "itemSchema", "type": "number"}
			}
		}`),
	}})
	if err != nil {
		t.Fatalf("AddSource: %v", err)
	}

	doc, err := jsonvalue.DecodeBytes([]byte(`{
		"$id": "https://example.com/root.json",
		"$ref": "list.json",
		"$defs": {
			"itemSchema": {"$dynamicAnchor": "itemSchema", "type": "string"}
		}
	}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}

	strItems, err := jsonvalue.DecodeBytes([]byte(`["a","b"]`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(strItems); !r.Valid() {
		t.Fatalf("expected valid: root's itemSchema (string) should win over list's own, got %v", r.AllErrors())
	}

	numItems, err := jsonvalue.DecodeBytes([]byte(`[1,2]`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(numItems); r.Valid() {
		t.Fatal("expected invalid: numbers don't satisfy the outermost itemSchema override (string)")
	}
}

// TestSchema_AnonymousDocumentGetsStableIdentity covers the fallback that
// mints a urn:uuid: base URI for a document with neither a caller-supplied
// URI nor its own "$id" — $ref bookkeeping within the document must still
// resolve correctly.
func TestSchema_AnonymousDocumentGetsStableIdentity(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(`{
		"$defs": {"pos": {"type": "integer", "minimum": 1}},
		"$ref": "#/$defs/pos"
	}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}
	if sch.URI().IsZero() {
		t.Fatal("expected a non-zero minted URI for an anonymous document")
	}

	good, err := jsonvalue.DecodeBytes([]byte(`5`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(good); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}

	bad, err := jsonvalue.DecodeBytes([]byte(`0`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(bad); r.Valid() {
		t.Fatal("expected invalid: 0 violates the referenced minimum")
	}
}

// TestSchema_LegacyPlainNameIDFragment covers 2019-09's tolerance for a
// plain-name fragment on a subschema "$id" (a legacy pre-"$anchor" form) —
// compilation must succeed, and the fragment must resolve like an $anchor.
func TestSchema_LegacyPlainNameIDFragment(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register201909(cat); err != nil {
		t.Fatalf("Register201909: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(`{
		"$id": "https://example.com/root.json",
		"$defs": {
			"positive": {"$id": "#positive", "type": "integer", "minimum": 1}
		},
		"$ref": "#positive"
	}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema201909URI})
	if err != nil {
		t.Fatalf("compiling schema with a plain-name $id fragment: %v", err)
	}
	if err := cat.ResolveReferences(); err != nil {
		t.Fatalf("resolving references: %v", err)
	}

	good, err := jsonvalue.DecodeBytes([]byte(`5`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(good); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}

	bad, err := jsonvalue.DecodeBytes([]byte(`0`))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(bad); r.Valid() {
		t.Fatal("expected invalid: 0 violates the referenced minimum")
	}
}

// TestSchema_IDWithPointerFragmentRejected keeps the hard-error case: "$id"
// may carry a plain-name legacy anchor fragment but never a JSON pointer.
func TestSchema_IDWithPointerFragmentRejected(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register201909(cat); err != nil {
		t.Fatalf("Register201909: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(`{
		"$id": "https://example.com/root.json#/definitions/bad",
		"type": "string"
	}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	if _, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema201909URI}); err == nil {
		t.Fatal("expected an error for a JSON-pointer-shaped $id fragment")
	}
}
