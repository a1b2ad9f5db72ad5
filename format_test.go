package jsonschema_test

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
)

func TestFormat_OptInAssertion(t *testing.T) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(`{"type": "string", "format": "email"}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}

	instance, err := jsonvalue.DecodeBytes([]byte(`"not-an-email"`))
	if err != nil {
		t.Fatalf("decoding instance: %v", err)
	}

	// Format is annotation-only until a Catalog opts into assertion behavior.
	if r := sch.Evaluate(instance); !r.Valid() {
		t.Fatalf("expected valid (format not yet enabled as assertion), got %v", r.AllErrors())
	}

	cat.EnableFormats("email")
	r := sch.Evaluate(instance)
	if r.Valid() {
		t.Fatal("expected invalid once \"email\" format assertion is enabled")
	}
	found := false
	for _, issue := range r.AllErrors() {
		if issue.Code == jsonschema.CodeFormat {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a format issue, got %v", r.AllErrors())
	}
}

func TestFormat_ValidValueUnaffected(t *testing.T) {
	cat := jsonschema.NewCatalog(jsonschema.WithFormats("uuid"))
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}
	doc, err := jsonvalue.DecodeBytes([]byte(`{"type": "string", "format": "uuid"}`))
	if err != nil {
		t.Fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(doc, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}

	instance, err := jsonvalue.DecodeBytes([]byte(`"123e4567-e89b-12d3-a456-426614174000"`))
	if err != nil {
		t.Fatalf("decoding instance: %v", err)
	}
	if r := sch.Evaluate(instance); !r.Valid() {
		t.Fatalf("expected a well-formed uuid to pass, got %v", r.AllErrors())
	}
}
