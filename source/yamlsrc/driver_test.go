package yamlsrc

import (
	"testing"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
)

func decodeYAML(t *testing.T, data []byte) *jsonschema.Schema {
	t.Helper()
	node, err := decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		t.Fatalf("Register202012: %v", err)
	}
	sch, err := cat.Compile(node, jsonschema.CompileOpt{MetaschemaURI: drafts.Metaschema202012URI})
	if err != nil {
		t.Fatalf("compiling schema: %v", err)
	}
	return sch
}

func TestDecode_PreservesKeyOrderAndNesting(t *testing.T) {
	node, err := decode([]byte("a: 1\nb:\n  c: 2\n  d: 3\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	keys := make([]string, 0, len(node.Object.Members))
	for _, m := range node.Object.Members {
		keys = append(keys, m.Key)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected ordered keys [a b], got %v", keys)
	}
}

func TestSchema_FromYAMLDocument(t *testing.T) {
	sch := decodeYAML(t, []byte(`
type: object
required:
  - name
properties:
  name:
    type: string
  age:
    type: integer
    minimum: 0
`))

	valid, err := decode([]byte("name: alice\nage: 30\n"))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(valid); !r.Valid() {
		t.Fatalf("expected valid, got %v", r.AllErrors())
	}

	invalid, err := decode([]byte("age: -1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if r := sch.Evaluate(invalid); r.Valid() {
		t.Fatal("expected invalid: missing required \"name\" and a negative age")
	}
}

func TestBytesSource_Load(t *testing.T) {
	src := BytesSource([]byte("type: string\n"))
	doc, err := src.Load("anything")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := doc.Object.Get("type"); !ok {
		t.Fatal("expected a \"type\" member in the decoded document")
	}
}
