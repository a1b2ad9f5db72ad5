package jsonvalue

import (
	"testing"

	"github.com/reoring/jsonschema/pointer"
)

func TestDecodePreservesObjectOrder(t *testing.T) {
	n, err := DecodeBytes([]byte(`{"z":1,"a":2,"m":3}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind != KindObject {
		t.Fatalf("got kind %v", n.Kind)
	}
	got := n.Object.Keys()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v want %v", got, want)
		}
	}
}

func TestDecodeNestedPaths(t *testing.T) {
	n, err := DecodeBytes([]byte(`{"foo":[1,2,{"bar":true}]}`))
	if err != nil {
		t.Fatal(err)
	}
	foo, ok := n.Object.Get("foo")
	if !ok {
		t.Fatal("expected foo")
	}
	if foo.Path.String() != "/foo" {
		t.Fatalf("got %q", foo.Path.String())
	}
	third := foo.Array[2]
	bar, ok := third.Object.Get("bar")
	if !ok {
		t.Fatal("expected bar")
	}
	if bar.Path.String() != "/foo/2/bar" {
		t.Fatalf("got %q", bar.Path.String())
	}
	if bar.Kind != KindBool || bar.Bool != true {
		t.Fatalf("got %+v", bar)
	}
}

func TestDuplicateKeyLastWins(t *testing.T) {
	n, err := DecodeBytes([]byte(`{"a":1,"a":2}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Object.Len() != 1 {
		t.Fatalf("expected 1 member, got %d", n.Object.Len())
	}
	v, _ := n.Object.Get("a")
	if v.Number.String() != "2" {
		t.Fatalf("got %v", v.Number)
	}
}

func TestNumberPreservesDecimalText(t *testing.T) {
	n, err := DecodeBytes([]byte(`1.10`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Number.String() != "1.10" {
		t.Fatalf("got %q", n.Number.String())
	}
}

func TestFromAnyArray(t *testing.T) {
	n := FromAny([]any{"x", "y"}, pointer.Root, nil)
	if n.Kind != KindArray || len(n.Array) != 2 {
		t.Fatalf("got %+v", n)
	}
	if n.Array[1].Path.String() != "/1" {
		t.Fatalf("got %q", n.Array[1].Path.String())
	}
}
