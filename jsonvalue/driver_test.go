package jsonvalue

import "testing"

func TestSetJSONDriver_Stdlib(t *testing.T) {
	SetJSONDriver(StdlibDriver())
	defer UseDefaultJSONDriver()

	if got := getDriver().Name(); got != "encoding/json" {
		t.Fatalf("got driver %q, want encoding/json", got)
	}

	n, err := DecodeBytes([]byte(`{"z":1,"a":2.5,"nested":{"ok":true}}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind != KindObject {
		t.Fatalf("got kind %v", n.Kind)
	}
	got := n.Object.Keys()
	want := []string{"z", "a", "nested"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v want %v", got, want)
		}
	}
	a, _ := n.Object.Get("a")
	if a.Number.String() != "2.5" {
		t.Fatalf("got %v, want 2.5", a.Number)
	}
}

func TestSetJSONDriver_NilIgnored(t *testing.T) {
	SetJSONDriver(StdlibDriver())
	defer UseDefaultJSONDriver()
	SetJSONDriver(nil)
	if got := getDriver().Name(); got != "encoding/json" {
		t.Fatalf("nil SetJSONDriver call changed the driver to %q", got)
	}
}

func TestUseDefaultJSONDriver_Restores(t *testing.T) {
	SetJSONDriver(StdlibDriver())
	UseDefaultJSONDriver()
	if got := getDriver().Name(); got != "go-json" {
		t.Fatalf("got driver %q, want go-json", got)
	}
}
