package uri

import "testing"

func TestResolve(t *testing.T) {
	base := MustParse("https://example.com/schemas/")
	rel := MustParse("demo")
	got := rel.Resolve(base)
	if got.String() != "https://example.com/schemas/demo" {
		t.Fatalf("got %q", got.String())
	}
}

func TestWithoutFragment(t *testing.T) {
	u := MustParse("https://example.com/demo#/$defs/foo")
	base := u.WithoutFragment()
	if base.String() != "https://example.com/demo" {
		t.Fatalf("got %q", base.String())
	}
	if base.Fragment() != "" {
		t.Fatalf("expected empty fragment, got %q", base.Fragment())
	}
}

func TestIsAbsolute(t *testing.T) {
	if !MustParse("https://example.com/x").IsAbsolute() {
		t.Fatal("expected absolute")
	}
	if MustParse("x/y").IsAbsolute() {
		t.Fatal("expected relative")
	}
}

func TestValidateRequireScheme(t *testing.T) {
	u := MustParse("not-absolute")
	if err := u.Validate(ValidateOpt{RequireScheme: true}); err == nil {
		t.Fatal("expected error")
	}
}

func TestUUID4Format(t *testing.T) {
	id := UUID4()
	if len(id) != 36 {
		t.Fatalf("unexpected length %d: %q", len(id), id)
	}
	if id[14] != '4' {
		t.Fatalf("expected version nibble 4, got %q", id)
	}
}
