package pointer

import "testing"

func TestParseAndString(t *testing.T) {
	cases := []string{"", "/foo", "/foo/0", "/a~1b", "/m~0n", "/"}
	for _, s := range cases {
		p, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := p.String(); got != s {
			t.Fatalf("Parse(%q).String() = %q", s, got)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	p := New("a/b", "c~d")
	s := p.String()
	if s != "/a~1b/c~0d" {
		t.Fatalf("got %q", s)
	}
	p2, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(p2) {
		t.Fatalf("round trip mismatch: %v != %v", p, p2)
	}
}

func TestEvaluate(t *testing.T) {
	doc := map[string]any{
		"foo": []any{"bar", "baz"},
		"":    0.0,
		"a/b": 1.0,
	}
	if v, err := MustParse("/foo/1").Evaluate(doc); err != nil || v != "baz" {
		t.Fatalf("got %v, %v", v, err)
	}
	if v, err := MustParse("/a~1b").Evaluate(doc); err != nil || v != 1.0 {
		t.Fatalf("got %v, %v", v, err)
	}
	if _, err := MustParse("/nope").Evaluate(doc); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := MustParse("/foo/9").Evaluate(doc); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestPrefix(t *testing.T) {
	a := MustParse("/foo")
	b := MustParse("/foo/bar")
	if !a.IsPrefixOf(b) || !a.IsProperPrefixOf(b) {
		t.Fatal("expected a to be a proper prefix of b")
	}
	if b.IsPrefixOf(a) {
		t.Fatal("b should not be a prefix of a")
	}
	if !a.IsPrefixOf(a) || a.IsProperPrefixOf(a) {
		t.Fatal("a should prefix itself, but not properly")
	}
}

func TestURIFragment(t *testing.T) {
	p := MustParse("/$defs/foo bar")
	if got, want := p.URIFragment(), "#/%24defs/foo%20bar"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestParent(t *testing.T) {
	p := MustParse("/a/b/c")
	if got := p.Parent(); got.String() != "/a/b" {
		t.Fatalf("got %q", got.String())
	}
}

func TestParseRelative(t *testing.T) {
	r, err := ParseRelative("1/foo/0")
	if err != nil {
		t.Fatal(err)
	}
	if r.Up != 1 || r.Ptr.String() != "/foo/0" {
		t.Fatalf("got %+v", r)
	}

	r, err = ParseRelative("2#")
	if err != nil {
		t.Fatal(err)
	}
	if r.Up != 2 || !r.Index {
		t.Fatalf("got %+v", r)
	}

	r, err = ParseRelative("0+1/bar")
	if err != nil {
		t.Fatal(err)
	}
	if r.Up != 0 || r.Over != 1 || r.Ptr.String() != "/bar" {
		t.Fatalf("got %+v", r)
	}
}

func TestRelativeResolveIndex(t *testing.T) {
	doc := map[string]any{
		"foo": []any{"bar", "baz"},
	}
	origin := MustParse("/foo/1")
	r, err := ParseRelative("0#")
	if err != nil {
		t.Fatal(err)
	}
	v, err := r.Resolve(origin, doc)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestRelativeResolveUpAndValue(t *testing.T) {
	doc := map[string]any{
		"foo": map[string]any{"bar": "baz"},
	}
	origin := MustParse("/foo/bar")
	r, err := ParseRelative("1/bar")
	if err != nil {
		t.Fatal(err)
	}
	v, err := r.Resolve(origin, doc)
	if err != nil {
		t.Fatal(err)
	}
	if v != "baz" {
		t.Fatalf("got %v", v)
	}
}
