// Package pointer implements RFC 6901 JSON Pointer and the IETF Relative
// JSON Pointer draft, grounded on goskema's ref_pathref.go chain-building
// idiom (Field/Index/Pointer) generalized from struct-field paths to
// arbitrary JSON trees, and on jschon/jsonpointer.py for the exact
// evaluate/escape/prefix semantics.
package pointer

import (
	"fmt"
	"strconv"
	"strings"
)

// Pointer is an immutable sequence of unescaped reference tokens.
type Pointer struct {
	tokens []string
}

// Root is the empty JSON Pointer, referencing the whole document.
var Root = Pointer{}

// Parse parses an RFC 6901 string form ("", or a sequence of "/token").
func Parse(s string) (Pointer, error) {
	if s == "" {
		return Root, nil
	}
	if s[0] != '/' {
		return Pointer{}, &Error{Input: s, Msg: "must be empty or start with '/'"}
	}
	parts := strings.Split(s[1:], "/")
	tokens := make([]string, len(parts))
	for i, p := range parts {
		tokens[i] = unescape(p)
	}
	return Pointer{tokens: tokens}, nil
}

// MustParse is Parse, panicking on error.
func MustParse(s string) Pointer {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// New builds a Pointer from already-unescaped tokens.
func New(tokens ...string) Pointer {
	cp := make([]string, len(tokens))
	copy(cp, tokens)
	return Pointer{tokens: cp}
}

// Error reports a malformed pointer or an out-of-bounds Evaluate, matching
// spec's PointerError.
type Error struct {
	Input string
	Msg   string
}

func (e *Error) Error() string { return fmt.Sprintf("pointer: %s (%q)", e.Msg, e.Input) }

// Tokens returns the pointer's token sequence. The caller must not mutate
// the returned slice.
func (p Pointer) Tokens() []string { return p.tokens }

// Len returns the number of tokens.
func (p Pointer) Len() int { return len(p.tokens) }

// Field returns p with name appended as a new token — the property-access
// case of ref_pathref.go's PathRef.Field.
func (p Pointer) Field(name string) Pointer {
	return Pointer{tokens: append(append([]string{}, p.tokens...), name)}
}

// Index returns p with the array index i appended as a new token.
func (p Pointer) Index(i int) Pointer {
	return p.Field(strconv.Itoa(i))
}

// Concat returns a new Pointer with other's tokens appended after p's.
func (p Pointer) Concat(other Pointer) Pointer {
	return Pointer{tokens: append(append([]string{}, p.tokens...), other.tokens...)}
}

// Parent returns p with its last token removed. Calling Parent on Root
// panics, mirroring jschon's JSONPointer.parent raising on an empty
// pointer.
func (p Pointer) Parent() Pointer {
	if len(p.tokens) == 0 {
		panic("pointer: Parent of root pointer")
	}
	return Pointer{tokens: p.tokens[:len(p.tokens)-1]}
}

// Last returns the final token and true, or ("", false) for Root.
func (p Pointer) Last() (string, bool) {
	if len(p.tokens) == 0 {
		return "", false
	}
	return p.tokens[len(p.tokens)-1], true
}

// String renders the RFC 6901 wire form.
func (p Pointer) String() string {
	if len(p.tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range p.tokens {
		b.WriteByte('/')
		b.WriteString(escape(t))
	}
	return b.String()
}

// URIFragment renders the '#'-prefixed, percent-encoded fragment form.
func (p Pointer) URIFragment() string {
	return "#" + uriEscape(p.String())
}

// IsPrefixOf reports whether p is a prefix of other (p <= other, including
// equality), mirroring JSONPointer.__le__.
func (p Pointer) IsPrefixOf(other Pointer) bool {
	if len(p.tokens) > len(other.tokens) {
		return false
	}
	for i, t := range p.tokens {
		if other.tokens[i] != t {
			return false
		}
	}
	return true
}

// IsProperPrefixOf reports whether p is a strict prefix of other.
func (p Pointer) IsProperPrefixOf(other Pointer) bool {
	return len(p.tokens) < len(other.tokens) && p.IsPrefixOf(other)
}

// Equal reports token-wise equality.
func (p Pointer) Equal(other Pointer) bool {
	if len(p.tokens) != len(other.tokens) {
		return false
	}
	for i, t := range p.tokens {
		if other.tokens[i] != t {
			return false
		}
	}
	return true
}

// Evaluate walks doc (a tree of map[string]any / []any / scalars, as
// produced by this module's decode path) following p's tokens, returning
// *Error on a missing key or out-of-range/non-numeric array index.
func (p Pointer) Evaluate(doc any) (any, error) {
	cur := doc
	for i, tok := range p.tokens {
		switch v := cur.(type) {
		case map[string]any:
			nv, ok := v[tok]
			if !ok {
				return nil, &Error{Input: p.String(), Msg: fmt.Sprintf("no such property %q at token %d", tok, i)}
			}
			cur = nv
		case []any:
			idx, err := arrayIndex(tok, len(v))
			if err != nil {
				return nil, &Error{Input: p.String(), Msg: err.Error()}
			}
			cur = v[idx]
		default:
			return nil, &Error{Input: p.String(), Msg: fmt.Sprintf("cannot index into scalar at token %d", i)}
		}
	}
	return cur, nil
}

func arrayIndex(tok string, n int) (int, error) {
	if tok == "-" {
		return 0, fmt.Errorf("index '-' (past-the-end) is not dereferenceable")
	}
	if tok == "" || (len(tok) > 1 && tok[0] == '0') {
		return 0, fmt.Errorf("invalid array index %q", tok)
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("invalid array index %q", tok)
		}
	}
	idx, err := strconv.Atoi(tok)
	if err != nil || idx < 0 || idx >= n {
		return 0, fmt.Errorf("array index %q out of bounds (len=%d)", tok, n)
	}
	return idx, nil
}

var tokenEscaper = strings.NewReplacer("~", "~0", "/", "~1")
var tokenUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

func escape(tok string) string   { return tokenEscaper.Replace(tok) }
func unescape(tok string) string { return tokenUnescaper.Replace(tok) }

func uriEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~',
			c == '/', c == '!', c == '$', c == '&', c == '\'', c == '(', c == ')',
			c == '*', c == '+', c == ',', c == ';', c == '=', c == ':', c == '@':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
