package pointer

import (
	"fmt"
	"strconv"
	"strings"
)

// Relative is a Relative JSON Pointer: an up-levels count, an optional
// index-manipulation ("over"), and a trailing plain Pointer or '#' (ref to
// the referenced key/index itself rather than its value). Grounded on
// jschon's RelativeJSONPointer, supplemented here per SPEC_FULL.md (not
// present in spec.md's base scope, which only required the absolute form).
type Relative struct {
	Up    int
	Over  int
	Index bool // true if the pointer ends in '#' rather than a Pointer
	Ptr   Pointer
}

// ParseRelative parses the grammar: 1*DIGIT ["#" / ("+"/"-") 1*DIGIT] json-pointer
// e.g. "0", "1/foo/0", "2#", "0+1/bar".
func ParseRelative(s string) (Relative, error) {
	if s == "" {
		return Relative{}, &Error{Input: s, Msg: "relative pointer must not be empty"}
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Relative{}, &Error{Input: s, Msg: "relative pointer must start with a non-negative integer"}
	}
	up, err := strconv.Atoi(s[:i])
	if err != nil {
		return Relative{}, &Error{Input: s, Msg: "invalid up-level count"}
	}
	rest := s[i:]

	over := 0
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		j := 1
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		if j == 1 {
			return Relative{}, &Error{Input: s, Msg: "expected digits after sign in index manipulation"}
		}
		n, err := strconv.Atoi(rest[:j])
		if err != nil {
			return Relative{}, &Error{Input: s, Msg: "invalid index manipulation"}
		}
		over = n
		rest = rest[j:]
	}

	if rest == "#" {
		return Relative{Up: up, Over: over, Index: true}, nil
	}
	ptr, err := Parse(rest)
	if err != nil {
		return Relative{}, &Error{Input: s, Msg: fmt.Sprintf("invalid trailing json-pointer: %v", err)}
	}
	return Relative{Up: up, Over: over, Ptr: ptr}, nil
}

// String renders the wire form.
func (r Relative) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", r.Up)
	if r.Over != 0 {
		if r.Over > 0 {
			fmt.Fprintf(&b, "+%d", r.Over)
		} else {
			fmt.Fprintf(&b, "%d", r.Over)
		}
	}
	if r.Index {
		b.WriteByte('#')
	} else {
		b.WriteString(r.Ptr.String())
	}
	return b.String()
}

// Resolve evaluates r relative to origin (the pointer to the instance the
// relative pointer is written against) and doc (the root document),
// returning either the indicated value, or — when r.Index is set — the
// originating object key (string) or array index (int).
func (r Relative) Resolve(origin Pointer, doc any) (any, error) {
	if r.Up > origin.Len() {
		return nil, &Error{Input: r.String(), Msg: "up-level count exceeds origin depth"}
	}
	base := Pointer{tokens: origin.tokens[:origin.Len()-r.Up]}

	if r.Over != 0 {
		tok, ok := base.Last()
		if !ok {
			return nil, &Error{Input: r.String(), Msg: "index manipulation requires a non-root base"}
		}
		idx, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &Error{Input: r.String(), Msg: "index manipulation requires an array-index base"}
		}
		base = base.Parent().Index(idx + r.Over)
	}

	if r.Index {
		tok, ok := base.Last()
		if !ok {
			return nil, &Error{Input: r.String(), Msg: "'#' requires a non-root base"}
		}
		if n, err := strconv.Atoi(tok); err == nil {
			return n, nil
		}
		return tok, nil
	}

	full := Pointer{tokens: append(append([]string{}, base.tokens...), r.Ptr.tokens...)}
	return full.Evaluate(doc)
}
