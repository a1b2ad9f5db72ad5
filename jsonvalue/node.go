package jsonvalue

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/reoring/jsonschema/pointer"
)

// Kind classifies a decoded Node's JSON type.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is a single key/value pair of an Object, retaining input order.
type Member struct {
	Key   string
	Value *Node
}

// Object is an order-preserving JSON object: iterate Members for input
// order, or use Get/Index for O(1) key lookup.
type Object struct {
	Members []Member
	index   map[string]int
}

func newObject() *Object { return &Object{index: make(map[string]int)} }

// Set appends key/val, or overwrites in place if key was already seen
// (matching "the last occurrence of a duplicate key wins" — the same
// behavior encoding/json and goccy/go-json give when UseNumber-decoding
// into a map).
func (o *Object) set(key string, val *Node) {
	if i, ok := o.index[key]; ok {
		o.Members[i].Value = val
		return
	}
	o.index[key] = len(o.Members)
	o.Members = append(o.Members, Member{Key: key, Value: val})
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (*Node, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.Members[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Keys returns the member keys in input order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// Node is a decoded JSON value, ordered for objects and carrying the
// pointer path from the document root it was decoded at.
type Node struct {
	Kind    Kind
	Bool    bool
	Number  json.Number
	Float   float64 // valid when decoded with NumberFloat64
	String  string
	Array   []*Node
	Object  *Object
	Path    pointer.Pointer
	Parent  *Node
	NumMode NumberMode
}

// Value returns the Go representation used by keyword implementations that
// operate on plain "any" values: nil, bool, json.Number|float64, string,
// []*Node, or *Object.
func (n *Node) Value() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindNull:
		return nil
	case KindBool:
		return n.Bool
	case KindNumber:
		if n.NumMode == NumberFloat64 {
			return n.Float
		}
		return n.Number
	case KindString:
		return n.String
	case KindArray:
		return n.Array
	case KindObject:
		return n.Object
	default:
		return nil
	}
}

// Decode reads one JSON value from src and returns its Node tree, with
// object members in the order they appeared on the wire.
func Decode(src Source) (*Node, error) {
	return decodeAt(src, pointer.Root, nil)
}

// DecodeBytes decodes a single JSON value from data using the current
// default driver.
func DecodeBytes(data []byte) (*Node, error) {
	return Decode(JSONBytes(data))
}

// DecodeBytesWithOpt is DecodeBytes, additionally wrapping the decode with
// duplicate-key/depth/size enforcement per opt. Used wherever data comes
// from outside the process — an instance payload, a schema document fetched
// from a Source — rather than a trusted, compiled-in document.
func DecodeBytesWithOpt(data []byte, opt DecodeOpt) (*Node, error) {
	return Decode(EnforceIfNeeded(JSONBytes(data), opt))
}

func decodeAt(src Source, path pointer.Pointer, parent *Node) (*Node, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	return decodeValueAt(src, tok, path, parent)
}

func decodeValueAt(src Source, tok Token, path pointer.Pointer, parent *Node) (*Node, error) {
	switch tok.Kind {
	case TokenBeginObject:
		return decodeObjectAt(src, path, parent)
	case TokenBeginArray:
		return decodeArrayAt(src, path, parent)
	case TokenString:
		return &Node{Kind: KindString, String: tok.String, Path: path, Parent: parent}, nil
	case TokenNumber:
		n := &Node{Kind: KindNumber, Path: path, Parent: parent, NumMode: src.NumberMode()}
		if src.NumberMode() == NumberFloat64 {
			f, err := parseFloat(tok.Number)
			if err != nil {
				return nil, err
			}
			n.Float = f
		} else {
			n.Number = json.Number(tok.Number)
		}
		return n, nil
	case TokenBool:
		return &Node{Kind: KindBool, Bool: tok.Bool, Path: path, Parent: parent}, nil
	case TokenNull:
		return &Node{Kind: KindNull, Path: path, Parent: parent}, nil
	default:
		return nil, io.ErrUnexpectedEOF
	}
}

func decodeObjectAt(src Source, path pointer.Pointer, parent *Node) (*Node, error) {
	n := &Node{Kind: KindObject, Path: path, Parent: parent}
	obj := newObject()
	n.Object = obj
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEndObject {
			return n, nil
		}
		if tok.Kind != TokenKey {
			return nil, fmt.Errorf("jsonvalue: expected object key, got token kind %d", tok.Kind)
		}
		childPath := path.Field(tok.String)
		child, err := decodeAt(src, childPath, n)
		if err != nil {
			return nil, err
		}
		obj.set(tok.String, child)
	}
}

func decodeArrayAt(src Source, path pointer.Pointer, parent *Node) (*Node, error) {
	n := &Node{Kind: KindArray, Path: path, Parent: parent}
	idx := 0
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEndArray {
			return n, nil
		}
		childPath := path.Index(idx)
		child, err := decodeValueAt(src, tok, childPath, n)
		if err != nil {
			return nil, err
		}
		n.Array = append(n.Array, child)
		idx++
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// FromAny wraps a plain decoded-any tree (map[string]any / []any / scalars,
// e.g. produced outside this package by a YAML decoder) into a Node tree.
// Object member order for a map[string]any input is arbitrary — callers
// needing deterministic property order for a schema-source document should
// prefer Decode over a YAML/map round-trip.
func FromAny(v any, path pointer.Pointer, parent *Node) *Node {
	switch t := v.(type) {
	case nil:
		return &Node{Kind: KindNull, Path: path, Parent: parent}
	case bool:
		return &Node{Kind: KindBool, Bool: t, Path: path, Parent: parent}
	case json.Number:
		return &Node{Kind: KindNumber, Number: t, Path: path, Parent: parent}
	case float64:
		return &Node{Kind: KindNumber, Float: t, NumMode: NumberFloat64, Path: path, Parent: parent}
	case int:
		return &Node{Kind: KindNumber, Number: json.Number(fmt.Sprintf("%d", t)), Path: path, Parent: parent}
	case string:
		return &Node{Kind: KindString, String: t, Path: path, Parent: parent}
	case []any:
		n := &Node{Kind: KindArray, Path: path, Parent: parent}
		for i, e := range t {
			n.Array = append(n.Array, FromAny(e, path.Index(i), n))
		}
		return n
	case map[string]any:
		n := &Node{Kind: KindObject, Path: path, Parent: parent}
		obj := newObject()
		n.Object = obj
		for k, e := range t {
			obj.set(k, FromAny(e, path.Field(k), n))
		}
		return n
	default:
		return &Node{Kind: KindNull, Path: path, Parent: parent}
	}
}
