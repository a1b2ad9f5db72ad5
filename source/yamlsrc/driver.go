// Package yamlsrc adapts gopkg.in/yaml.v3 into the engine's TokenSource
// interface, the same seam source/json and source/gojson fill for JSON, so
// that a Catalog can load YAML-authored schema documents (SPEC_FULL.md D2)
// without leaving the ordered jsonvalue.Node data model. yaml.v3 has no
// streaming tokenizer, so unlike the JSON drivers this one decodes the whole
// document into a *yaml.Node tree up front and replays it as a token queue —
// still order-preserving, since yaml.Node keeps mapping keys in document
// order.
package yamlsrc

import (
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	eng "github.com/reoring/jsonschema/internal/engine"
)

type source struct {
	tokens []eng.Token
	pos    int
}

// NewReader wraps r into an engine.TokenSource backed by a YAML decode.
// The document is fully buffered and decoded before the first NextToken
// call returns, so a malformed document surfaces its error there rather
// than mid-stream.
func NewReader(r io.Reader) (eng.TokenSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBytes(data)
}

// NewBytes is NewReader for an already-buffered document.
func NewBytes(b []byte) (eng.TokenSource, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("yamlsrc: %w", err)
	}
	s := &source{}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			s.tokens = []eng.Token{{Kind: eng.KindNull}}
			return s, nil
		}
		root = root.Content[0]
	}
	s.emit(root)
	return s, nil
}

func (s *source) emit(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindBeginObject})
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			val := n.Content[i+1]
			s.tokens = append(s.tokens, eng.Token{Kind: eng.KindKey, String: key.Value})
			s.emit(val)
		}
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindEndObject})
	case yaml.SequenceNode:
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindBeginArray})
		for _, c := range n.Content {
			s.emit(c)
		}
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindEndArray})
	case yaml.ScalarNode:
		s.emitScalar(n)
	case yaml.AliasNode:
		if n.Alias != nil {
			s.emit(n.Alias)
		}
	default:
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindNull})
	}
}

func (s *source) emitScalar(n *yaml.Node) {
	switch n.Tag {
	case "!!null":
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindNull})
	case "!!bool":
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindBool, Bool: n.Value == "true"})
	case "!!int", "!!float":
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindNumber, Number: n.Value})
	default:
		s.tokens = append(s.tokens, eng.Token{Kind: eng.KindString, String: n.Value})
	}
}

func (s *source) NextToken() (eng.Token, error) {
	if s.pos >= len(s.tokens) {
		return eng.Token{}, io.EOF
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

func (s *source) Location() int64 { return int64(s.pos) }
