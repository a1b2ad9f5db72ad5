package jsonschema

import (
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// Keyword is the runtime implementation of one schema keyword, grounded on
// jschon's vocabulary.Keyword: a keyword class knows how to construct
// itself from a raw JSON value at compile time (via its KeywordFactory) and
// how to evaluate an instance at run time.
type Keyword interface {
	// Key is the keyword's JSON name, e.g. "properties".
	Key() string
	// Evaluate runs the keyword against instance, recording annotations and
	// errors into result. schemaLoc is this keyword's location within its
	// schema (used to build KeywordLocation on any Issue it raises).
	Evaluate(ctx *EvalContext, instance *jsonvalue.Node, result *Result)
}

// Dependent is implemented by keywords that must run only after other
// named keywords have already evaluated within the same schema object —
// e.g. unevaluatedProperties depends on properties/patternProperties/
// additionalProperties/allOf/... having recorded their annotations first.
type Dependent interface {
	DependsOn() []string
}

// TypeRestricted is implemented by keywords that only apply to specific
// instance types (returned as JSON Schema "type" names). A keyword without
// this method applies to every instance type.
type TypeRestricted interface {
	InstanceTypes() []string
}

// KeywordFactory constructs a Keyword from its raw JSON value at compile
// time. parent is the schema object the keyword belongs to, needed by
// applicator keywords to compile subschemas sharing the parent's base URI,
// catalog and cache.
type KeywordFactory func(parent *Schema, value *jsonvalue.Node) (Keyword, error)

// Vocabulary declares a named set of keyword factories, grounded on
// jschon's vocabulary.Vocabulary.
type Vocabulary struct {
	URI       uri.URI
	Factories map[string]KeywordFactory
}

// NewVocabulary builds a Vocabulary from key/factory pairs.
func NewVocabulary(u uri.URI, factories map[string]KeywordFactory) *Vocabulary {
	return &Vocabulary{URI: u, Factories: factories}
}

// Metaschema declares which vocabularies (and therefore which keyword
// factories) are available to schemas that declare it via "$schema",
// grounded on jschon's vocabulary.Metaschema.
type Metaschema struct {
	URI              uri.URI
	CoreVocabulary   *Vocabulary
	DefaultVocabs    []*Vocabulary
	FormatAssertion  bool // whether the format vocabulary is treated as assertion (2019-09) or annotation-only (2020-12 default)
	factories        map[string]KeywordFactory
}

// NewMetaschema builds a Metaschema from a core vocabulary plus the
// vocabularies enabled by default for documents that declare u as their
// "$schema". Exported for drafts/ to wire up the built-in 2019-09/2020-12
// metaschemas without needing unexported access to this package.
func NewMetaschema(u uri.URI, core *Vocabulary, defaults ...*Vocabulary) *Metaschema {
	return newMetaschema(u, core, defaults...)
}

func newMetaschema(u uri.URI, core *Vocabulary, defaults ...*Vocabulary) *Metaschema {
	m := &Metaschema{URI: u, CoreVocabulary: core, DefaultVocabs: defaults, factories: map[string]KeywordFactory{}}
	m.merge(core)
	for _, v := range defaults {
		m.merge(v)
	}
	return m
}

func (m *Metaschema) merge(v *Vocabulary) {
	if v == nil {
		return
	}
	for k, f := range v.Factories {
		m.factories[k] = f
	}
}

// resolveVocabulary applies an explicit "$vocabulary" declaration: known
// vocabulary URIs replace the default set entirely (required=true entries
// that this Catalog doesn't recognize are a compile error; the rest are
// ignored, matching jschon's core.py $Vocabulary keyword).
func (m *Metaschema) resolveVocabularies(cat *Catalog, decl *jsonvalue.Object) (map[string]KeywordFactory, error) {
	if decl == nil {
		return m.factories, nil
	}
	out := map[string]KeywordFactory{}
	out[m.CoreVocabulary.URI.String()] = nil // marker; core is always included below
	merged := map[string]KeywordFactory{}
	for k, f := range m.CoreVocabulary.Factories {
		merged[k] = f
	}
	for _, mem := range decl.Members {
		vocabURI, err := uri.Parse(mem.Key)
		if err != nil {
			return nil, &SchemaError{Msg: "invalid $vocabulary URI: " + mem.Key}
		}
		required, _ := mem.Value.Value().(bool)
		vocab, ok := cat.vocabularies[vocabURI.String()]
		if !ok {
			if required {
				return nil, &SchemaError{Msg: "unrecognized required vocabulary: " + mem.Key}
			}
			continue
		}
		for k, f := range vocab.Factories {
			merged[k] = f
		}
	}
	return merged, nil
}

// SchemaError reports a malformed schema document, corresponding to
// spec's SchemaError.
type SchemaError struct {
	At    pointer.Pointer
	Msg   string
	Cause error
}

func (e *SchemaError) Error() string {
	if e.At.Len() > 0 {
		return "schema error at " + e.At.String() + ": " + e.Msg
	}
	return "schema error: " + e.Msg
}
func (e *SchemaError) Unwrap() error { return e.Cause }
