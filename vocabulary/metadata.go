package vocabulary

import (
	"github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/uri"
)

// Metadata2020URI and Metadata2019URI identify the metadata vocabulary:
// pure annotations that never affect validity, grounded on
// original_source/jschon/vocabulary/metadata.py.
var (
	Metadata2020URI = uri.MustParse("https://json-schema.org/draft/2020-12/vocab/meta-data")
	Metadata2019URI = uri.MustParse("https://json-schema.org/draft/2019-09/vocab/meta-data")
)

// NewMetadataVocabulary builds title/description/default/deprecated/
// readOnly/writeOnly/examples.
func NewMetadataVocabulary(u uri.URI) *jsonschema.Vocabulary {
	return jsonschema.NewVocabulary(u, map[string]jsonschema.KeywordFactory{
		"title":       annotationFactory("title"),
		"description": annotationFactory("description"),
		"default":     annotationFactory("default"),
		"deprecated":  annotationFactory("deprecated"),
		"readOnly":    annotationFactory("readOnly"),
		"writeOnly":   annotationFactory("writeOnly"),
		"examples":    annotationFactory("examples"),
	})
}

// annotationKeyword records value verbatim as an annotation under name,
// never consulting the instance.
type annotationKeyword struct {
	name  string
	value any
}

func (k *annotationKeyword) Key() string { return k.name }
func (k *annotationKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	result.Annotate(k.name, k.value)
}

func annotationFactory(name string) jsonschema.KeywordFactory {
	return func(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
		return &annotationKeyword{name: name, value: value.Value()}, nil
	}
}
