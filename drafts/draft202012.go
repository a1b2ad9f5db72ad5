// Package drafts wires the built-in metaschemas (2019-09 and 2020-12) into
// a Catalog: the vocabulary set each draft enables by default, an
// EmbedSource serving the metaschema documents themselves (so "$ref":
// "https://json-schema.org/draft/2020-12/schema" resolves without a
// network fetch), and the Metaschema record GetSchema/Compile consult when
// a document names one of these as its "$schema", grounded on
// original_source/jschon/catalog/_2020_12.py and _2019_09.py.
package drafts

import (
	"github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/uri"
	"github.com/reoring/jsonschema/vocabulary"
)

// Metaschema202012URI identifies the 2020-12 meta-schema.
var Metaschema202012URI = uri.MustParse("https://json-schema.org/draft/2020-12/schema")

// Register202012 installs the 2020-12 vocabularies, metaschema and embedded
// source document into cat.
func Register202012(cat *jsonschema.Catalog) error {
	core := jsonschema.NewCoreVocabulary(jsonschema.Core2020URI)
	applicator := vocabulary.NewApplicatorVocabulary(vocabulary.Applicator2020URI)
	validation := vocabulary.NewValidationVocabulary(vocabulary.Validation2020URI)
	metadata := vocabulary.NewMetadataVocabulary(vocabulary.Metadata2020URI)
	content := vocabulary.NewContentVocabulary(vocabulary.Content2020URI)
	format := jsonschema.NewFormatVocabulary(uri.MustParse("https://json-schema.org/draft/2020-12/vocab/format-annotation"), false)

	for _, v := range []*jsonschema.Vocabulary{core, applicator, validation, metadata, content, format} {
		cat.CreateVocabulary(v)
	}

	meta := jsonschema.NewMetaschema(Metaschema202012URI, core, applicator, validation, metadata, content, format)
	cat.RegisterMetaschema(meta)

	return cat.AddSource(uri.MustParse("https://json-schema.org/draft/2020-12/"), jsonschema.EmbedSource{
		Docs: map[string][]byte{
			"schema": []byte(metaschema202012JSON),
		},
	})
}
