package drafts

import (
	"github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/uri"
	"github.com/reoring/jsonschema/vocabulary"
)

// Metaschema201909URI identifies the 2019-09 meta-schema.
var Metaschema201909URI = uri.MustParse("https://json-schema.org/draft/2019-09/schema")

// Register201909 installs the 2019-09 vocabularies, metaschema and embedded
// source document into cat. The applicator vocabulary is shared verbatim
// with 2020-12's (vocabulary.NewApplicatorVocabulary registers both drafts'
// "items" forms and both $ref families under one factory map — a document
// only exercises the keywords belonging to its own draft).
func Register201909(cat *jsonschema.Catalog) error {
	core := jsonschema.NewCoreVocabulary(jsonschema.Core2019URI)
	applicator := vocabulary.NewApplicatorVocabulary(vocabulary.Applicator2019URI)
	validation := vocabulary.NewValidationVocabulary(vocabulary.Validation2019URI)
	metadata := vocabulary.NewMetadataVocabulary(vocabulary.Metadata2019URI)
	content := vocabulary.NewContentVocabulary(vocabulary.Content2019URI)
	format := jsonschema.NewFormatVocabulary(uri.MustParse("https://json-schema.org/draft/2019-09/vocab/format"), false)

	for _, v := range []*jsonschema.Vocabulary{core, applicator, validation, metadata, content, format} {
		cat.CreateVocabulary(v)
	}

	meta := jsonschema.NewMetaschema(Metaschema201909URI, core, applicator, validation, metadata, content, format)
	cat.RegisterMetaschema(meta)

	return cat.AddSource(uri.MustParse("https://json-schema.org/draft/2019-09/"), jsonschema.EmbedSource{
		Docs: map[string][]byte{
			"schema": []byte(metaschema201909JSON),
		},
	})
}
