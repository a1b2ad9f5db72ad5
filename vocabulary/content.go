package vocabulary

import (
	"encoding/base64"

	"github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// Content2020URI and Content2019URI identify the content vocabulary, which
// is annotation-only in both supported drafts: contentEncoding/
// contentMediaType/contentSchema describe the string but a compliant
// implementation does not have to validate against them. This module
// validates contentEncoding when it recognizes the scheme, grounded on
// original_source/jschon/vocabulary/content.py's "decode base64, then
// leave the rest as an annotation" behavior.
var (
	Content2020URI = uri.MustParse("https://json-schema.org/draft/2020-12/vocab/content")
	Content2019URI = uri.MustParse("https://json-schema.org/draft/2019-09/vocab/content")
)

// NewContentVocabulary builds the contentEncoding/contentMediaType/
// contentSchema keywords.
func NewContentVocabulary(u uri.URI) *jsonschema.Vocabulary {
	return jsonschema.NewVocabulary(u, map[string]jsonschema.KeywordFactory{
		"contentEncoding":  contentEncodingFactory,
		"contentMediaType": contentMediaTypeFactory,
		"contentSchema":    contentSchemaFactory,
	})
}

func contentEncodingFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	s, ok := value.Value().(string)
	if !ok {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "contentEncoding must be a string"}
	}
	return &contentEncodingKeyword{name: s}, nil
}

type contentEncodingKeyword struct{ name string }

func (k *contentEncodingKeyword) Key() string            { return "contentEncoding" }
func (k *contentEncodingKeyword) InstanceTypes() []string { return []string{"string"} }
func (k *contentEncodingKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	result.Annotate("contentEncoding", k.name)
	switch k.name {
	case "base64":
		if _, err := base64.StdEncoding.DecodeString(instance.String); err != nil {
			result.Fail(jsonschema.Issue{Code: jsonschema.CodeContentEncoding, Message: "string is not valid base64", Cause: err})
		}
	default:
		// Unrecognized encodings are annotation-only, per spec's content
		// vocabulary Non-goal of not validating every IANA content-transfer
		// encoding.
	}
}

func contentMediaTypeFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	s, ok := value.Value().(string)
	if !ok {
		return nil, &jsonschema.SchemaError{At: value.Path, Msg: "contentMediaType must be a string"}
	}
	return &contentMediaTypeKeyword{name: s}, nil
}

type contentMediaTypeKeyword struct{ name string }

func (k *contentMediaTypeKeyword) Key() string            { return "contentMediaType" }
func (k *contentMediaTypeKeyword) InstanceTypes() []string { return []string{"string"} }
func (k *contentMediaTypeKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	result.Annotate("contentMediaType", k.name)
}

// contentSchemaFactory compiles contentSchema as a subschema so it
// registers in the catalog, but never evaluates it automatically:
// contentSchema only applies to the decoded content of contentEncoding,
// which this module does not attempt to decode into a second JSON document
// on the instance's behalf (matching the spec's content vocabulary
// Non-goal of not performing nested-document validation).
func contentSchemaFactory(parent *jsonschema.Schema, value *jsonvalue.Node) (jsonschema.Keyword, error) {
	sub, err := parent.CompileSubschema(value, pointer.New("contentSchema"))
	if err != nil {
		return nil, err
	}
	return &contentSchemaKeyword{schema: sub}, nil
}

type contentSchemaKeyword struct{ schema *jsonschema.Schema }

func (k *contentSchemaKeyword) Key() string            { return "contentSchema" }
func (k *contentSchemaKeyword) InstanceTypes() []string { return []string{"string"} }
func (k *contentSchemaKeyword) Evaluate(ctx *jsonschema.EvalContext, instance *jsonvalue.Node, result *jsonschema.Result) {
	result.Annotate("contentSchema", true)
}
