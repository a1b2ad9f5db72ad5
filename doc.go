// Package jsonschema implements a JSON Schema evaluator for drafts 2019-09
// and 2020-12: a Catalog that compiles schema documents into a Schema
// keyword tree, and Schema.Evaluate that walks an instance against it to
// produce a Result annotation/error tree renderable as flag, basic,
// detailed, verbose, or hierarchical output.
//
// Design policy, carried over from goskema's doc.go:
//   - Keep only public APIs in the root package; put decode/enforcement
//     internals under internal/.
//   - Place the JSON data model under jsonvalue/, JSON Pointer under
//     pointer/, URI handling under uri/, keyword implementations under
//     keyword/, and embedded metaschemas under drafts/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	cat := jsonschema.NewCatalog()
//	drafts.Register202012(cat)
//	sch, err := cat.GetSchema(uri.MustParse("https://example.com/schemas/person"))
//	result := sch.Evaluate(instance)
//	out, err := jsonschema.Format(result, jsonschema.OutputBasic)
package jsonschema
