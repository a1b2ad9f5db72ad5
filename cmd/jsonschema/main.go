// Command jsonschema is a thin CLI over the engine: compile a schema
// document, evaluate an instance against it, and print the Result in one
// of the spec's output formats. Grounded on the teacher's cmd/goskema
// (stdlib flag, a subcommand switch, no CLI framework dependency) — the
// engine itself has no CLI-layer requirements of its own (spec.md lists the
// CLI/packaging layer as out of scope at the component level), so this
// exists purely to give the module a runnable entry point.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/uri"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `jsonschema CLI

Usage:
  jsonschema validate -schema=<file> -instance=<file> [-output=flag|basic|detailed|verbose|hierarchical] [-draft=2020-12|2019-09]`)
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "path to the schema document")
	instancePath := fs.String("instance", "", "path to the instance document")
	output := fs.String("output", "flag", "output format: flag|basic|detailed|verbose|hierarchical")
	draft := fs.String("draft", "2020-12", "default draft when the schema has no \"$schema\": 2020-12|2019-09")
	_ = fs.Parse(args)

	if *schemaPath == "" || *instancePath == "" {
		fs.Usage()
		os.Exit(2)
	}

	cat := jsonschema.NewCatalog()
	var metaURI uri.URI
	switch *draft {
	case "2019-09":
		if err := drafts.Register201909(cat); err != nil {
			fatalf("registering 2019-09 draft: %v", err)
		}
		metaURI = drafts.Metaschema201909URI
	default:
		if err := drafts.Register202012(cat); err != nil {
			fatalf("registering 2020-12 draft: %v", err)
		}
		metaURI = drafts.Metaschema202012URI
	}

	schemaBytes, err := os.ReadFile(*schemaPath)
	if err != nil {
		fatalf("reading schema: %v", err)
	}
	schemaDoc, err := jsonvalue.DecodeBytes(schemaBytes)
	if err != nil {
		fatalf("decoding schema: %v", err)
	}
	sch, err := cat.Compile(schemaDoc, jsonschema.CompileOpt{MetaschemaURI: metaURI})
	if err != nil {
		fatalf("compiling schema: %v", err)
	}

	instanceBytes, err := os.ReadFile(*instancePath)
	if err != nil {
		fatalf("reading instance: %v", err)
	}
	instanceDoc, err := jsonvalue.DecodeBytes(instanceBytes)
	if err != nil {
		fatalf("decoding instance: %v", err)
	}

	result := sch.Evaluate(instanceDoc)
	format := parseFormat(*output)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Output(format)); err != nil {
		fatalf("encoding output: %v", err)
	}
	if !result.Valid() {
		os.Exit(1)
	}
}

func parseFormat(s string) jsonschema.OutputFormat {
	switch s {
	case "basic":
		return jsonschema.FormatBasic
	case "detailed":
		return jsonschema.FormatDetailed
	case "verbose":
		return jsonschema.FormatVerbose
	case "hierarchical":
		return jsonschema.FormatHierarchical
	default:
		return jsonschema.FormatFlag
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
