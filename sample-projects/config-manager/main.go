// Command config-manager-sample is a worked example of the engine wired to
// a real use case the teacher itself shipped a sample for (a layered
// YAML config loader) — retargeted here from goskema's struct-binding DSL
// to schema evaluation: validate a merged YAML configuration document
// against an embedded JSON Schema instead of decoding it into a typed Go
// struct.
package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	jsonschema "github.com/reoring/jsonschema"
	"github.com/reoring/jsonschema/drafts"
	"github.com/reoring/jsonschema/jsonvalue"
	"gopkg.in/yaml.v3"
)

const configSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["app", "database", "redis", "logging", "features"],
  "properties": {
    "app": {
      "type": "object",
      "required": ["name", "version"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "version": {"type": "string"},
        "environment": {"type": "string", "default": "development"},
        "port": {"type": "integer", "minimum": 1, "maximum": 65535, "default": 8080},
        "host": {"type": "string", "default": "0.0.0.0"},
        "tls": {
          "type": "object",
          "properties": {
            "enabled": {"type": "boolean", "default": false},
            "certFile": {"type": "string", "default": ""},
            "keyFile": {"type": "string", "default": ""}
          },
          "additionalProperties": false
        },
        "cors": {
          "type": "object",
          "properties": {
            "enabled": {"type": "boolean", "default": true},
            "origins": {"type": "array", "items": {"type": "string"}, "default": ["*"]}
          },
          "additionalProperties": false
        },
        "metadata": {"type": "object", "additionalProperties": {"type": "string"}}
      },
      "additionalProperties": false
    },
    "database": {
      "type": "object",
      "required": ["host", "database", "username"],
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer", "default": 5432},
        "database": {"type": "string"},
        "username": {"type": "string"},
        "password": {"type": "string", "default": ""},
        "maxConns": {"type": "integer", "minimum": 1, "default": 10},
        "maxIdleConns": {"type": "integer", "minimum": 0, "default": 5},
        "sslMode": {"type": "string", "enum": ["disable", "prefer", "require"], "default": "prefer"}
      },
      "additionalProperties": false
    },
    "redis": {
      "type": "object",
      "properties": {
        "host": {"type": "string", "default": "localhost"},
        "port": {"type": "integer", "default": 6379},
        "database": {"type": "integer", "minimum": 0, "default": 0},
        "password": {"type": "string", "default": ""},
        "poolSize": {"type": "integer", "minimum": 1, "default": 10}
      },
      "additionalProperties": false
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"], "default": "info"},
        "format": {"type": "string", "default": "json"},
        "output": {"type": "string", "default": "stdout"}
      },
      "additionalProperties": false
    },
    "features": {
      "type": "object",
      "properties": {
        "analytics": {"type": "boolean", "default": true},
        "debugging": {"type": "boolean", "default": false}
      },
      "additionalProperties": false
    }
  }
}`

func newCatalog() (*jsonschema.Catalog, error) {
	cat := jsonschema.NewCatalog()
	if err := drafts.Register202012(cat); err != nil {
		return nil, fmt.Errorf("registering 2020-12 draft: %w", err)
	}
	return cat, nil
}

func compileConfigSchema(cat *jsonschema.Catalog) (*jsonschema.Schema, error) {
	doc, err := jsonvalue.DecodeBytes([]byte(configSchemaJSON))
	if err != nil {
		return nil, err
	}
	return cat.Compile(doc, jsonschema.CompileOpt{})
}

func loadYAMLMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = expandEnvVars(data)
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if v := os.Getenv(name); v != "" {
				return []byte(v)
			}
			return []byte(def)
		}
		return []byte(os.Getenv(expr))
	})
}

// mergeMaps overlays override onto base, recursing into nested maps and
// replacing (not appending) everything else, matching the "env file wins"
// semantics a layered config loader needs.
func mergeMaps(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if bv, ok := out[k]; ok {
			if bm, ok := bv.(map[string]any); ok {
				if om, ok := v.(map[string]any); ok {
					out[k] = mergeMaps(bm, om)
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

func loadConfig(env string) (map[string]any, error) {
	base, err := loadYAMLMap("base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}
	envPath := env + ".yaml"
	if _, err := os.Stat(envPath); err == nil {
		overlay, err := loadYAMLMap(envPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s config: %w", env, err)
		}
		return mergeMaps(base, overlay), nil
	}
	return base, nil
}

func validateConfig(sch *jsonschema.Schema, env string) (*jsonschema.Result, map[string]any, error) {
	cfg, err := loadConfig(env)
	if err != nil {
		return nil, nil, err
	}
	return sch.Evaluate(cfg), cfg, nil
}

func maskSecrets(cfg map[string]any) map[string]any {
	masked := mergeMaps(cfg, nil)
	if db, ok := masked["database"].(map[string]any); ok {
		if _, has := db["password"]; has {
			db = mergeMaps(db, map[string]any{"password": "***masked***"})
			masked["database"] = db
		}
	}
	if r, ok := masked["redis"].(map[string]any); ok {
		if _, has := r["password"]; has {
			r = mergeMaps(r, map[string]any{"password": "***masked***"})
			masked["redis"] = r
		}
	}
	return masked
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cat, err := newCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog setup failed: %v\n", err)
		os.Exit(1)
	}
	sch, err := compileConfigSchema(cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schema compile failed: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		env := envFlag()
		result, _, err := validateConfig(sch, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
			os.Exit(1)
		}
		if !result.Valid() {
			for _, issue := range result.AllErrors() {
				fmt.Printf("%s: %s (%s)\n", issue.InstanceLocation, issue.Message, issue.Code)
			}
			os.Exit(1)
		}
		fmt.Printf("configuration for environment %q is valid\n", env)

	case "show":
		env := envFlag()
		result, cfg, err := validateConfig(sch, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "show failed: %v\n", err)
			os.Exit(1)
		}
		if !result.Valid() {
			fmt.Fprintln(os.Stderr, "configuration is invalid; showing it anyway")
		}
		if !boolFlag("--no-mask") {
			cfg = maskSecrets(cfg)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("configuration for environment: %s\n", env)
		fmt.Print(string(data))

	case "schema":
		fmt.Println(configSchemaJSON)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `config-manager-sample

Usage: %s <command> [flags...]

Commands:
  validate [--env=<env>]   Validate configuration for an environment
  show [--env=<env>] [--no-mask]  Print the merged configuration
  schema                   Print the JSON Schema configs are validated against

Environment files: base.yaml (required), <env>.yaml (optional overrides)
`, os.Args[0])
}

func envFlag() string {
	for _, arg := range os.Args {
		if v, ok := strings.CutPrefix(arg, "--env="); ok {
			return v
		}
	}
	return "development"
}

func boolFlag(name string) bool {
	for _, arg := range os.Args {
		if arg == name {
			return true
		}
	}
	return false
}
