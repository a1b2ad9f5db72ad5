package drafts

// metaschema202012JSON is a single-document simplification of the official
// draft 2020-12 meta-schema (which itself is split across per-vocabulary
// $dynamicRef'd files under https://json-schema.org/draft/2020-12/meta/*).
// It declares every vocabulary this module implements as required so a
// document that names this as its "$schema" is validated with the full
// keyword set; DESIGN.md records this as a deliberate scope reduction.
const metaschema202012JSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://json-schema.org/draft/2020-12/schema",
  "$vocabulary": {
    "https://json-schema.org/draft/2020-12/vocab/core": true,
    "https://json-schema.org/draft/2020-12/vocab/applicator": true,
    "https://json-schema.org/draft/2020-12/vocab/unevaluated": true,
    "https://json-schema.org/draft/2020-12/vocab/validation": true,
    "https://json-schema.org/draft/2020-12/vocab/meta-data": true,
    "https://json-schema.org/draft/2020-12/vocab/format-annotation": true,
    "https://json-schema.org/draft/2020-12/vocab/content": true
  },
  "$dynamicAnchor": "meta",
  "title": "Core and Validation specifications meta-schema",
  "type": ["object", "boolean"]
}`
