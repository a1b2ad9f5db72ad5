package jsonschema

import (
	"sort"

	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// Schema is a compiled schema resource or subschema: either a boolean
// shortcut ("true"/"false") or an ordered set of Keywords built from a JSON
// object, grounded on jschon's jsonschema.JSONSchema.
type Schema struct {
	catalog *Catalog
	cacheid string

	boolValue *bool // non-nil for the boolean-schema shortcut

	// uri is this schema's own absolute URI: the nearest enclosing
	// resource's base URI plus a "#/json/pointer" (or "#anchorName")
	// fragment identifying this subschema within it.
	uri uri.URI
	// baseURI is the base URI new relative references within this
	// subschema (and its descendants, until the next $id) resolve against.
	baseURI uri.URI
	path    pointer.Pointer // location from the enclosing resource root
	parent  *Schema

	metaschema *Metaschema
	node       *jsonvalue.Node

	keywords      []Keyword
	keywordsByKey map[string]Keyword

	isResourceRoot bool
	anchors        map[string]*Schema
	dynamicAnchors map[string]*Schema
}

// IsBoolean reports whether this is the boolean-schema shortcut.
func (s *Schema) IsBoolean() bool { return s.boolValue != nil }

// BoolValue returns the boolean schema's value; only meaningful if
// IsBoolean is true.
func (s *Schema) BoolValue() bool { return s.boolValue != nil && *s.boolValue }

// URI returns this schema's absolute URI.
func (s *Schema) URI() uri.URI { return s.uri }

// Catalog returns the Catalog this schema was compiled into.
func (s *Schema) Catalog() *Catalog { return s.catalog }

// Keyword looks up a compiled keyword by name.
func (s *Schema) Keyword(key string) (Keyword, bool) {
	kw, ok := s.keywordsByKey[key]
	return kw, ok
}

// CompileOpt configures Catalog.Compile.
type CompileOpt struct {
	URI           uri.URI // canonical URI of the document being compiled
	CacheID       string
	MetaschemaURI uri.URI // assumed metaschema when the document has no "$schema"
}

// Compile compiles a full schema document (the public entry point: use this
// for documents loaded directly, not reached via $ref/$dynamicRef), then
// resolves every reference recorded during compilation. For documents only
// reachable indirectly use Catalog.GetSchema, which calls this internally.
func (c *Catalog) Compile(doc *jsonvalue.Node, opt CompileOpt) (*Schema, error) {
	cacheid := opt.CacheID
	if cacheid == "" {
		cacheid = "default"
	}
	baseURI := opt.URI
	if baseURI.IsZero() {
		// A document with neither a caller-supplied URI nor its own "$id"
		// still needs a stable absolute identity for $ref/$anchor bookkeeping
		// (SPEC_FULL.md D6), the same role jschon's Catalog.create_schema
		// fills by minting a urn:uuid: URI for anonymous schemas.
		baseURI = uri.MustParse("urn:uuid:" + uri.UUID4())
	}
	sch, err := c.compileNode(doc, compileCtx{
		cacheid:       cacheid,
		baseURI:       baseURI,
		path:          pointer.Root,
		metaschemaURI: opt.MetaschemaURI,
	})
	if err != nil {
		return nil, err
	}
	if err := c.ResolveReferences(); err != nil {
		return nil, err
	}
	return sch, nil
}

type compileCtx struct {
	cacheid       string
	baseURI       uri.URI
	path          pointer.Pointer
	parent        *Schema
	resourceRoot  *Schema // nearest ancestor with isResourceRoot=true; nil only for the document root itself
	metaschemaURI uri.URI
}

func (c *Catalog) compileNode(doc *jsonvalue.Node, cc compileCtx) (*Schema, error) {
	if doc.Kind == jsonvalue.KindBool {
		b := doc.Bool
		sch := &Schema{catalog: c, cacheid: cc.cacheid, boolValue: &b, uri: cc.baseURI.WithFragment(cc.path.String()), baseURI: cc.baseURI, path: cc.path, parent: cc.parent, node: doc}
		c.registerSchema(sch)
		return sch, nil
	}
	if doc.Kind != jsonvalue.KindObject {
		return nil, &SchemaError{At: cc.path, Msg: "schema must be a JSON object or boolean"}
	}

	sch := &Schema{
		catalog:       c,
		cacheid:       cc.cacheid,
		path:          cc.path,
		parent:        cc.parent,
		node:          doc,
		keywordsByKey: map[string]Keyword{},
	}

	idURI, hasID, legacyAnchor, err := resolveID(doc, cc.baseURI)
	if err != nil {
		return nil, err
	}
	if hasID || cc.parent == nil {
		sch.isResourceRoot = true
		sch.baseURI = idURI
		sch.anchors = map[string]*Schema{}
		sch.dynamicAnchors = map[string]*Schema{}
	} else {
		sch.baseURI = cc.baseURI
	}
	sch.uri = sch.baseURI.WithFragment(cc.path.String())

	resourceRoot := cc.resourceRoot
	if sch.isResourceRoot {
		resourceRoot = sch
	}
	if legacyAnchor != "" && resourceRoot != nil {
		resourceRoot.anchors[legacyAnchor] = sch
		c.addSchema(cc.cacheid, resourceRoot.baseURI.WithFragment(legacyAnchor), sch)
	}

	meta, err := c.resolveMetaschema(doc, cc, sch.isResourceRoot)
	if err != nil {
		return nil, err
	}
	sch.metaschema = meta

	factories := meta.factories
	if vocabVal, ok := doc.Object.Get("$vocabulary"); ok && sch.isResourceRoot {
		if vocabVal.Kind == jsonvalue.KindObject {
			resolved, err := meta.resolveVocabularies(c, vocabVal.Object)
			if err != nil {
				return nil, err
			}
			factories = resolved
		}
	}

	c.registerSchema(sch)
	if sch.isResourceRoot {
		c.addSchema(cc.cacheid, sch.baseURI, sch)
	}

	if err := registerAnchors(c, doc, sch, resourceRoot); err != nil {
		return nil, err
	}

	pending := map[string]*jsonvalue.Node{}
	for _, m := range doc.Object.Members {
		if _, ok := factories[m.Key]; !ok {
			continue // unknown keyword: ignored per spec's vocabulary model
		}
		pending[m.Key] = m.Value
	}

	order, err := topoSortKeywords(pending, factories)
	if err != nil {
		return nil, err
	}

	// Subschema compilation for applicator keywords happens via
	// Schema.CompileSubschema, called from within each factory.
	for _, key := range order {
		factory := factories[key]
		value := pending[key]
		kw, err := factory(sch, value)
		if err != nil {
			return nil, err
		}
		sch.keywords = append(sch.keywords, kw)
		sch.keywordsByKey[key] = kw
	}

	return sch, nil
}

// CompileSubschema compiles value as a child of parent at the given
// property path, sharing parent's base URI/cache/resource root. Exported
// for keyword factories (applicator keywords) in the keyword subpackage.
func (parent *Schema) CompileSubschema(value *jsonvalue.Node, path pointer.Pointer) (*Schema, error) {
	resourceRoot := parent
	if !parent.isResourceRoot {
		resourceRoot = parent.nearestResourceRoot()
	}
	cc := compileCtx{
		cacheid:      parent.cacheid,
		baseURI:      parent.baseURI,
		path:         parent.path.Concat(path),
		parent:       parent,
		resourceRoot: resourceRoot,
	}
	return parent.catalog.compileNode(value, cc)
}

// atPointer returns the subschema compiled at json-pointer path p within
// s's enclosing resource, via the catalog's per-URI schema cache (every
// compiled Schema registers itself there, not only resource roots).
func (s *Schema) atPointer(p pointer.Pointer) *Schema {
	target := s.baseURI.WithFragment(p.String())
	if sch, ok := s.catalog.lookupSchema(s.cacheid, target); ok {
		return sch
	}
	return nil
}

// findAnchor looks up a "$anchor"/"$dynamicAnchor" name declared anywhere
// under s's nearest resource root.
func (s *Schema) findAnchor(name string) (*Schema, bool) {
	root := s.nearestResourceRoot()
	if root.anchors == nil {
		return nil, false
	}
	sch, ok := root.anchors[name]
	return sch, ok
}

func (s *Schema) nearestResourceRoot() *Schema {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.isResourceRoot {
			return cur
		}
	}
	return s
}

func (c *Catalog) registerSchema(sch *Schema) {
	c.addSchema(sch.cacheid, sch.uri, sch)
}

func registerAnchors(c *Catalog, doc *jsonvalue.Node, sch *Schema, resourceRoot *Schema) error {
	if resourceRoot == nil {
		return nil
	}
	if anchorVal, ok := doc.Object.Get("$anchor"); ok {
		name, _ := anchorVal.Value().(string)
		if name != "" {
			resourceRoot.anchors[name] = sch
			c.addSchema(sch.cacheid, resourceRoot.baseURI.WithFragment(name), sch)
		}
	}
	if anchorVal, ok := doc.Object.Get("$dynamicAnchor"); ok {
		name, _ := anchorVal.Value().(string)
		if name != "" {
			resourceRoot.dynamicAnchors[name] = sch
			resourceRoot.anchors[name] = sch
			c.addSchema(sch.cacheid, resourceRoot.baseURI.WithFragment(name), sch)
		}
	}
	if _, ok := doc.Object.Get("$recursiveAnchor"); ok {
		resourceRoot.dynamicAnchors[""] = sch
	}
	return nil
}

// resolveID parses a subschema's "$id". A JSON-pointer-shaped fragment
// ("#/...") is always rejected — $id never carries a pointer. A plain-name
// fragment ("#foo") is a legacy anchor form predating $anchor, which 2019-09
// still tolerates; resolveID reports it back as a legacy anchor name instead
// of failing compilation. A bare "#foo" with nothing before the fragment
// names an anchor in the enclosing resource without starting a new one, the
// same as a sibling "$anchor": "foo" would.
func resolveID(doc *jsonvalue.Node, base uri.URI) (resolved uri.URI, hasID bool, legacyAnchor string, err error) {
	idVal, ok := doc.Object.Get("$id")
	if !ok {
		return base, false, "", nil
	}
	idStr, ok := idVal.Value().(string)
	if !ok {
		return uri.URI{}, false, "", &SchemaError{Msg: "$id must be a string"}
	}
	if len(idStr) > 0 && idStr[0] == '#' {
		frag := idStr[1:]
		if len(frag) > 0 && frag[0] == '/' {
			return uri.URI{}, false, "", &SchemaError{Msg: "$id must not contain a JSON pointer fragment"}
		}
		return base, false, frag, nil
	}
	u, err := uri.Parse(idStr)
	if err != nil {
		return uri.URI{}, false, "", &SchemaError{Msg: "invalid $id", Cause: err}
	}
	frag := u.Fragment()
	if len(frag) > 0 && frag[0] == '/' {
		return uri.URI{}, false, "", &SchemaError{Msg: "$id must not contain a JSON pointer fragment"}
	}
	return u.Resolve(base).WithoutFragment(), true, frag, nil
}

func (c *Catalog) resolveMetaschema(doc *jsonvalue.Node, cc compileCtx, isRoot bool) (*Metaschema, error) {
	if schemaVal, ok := doc.Object.Get("$schema"); ok && isRoot {
		s, _ := schemaVal.Value().(string)
		u, err := uri.Parse(s)
		if err != nil {
			return nil, &SchemaError{Msg: "invalid $schema", Cause: err}
		}
		return c.GetMetaschema(u)
	}
	if !cc.metaschemaURI.IsZero() {
		return c.GetMetaschema(cc.metaschemaURI)
	}
	if cc.parent != nil && cc.parent.metaschema != nil {
		return cc.parent.metaschema, nil
	}
	return nil, &SchemaError{Msg: "no $schema declared and no default metaschema supplied"}
}

// topoSortKeywords orders the keys present in pending so that every key
// runs after everything in its DependsOn(), using Kahn's algorithm.
// Independent keys are ordered alphabetically for determinism, grounded on
// the spec's §4.3 keyword-dependency-ordering requirement.
func topoSortKeywords(pending map[string]*jsonvalue.Node, factories map[string]KeywordFactory) ([]string, error) {
	keys := make([]string, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	present := map[string]bool{}
	for _, k := range keys {
		present[k] = true
	}

	deps := map[string][]string{}
	inDegree := map[string]int{}
	for _, k := range keys {
		inDegree[k] = 0
	}
	// probeDeps needs an instance; construct zero-value keywords is not
	// possible generically, so dependency info is obtained from a
	// lightweight registry populated by each factory via DependencyHints.
	for _, k := range keys {
		for _, dep := range DependencyHints[k] {
			if present[dep] {
				deps[dep] = append(deps[dep], k)
				inDegree[k]++
			}
		}
	}

	var queue []string
	for _, k := range keys {
		if inDegree[k] == 0 {
			queue = append(queue, k)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		order = append(order, k)
		var next []string
		for _, dependent := range deps[k] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				next = append(next, dependent)
			}
		}
		sort.Strings(next)
		queue = append(queue, next...)
	}
	if len(order) != len(keys) {
		return nil, &SchemaError{Msg: "cyclic keyword dependency"}
	}
	return order, nil
}

// DependencyHints declares which keywords must evaluate before a given
// keyword, keyed by keyword name, so the compiler can topologically order
// them without instantiating a Keyword first. Populated by each vocabulary
// package's init(), grounded on jschon's Keyword.depends_on class attribute.
var DependencyHints = map[string][]string{}
