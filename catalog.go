package jsonschema

import (
	"fmt"
	"sort"
	"sync"

	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// CatalogError reports a Catalog operation failure — a missing source, an
// invalid URI passed to a lookup, or a malformed metaschema — matching
// spec's CatalogError.
type CatalogError struct {
	Msg   string
	Cause error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return "catalog: " + e.Msg + ": " + e.Cause.Error()
	}
	return "catalog: " + e.Msg
}
func (e *CatalogError) Unwrap() error { return e.Cause }

// Source loads the raw JSON document for a URI-relative path, grounded on
// jschon's catalog.Source/LocalSource/RemoteSource.
type Source interface {
	Load(relativePath string) (*jsonvalue.Node, error)
}

// EmbedSource serves documents from an in-memory map, keyed by the path
// relative to the Source's registered base URI. Used to ship the built-in
// 2019-09/2020-12 metaschemas without a filesystem or network dependency, and
// by callers registering their own schema documents. DecodeOpt, left at its
// zero value for the built-in compiled-in metaschemas, applies structural
// enforcement (duplicate-key/depth/size limits) to documents that did not
// originate inside this module.
type EmbedSource struct {
	Docs      map[string][]byte
	DecodeOpt jsonvalue.DecodeOpt
}

func (s EmbedSource) Load(relativePath string) (*jsonvalue.Node, error) {
	data, ok := s.Docs[relativePath]
	if !ok {
		return nil, fmt.Errorf("no embedded document for %q", relativePath)
	}
	return jsonvalue.DecodeBytesWithOpt(data, s.DecodeOpt)
}

// FuncSource adapts a plain function to Source.
type FuncSource func(relativePath string) (*jsonvalue.Node, error)

func (f FuncSource) Load(relativePath string) (*jsonvalue.Node, error) { return f(relativePath) }

// Catalog is the schema cache and vocabulary registry that anchors schema
// compilation and $ref resolution, grounded on jschon's catalog.Catalog.
type Catalog struct {
	mu sync.RWMutex

	sources map[string]Source // base URI prefix (ending in '/') -> Source; "" is the fallback

	vocabularies map[string]*Vocabulary
	metaschemas  map[string]*Metaschema

	// schemaCache is keyed by cacheid (default "default", "__meta__" for
	// metaschemas) then by canonical URI.
	schemaCache map[string]map[string]*Schema

	// pendingRefs collects $ref/$dynamicRef/$recursiveRef targets seen
	// during compilation that could not be resolved immediately because
	// the target schema had not yet been compiled or cached. Resolution is
	// retried via ResolveReferences after the initiating GetSchema/compile
	// call returns, mirroring jschon's deferred JSONSchema.resolve().
	pendingRefs []*unresolvedRef

	enabledFormats map[string]FormatValidatorFunc

	// decodeOpt configures the structural enforcement (duplicate-key/depth/
	// size limits) applied when Schema.Evaluate decodes a raw []byte/string/
	// json.RawMessage instance. Zero value disables enforcement, matching
	// this module's historical behavior.
	decodeOpt jsonvalue.DecodeOpt
}

// refResolver is implemented by every keyword that needs a deferred,
// post-compile target lookup ($ref, $dynamicRef, $recursiveRef's static
// fallback), letting Catalog.pendingRefs stay a single queue regardless of
// which keyword kind produced the entry.
type refResolver interface {
	cacheID() string
	resolve(target *Schema)
}

type unresolvedRef struct {
	kw     refResolver
	target uri.URI
}

func (c *Catalog) addPendingRef(kw refResolver, target uri.URI) {
	c.mu.Lock()
	c.pendingRefs = append(c.pendingRefs, &unresolvedRef{kw: kw, target: target})
	c.mu.Unlock()
}

// CatalogOption configures NewCatalog, the functional-options idiom this
// module follows throughout (GetSchemaOpt, ParseOption) instead of a config
// struct with exported zero-value ambiguity.
type CatalogOption func(*Catalog)

// WithFormats pre-enables the named built-in format validators, equivalent
// to calling EnableFormats immediately after NewCatalog.
func WithFormats(names ...string) CatalogOption {
	return func(c *Catalog) { c.EnableFormats(names...) }
}

// WithSource pre-registers a Source under baseURI, equivalent to calling
// AddSource immediately after NewCatalog; panics on an invalid baseURI
// since options are only ever supplied as compile-time literals.
func WithSource(baseURI uri.URI, src Source) CatalogOption {
	return func(c *Catalog) {
		if err := c.AddSource(baseURI, src); err != nil {
			panic(err)
		}
	}
}

// WithDecodeLimits enables structural enforcement (duplicate-key/depth/size
// limits) for every instance a schema compiled from this Catalog decodes
// from raw bytes via Schema.Evaluate.
func WithDecodeLimits(opt jsonvalue.DecodeOpt) CatalogOption {
	return func(c *Catalog) { c.decodeOpt = opt }
}

// NewCatalog creates an empty Catalog with no registered sources or
// vocabularies. Callers typically follow with drafts.Register202012(cat) (or
// Register201909) to install the built-in metaschemas.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		sources:        map[string]Source{},
		vocabularies:   map[string]*Vocabulary{},
		metaschemas:    map[string]*Metaschema{},
		schemaCache:    map[string]map[string]*Schema{"default": {}, "__meta__": {}},
		enabledFormats: map[string]FormatValidatorFunc{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddSource registers a Source to serve URIs beginning with baseURI (which
// must be absolute, fragment-free, and end in "/"). A nil baseURI, i.e. the
// zero uri.URI, registers the fallback source used for any URI not matched
// by a more specific prefix.
func (c *Catalog) AddSource(baseURI uri.URI, src Source) error {
	prefix := ""
	if !baseURI.IsZero() {
		if err := baseURI.Validate(uri.ValidateOpt{RequireScheme: true, NoFragment: true}); err != nil {
			return &CatalogError{Msg: "invalid base URI", Cause: err}
		}
		s := baseURI.String()
		if len(s) == 0 || s[len(s)-1] != '/' {
			return &CatalogError{Msg: "base URI must end with '/'"}
		}
		prefix = s
	}
	c.mu.Lock()
	c.sources[prefix] = src
	c.mu.Unlock()
	return nil
}

// LoadJSON loads the document identified by uri (fragment-free) from the
// longest matching registered source prefix.
func (c *Catalog) LoadJSON(u uri.URI) (*jsonvalue.Node, error) {
	if err := u.Validate(uri.ValidateOpt{RequireScheme: true, NoFragment: true}); err != nil {
		return nil, &CatalogError{Msg: "invalid URI", Cause: err}
	}
	s := u.String()

	c.mu.RLock()
	type cand struct {
		prefix string
		src    Source
	}
	var candidates []cand
	for prefix, src := range c.sources {
		if prefix == "" {
			continue
		}
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			candidates = append(candidates, cand{prefix, src})
		}
	}
	fallback, hasFallback := c.sources[""]
	c.mu.RUnlock()

	if len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool { return len(candidates[i].prefix) > len(candidates[j].prefix) })
		best := candidates[0]
		doc, err := best.src.Load(s[len(best.prefix):])
		if err != nil {
			return nil, &CatalogError{Msg: fmt.Sprintf("loading %q", s), Cause: err}
		}
		return doc, nil
	}
	if hasFallback {
		doc, err := fallback.Load(s)
		if err != nil {
			return nil, &CatalogError{Msg: fmt.Sprintf("loading %q", s), Cause: err}
		}
		return doc, nil
	}
	return nil, &CatalogError{Msg: fmt.Sprintf("a source is not available for %q", s)}
}

// CreateVocabulary registers a Vocabulary under its own URI.
func (c *Catalog) CreateVocabulary(v *Vocabulary) *Vocabulary {
	c.mu.Lock()
	c.vocabularies[v.URI.String()] = v
	c.mu.Unlock()
	return v
}

// GetVocabulary looks up a previously registered Vocabulary.
func (c *Catalog) GetVocabulary(u uri.URI) (*Vocabulary, error) {
	c.mu.RLock()
	v, ok := c.vocabularies[u.String()]
	c.mu.RUnlock()
	if !ok {
		return nil, &CatalogError{Msg: "unrecognized vocabulary URI " + u.String()}
	}
	return v, nil
}

// RegisterMetaschema stores a fully constructed Metaschema so schemas can
// find it by "$schema" URI.
func (c *Catalog) RegisterMetaschema(m *Metaschema) {
	c.mu.Lock()
	c.metaschemas[m.URI.String()] = m
	c.mu.Unlock()
}

// GetMetaschema returns a registered Metaschema by URI.
func (c *Catalog) GetMetaschema(u uri.URI) (*Metaschema, error) {
	c.mu.RLock()
	m, ok := c.metaschemas[u.String()]
	c.mu.RUnlock()
	if !ok {
		return nil, &CatalogError{Msg: "unrecognized metaschema URI " + u.String()}
	}
	return m, nil
}

// EnableFormats turns on assertion behavior (or, for annotation-only
// drafts, simply availability) for the named format attributes.
func (c *Catalog) EnableFormats(names ...string) {
	c.mu.Lock()
	for _, n := range names {
		if fv, ok := defaultFormatValidators[n]; ok {
			c.enabledFormats[n] = fv
		}
	}
	c.mu.Unlock()
}

// DecodeOpt returns the structural enforcement limits configured via
// WithDecodeLimits, applied when Schema.Evaluate decodes a raw-bytes
// instance.
func (c *Catalog) DecodeOpt() jsonvalue.DecodeOpt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decodeOpt
}

// RegisterFormatValidator installs a custom or additional format
// validator, enabling it immediately.
func (c *Catalog) RegisterFormatValidator(name string, fv FormatValidatorFunc) {
	c.mu.Lock()
	c.enabledFormats[name] = fv
	c.mu.Unlock()
}

func (c *Catalog) formatValidator(name string) (FormatValidatorFunc, bool) {
	c.mu.RLock()
	fv, ok := c.enabledFormats[name]
	c.mu.RUnlock()
	return fv, ok
}

func (c *Catalog) addSchema(cacheid string, u uri.URI, sch *Schema) {
	c.mu.Lock()
	if c.schemaCache[cacheid] == nil {
		c.schemaCache[cacheid] = map[string]*Schema{}
	}
	c.schemaCache[cacheid][u.String()] = sch
	c.mu.Unlock()
}

func (c *Catalog) lookupSchema(cacheid string, u uri.URI) (*Schema, bool) {
	c.mu.RLock()
	sch, ok := c.schemaCache[cacheid][u.String()]
	c.mu.RUnlock()
	return sch, ok
}

// GetSchema returns the (sub)schema identified by u, compiling and caching
// it from a registered Source if not already cached. A fragment on u is
// evaluated as a JSON Pointer into the fragment-free base document once
// compiled, per RFC 6901 plain-name-free JSON Schema fragments.
func (c *Catalog) GetSchema(u uri.URI, opts ...GetSchemaOpt) (*Schema, error) {
	o := getSchemaOpt{cacheid: "default"}
	for _, apply := range opts {
		apply(&o)
	}

	if sch, ok := c.lookupSchema(o.cacheid, u); ok {
		return sch, nil
	}

	base := u.WithoutFragment()
	var root *Schema
	if sch, ok := c.lookupSchema(o.cacheid, base); ok {
		root = sch
	} else {
		doc, err := c.LoadJSON(base)
		if err != nil {
			return nil, err
		}
		root, err = c.Compile(doc, CompileOpt{URI: base, CacheID: o.cacheid, MetaschemaURI: o.metaschemaURI})
		if err != nil {
			return nil, err
		}
		if sch, ok := c.lookupSchema(o.cacheid, u); ok {
			return sch, nil
		}
	}

	frag := u.Fragment()
	if frag == "" {
		return root, nil
	}
	if len(frag) > 0 && frag[0] == '/' {
		p, err := pointer.Parse(frag)
		if err != nil {
			return nil, &CatalogError{Msg: "schema not found for " + u.String(), Cause: err}
		}
		target := root.atPointer(p)
		if target == nil {
			return nil, &CatalogError{Msg: "schema not found for " + u.String()}
		}
		return target, nil
	}
	// Plain-name fragment: an $anchor declared somewhere under root.
	if anchored, ok := root.findAnchor(frag); ok {
		return anchored, nil
	}
	return nil, &CatalogError{Msg: "schema not found for " + u.String()}
}

type getSchemaOpt struct {
	cacheid       string
	metaschemaURI uri.URI
}

// GetSchemaOpt configures GetSchema.
type GetSchemaOpt func(*getSchemaOpt)

// WithCacheID selects a non-default schema cache, mirroring jschon's
// Catalog.cache() ephemeral-cache context manager.
func WithCacheID(id string) GetSchemaOpt { return func(o *getSchemaOpt) { o.cacheid = id } }

// WithDefaultMetaschema supplies the metaschema URI to assume when the
// loaded document has no "$schema" keyword.
func WithDefaultMetaschema(u uri.URI) GetSchemaOpt {
	return func(o *getSchemaOpt) { o.metaschemaURI = u }
}

// WithEphemeralCache runs fn with a fresh, uniquely named schema cache that
// is discarded when fn returns, mirroring jschon's Catalog.cache()
// contextmanager via Go's defer instead of a Python context manager.
func (c *Catalog) WithEphemeralCache(fn func(cacheid string) error) error {
	cacheid := "ephemeral-" + uri.UUID4()
	c.mu.Lock()
	if _, exists := c.schemaCache[cacheid]; exists {
		c.mu.Unlock()
		return &CatalogError{Msg: "cache identifier is already in use"}
	}
	c.schemaCache[cacheid] = map[string]*Schema{}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.schemaCache, cacheid)
		c.mu.Unlock()
	}()
	return fn(cacheid)
}

// ResolveReferences performs the deferred fixpoint pass over every $ref,
// $dynamicRef and $recursiveRef recorded during the most recent Compile
// call, wiring each to its target Schema now that the whole document (and
// any documents it $ref's into) has been compiled and cached. Grounded on
// jschon's split between JSONSchema.__init__ and JSONSchema.resolve().
func (c *Catalog) ResolveReferences() error {
	c.mu.Lock()
	pending := c.pendingRefs
	c.pendingRefs = nil
	c.mu.Unlock()

	var unresolved []*unresolvedRef
	for _, p := range pending {
		target, err := c.GetSchema(p.target, WithCacheID(p.kw.cacheID()))
		if err != nil {
			unresolved = append(unresolved, p)
			continue
		}
		p.kw.resolve(target)
	}
	if len(unresolved) > 0 {
		msgs := make([]string, 0, len(unresolved))
		for _, u := range unresolved {
			msgs = append(msgs, u.target.String())
		}
		return &UnresolvedReferenceError{Targets: msgs}
	}
	return nil
}

// UnresolvedReferenceError reports one or more $ref/$dynamicRef targets
// that could not be found even after the deferred resolution pass,
// matching spec's UnresolvedReference.
type UnresolvedReferenceError struct {
	Targets []string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference(s): %v", e.Targets)
}
