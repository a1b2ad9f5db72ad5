// Package jsonvalue is the in-memory JSON data model that schema compilation
// and instance evaluation both operate on: an ordered tree of Node values
// decoded from a Source, preserving object key order so that property
// evaluation and annotation collection are deterministic (spec's Data Model
// §3 requires this for reproducible Result trees).
//
// The decode path is grounded on goskema's source.go/internal/engine split:
// a swappable JSONDriver produces a Source of primitive tokens, which is
// optionally wrapped with internal/engine's duplicate-key/depth/size
// enforcement before being consumed. Unlike the teacher, decodeObject here
// builds an ordered Object rather than a bare map[string]any, and the
// default driver is goccy/go-json rather than encoding/json (SPEC_FULL.md
// D1), since only go-json's json.Number-preserving decode keeps the decimal
// fidelity multipleOf needs.
package jsonvalue

import (
	"io"
	"sync"

	eng "github.com/reoring/jsonschema/internal/engine"
	drvgojson "github.com/reoring/jsonschema/source/gojson"
	drvjson "github.com/reoring/jsonschema/source/json"
)

// NumberMode dictates how JSON numbers are represented in decoded Nodes.
type NumberMode int

const (
	// NumberJSONNumber preserves the number's original decimal text via
	// json.Number, required for exact multipleOf/decimal semantics.
	NumberJSONNumber NumberMode = iota
	// NumberFloat64 decodes eagerly to float64, trading precision for speed.
	NumberFloat64
)

// Severity expresses how seriously a structural anomaly (duplicate key,
// depth/size overrun) should be treated.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures structural enforcement during decode.
type Strictness struct {
	OnDuplicateKey Severity
}

// DecodeOpt bundles decode-time limits, mirroring goskema's ParseOpt trimmed
// to the fields a schema/instance loader actually needs.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	FailFast   bool
}

// TokenKind enumerates JSON token kinds.
type TokenKind int

const (
	TokenBeginObject TokenKind = iota
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

// Token is a single primitive event from a Source.
type Token struct {
	Kind   TokenKind
	String string
	Number string
	Bool   bool
	Offset int64
}

// Source abstracts over a stream of JSON tokens, independent of which
// decoder produced them.
type Source interface {
	NextToken() (Token, error)
	NumberMode() NumberMode
	Location() int64
}

// JSONDriver converts raw JSON input into a Source. The default is
// goccy/go-json; SetJSONDriver(StdlibDriver()) switches to encoding/json.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	driverMu      sync.RWMutex
	currentDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil is ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	currentDriver = d
	driverMu.Unlock()
}

// UseDefaultJSONDriver restores the goccy/go-json-backed default driver.
func UseDefaultJSONDriver() {
	driverMu.Lock()
	currentDriver = goJSONDriver{}
	driverMu.Unlock()
}

func getDriver() JSONDriver {
	driverMu.RLock()
	d := currentDriver
	driverMu.RUnlock()
	return d
}

// goJSONDriver is the default driver, backed by goccy/go-json.
type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) Source {
	return &engineAdapter{inner: drvgojson.NewReader(r), numMode: NumberJSONNumber}
}
func (goJSONDriver) NewBytes(b []byte) Source {
	return &engineAdapter{inner: drvgojson.NewBytes(b), numMode: NumberJSONNumber}
}
func (goJSONDriver) Name() string { return "go-json" }

// stdlibDriver is the encoding/json-backed driver, selected via
// SetJSONDriver(StdlibDriver()).
type stdlibDriver struct{}

func (stdlibDriver) NewReader(r io.Reader) Source {
	return &engineAdapter{inner: drvjson.NewReader(r), numMode: NumberJSONNumber}
}
func (stdlibDriver) NewBytes(b []byte) Source {
	return &engineAdapter{inner: drvjson.NewBytes(b), numMode: NumberJSONNumber}
}
func (stdlibDriver) Name() string { return "encoding/json" }

// StdlibDriver returns the encoding/json-backed JSONDriver, for callers that
// need drop-in compatibility with a stdlib-only toolchain rather than
// goccy/go-json's speed.
func StdlibDriver() JSONDriver { return stdlibDriver{} }

// FromEngine wraps an engine.TokenSource (from either source/json or
// source/gojson) as a jsonvalue.Source.
func FromEngine(inner eng.TokenSource, mode NumberMode) Source {
	return &engineAdapter{inner: inner, numMode: mode}
}

// JSONReader wraps r using the current default driver.
func JSONReader(r io.Reader) Source { return getDriver().NewReader(r) }

// JSONBytes wraps b using the current default driver.
func JSONBytes(b []byte) Source { return getDriver().NewBytes(b) }

// Enforce wraps s with duplicate-key/depth/size structural enforcement.
func Enforce(s Source, opt DecodeOpt) Source {
	ea, ok := s.(*engineAdapter)
	if !ok {
		ea = &engineAdapter{inner: toEngineSource{s}, numMode: s.NumberMode()}
	}
	enforced := eng.WrapWithEnforcement(ea.inner, eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		FailFast:    opt.FailFast,
	})
	return &engineAdapter{inner: enforced, numMode: ea.numMode}
}

// EnforceIfNeeded is Enforce, skipped when opt has no effective limits.
func EnforceIfNeeded(s Source, opt DecodeOpt) Source {
	if opt.Strictness.OnDuplicateKey == Ignore && opt.MaxDepth == 0 && opt.MaxBytes == 0 {
		return s
	}
	return Enforce(s, opt)
}

func toEngineDup(sev Severity) eng.DuplicateStrictness {
	switch sev {
	case Warn:
		return eng.DupWarn
	case Error:
		return eng.DupError
	default:
		return eng.DupIgnore
	}
}

type engineAdapter struct {
	inner   eng.TokenSource
	numMode NumberMode
}

func (s *engineAdapter) NextToken() (Token, error) {
	t, err := s.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: fromEngineKind(t.Kind), String: t.String, Number: t.Number, Bool: t.Bool, Offset: t.Offset}, nil
}
func (s *engineAdapter) NumberMode() NumberMode { return s.numMode }
func (s *engineAdapter) Location() int64        { return s.inner.Location() }

// toEngineSource adapts a jsonvalue.Source back into an engine.TokenSource,
// used only when Enforce is called on a Source not already backed by one
// (e.g. a custom driver implementation).
type toEngineSource struct{ s Source }

func (t toEngineSource) NextToken() (eng.Token, error) {
	tok, err := t.s.NextToken()
	if err != nil {
		return eng.Token{}, err
	}
	return eng.Token{Kind: toEngineKind(tok.Kind), String: tok.String, Number: tok.Number, Bool: tok.Bool, Offset: tok.Offset}, nil
}
func (t toEngineSource) Location() int64 { return t.s.Location() }

func fromEngineKind(k eng.Kind) TokenKind {
	switch k {
	case eng.KindBeginObject:
		return TokenBeginObject
	case eng.KindEndObject:
		return TokenEndObject
	case eng.KindBeginArray:
		return TokenBeginArray
	case eng.KindEndArray:
		return TokenEndArray
	case eng.KindKey:
		return TokenKey
	case eng.KindString:
		return TokenString
	case eng.KindNumber:
		return TokenNumber
	case eng.KindBool:
		return TokenBool
	default:
		return TokenNull
	}
}

func toEngineKind(k TokenKind) eng.Kind {
	switch k {
	case TokenBeginObject:
		return eng.KindBeginObject
	case TokenEndObject:
		return eng.KindEndObject
	case TokenBeginArray:
		return eng.KindBeginArray
	case TokenEndArray:
		return eng.KindEndArray
	case TokenKey:
		return eng.KindKey
	case TokenString:
		return eng.KindString
	case TokenNumber:
		return eng.KindNumber
	case TokenBool:
		return eng.KindBool
	default:
		return eng.KindNull
	}
}
