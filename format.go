package jsonschema

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/reoring/jsonschema/jsonvalue"
	"github.com/reoring/jsonschema/pointer"
	"github.com/reoring/jsonschema/uri"
)

// FormatValidatorFunc checks a single instance value against one named format
// attribute ("date-time", "email", ...), returning a descriptive error if
// the value does not conform. Grounded on jschon's FormatKeyword +
// format-validator-function registry; no RFC3339/format-validation library
// appears anywhere in the example pack (DESIGN.md D6), so these are
// hand-written against the standard library.
type FormatValidatorFunc func(v any) error

// defaultFormatValidators is the built-in format registry; Catalog.EnableFormats
// turns individual entries on per Catalog, matching the spec's "format is
// opt-in assertion" model.
var defaultFormatValidators = map[string]FormatValidatorFunc{
	"date-time":             validateDateTime,
	"date":                  validateDate,
	"time":                  validateTime,
	"duration":              validateDuration,
	"email":                 validateEmail,
	"idn-email":             validateEmail,
	"hostname":              validateHostname,
	"idn-hostname":          validateHostname,
	"ipv4":                  validateIPv4,
	"ipv6":                  validateIPv6,
	"uri":                   validateURIAbs,
	"uri-reference":         validateURIRef,
	"iri":                   validateURIAbs,
	"iri-reference":         validateURIRef,
	"uuid":                  validateUUID,
	"uri-template":          validateURIRef,
	"json-pointer":          validateJSONPointer,
	"relative-json-pointer": validateRelativeJSONPointer,
	"regex":                 validateRegex,
}

func validateDateTime(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	_, err := time.Parse(time.RFC3339Nano, s)
	return err
}

func validateDate(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	return err
}

func validateTime(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	for _, layout := range []string{"15:04:05Z07:00", "15:04:05.999999999Z07:00"} {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return &FormatError{Format: "time", Value: s}
}

var durationPattern = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)

func validateDuration(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if s == "" || !durationPattern.MatchString(s) || s == "P" || s == "PT" {
		return &FormatError{Format: "duration", Value: s}
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateEmail(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if !emailPattern.MatchString(s) {
		return &FormatError{Format: "email", Value: s}
	}
	return nil
}

func validateHostname(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if len(s) > 253 || s == "" {
		return &FormatError{Format: "hostname", Value: s}
	}
	for _, label := range strings.Split(s, ".") {
		if label == "" || len(label) > 63 {
			return &FormatError{Format: "hostname", Value: s}
		}
	}
	return nil
}

func validateIPv4(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil || strings.Contains(s, ":") {
		return &FormatError{Format: "ipv4", Value: s}
	}
	return nil
}

func validateIPv6(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() != nil {
		return &FormatError{Format: "ipv6", Value: s}
	}
	return nil
}

func validateURIAbs(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return &FormatError{Format: "uri", Value: s}
	}
	return nil
}

func validateURIRef(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if _, err := url.Parse(s); err != nil {
		return &FormatError{Format: "uri-reference", Value: s}
	}
	return nil
}

var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

func validateUUID(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if !uuidPattern.MatchString(s) {
		return &FormatError{Format: "uuid", Value: s}
	}
	return nil
}

func validateJSONPointer(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if _, err := pointer.Parse(s); err != nil {
		return &FormatError{Format: "json-pointer", Value: s, Cause: err}
	}
	return nil
}

func validateRelativeJSONPointer(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if _, err := pointer.ParseRelative(s); err != nil {
		return &FormatError{Format: "relative-json-pointer", Value: s, Cause: err}
	}
	return nil
}

func validateRegex(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if _, err := regexp.Compile(s); err != nil {
		return &FormatError{Format: "regex", Value: s, Cause: err}
	}
	return nil
}

// FormatError reports a value that doesn't conform to a named format
// attribute.
type FormatError struct {
	Format string
	Value  string
	Cause  error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return "format " + e.Format + ": " + e.Value + ": " + e.Cause.Error()
	}
	return "format " + e.Format + ": invalid " + e.Value
}
func (e *FormatError) Unwrap() error { return e.Cause }

// NewFormatVocabulary builds the "format" vocabulary; assertion selects
// whether an unmatched format raises an Issue (2019-09's format-assertion
// semantics, also 2020-12 under "format-assertion") or only an annotation
// (2020-12's annotation-only default).
func NewFormatVocabulary(u uri.URI, assertion bool) *Vocabulary {
	return NewVocabulary(u, map[string]KeywordFactory{
		"format": func(parent *Schema, value *jsonvalue.Node) (Keyword, error) {
			name, ok := value.Value().(string)
			if !ok {
				return nil, &SchemaError{At: value.Path, Msg: "format must be a string"}
			}
			return &formatKeyword{name: name, assertion: assertion, catalog: parent.catalog}, nil
		},
	})
}

type formatKeyword struct {
	name      string
	assertion bool
	catalog   *Catalog
}

func (k *formatKeyword) Key() string { return "format" }

func (k *formatKeyword) Evaluate(ctx *EvalContext, instance *jsonvalue.Node, result *Result) {
	result.Annotate("format", k.name)
	fv, enabled := k.catalog.formatValidator(k.name)
	if !enabled {
		return
	}
	if err := fv(instance.Value()); err != nil {
		if k.assertion {
			result.Fail(Issue{Code: CodeFormat, Message: err.Error(), Cause: err, Params: map[string]any{"format": k.name}})
		}
	}
}
