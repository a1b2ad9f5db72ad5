package jsonvalue

import (
	"io"

	eng "github.com/reoring/jsonschema/internal/engine"
)

// DuplicateKeyIssue reports one duplicate-key occurrence found while
// pre-scanning raw JSON, independent of schema evaluation.
type DuplicateKeyIssue struct {
	Path    string
	Code    string
	Message string
}

// DetectDuplicateKeysBytes pre-scans data for duplicate object keys without
// building a Node tree, useful for rejecting malformed schema/instance
// documents before compilation. Delegates to internal/engine, kept from
// goskema's json_dup.go.
func DetectDuplicateKeysBytes(data []byte, sev Severity, maxIssues int) ([]DuplicateKeyIssue, error) {
	si, err := eng.DetectJSONDuplicateKeysBytes(data, toEngineDup(sev), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

// DetectDuplicateKeysReader is DetectDuplicateKeysBytes for an io.Reader.
func DetectDuplicateKeysReader(r io.Reader, sev Severity, maxIssues int) ([]DuplicateKeyIssue, error) {
	si, err := eng.DetectJSONDuplicateKeysReader(r, toEngineDup(sev), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

func fromEngineIssues(si []eng.SimpleIssue) []DuplicateKeyIssue {
	var iss []DuplicateKeyIssue
	for _, s := range si {
		iss = append(iss, DuplicateKeyIssue{Path: s.Path, Code: s.Code, Message: s.Message})
	}
	return iss
}
