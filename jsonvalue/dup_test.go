package jsonvalue

import "testing"

func TestDetectDuplicateKeysBytes_NoDup(t *testing.T) {
	js := []byte(`{"a":1,"b":2}`)
	iss, err := DetectDuplicateKeysBytes(js, Warn, -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) != 0 {
		t.Fatalf("expected 0 issues, got %d: %v", len(iss), iss)
	}
}

func TestDetectDuplicateKeysBytes_WithDup(t *testing.T) {
	js := []byte(`{"a":1,"a":2}`)
	iss, err := DetectDuplicateKeysBytes(js, Warn, -1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(iss) == 0 {
		t.Fatalf("expected a duplicate-key issue")
	}
}
