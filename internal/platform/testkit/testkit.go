// Package testkit provides testing helpers
package testkit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic fails the test unless fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic fails the test if fn panics
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain fails when needle is absent; the full haystack is dumped to a temp file
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, dump(t, haystack))
	}
}

// MustNotContain is the inverse of MustContain
func MustNotContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected output to not contain %q\n\nfull output written to %s", needle, dump(t, haystack))
	}
}

// MustJSONEqual compares two JSON documents structurally
func MustJSONEqual(t *testing.T, got, want string) {
	t.Helper()
	var g, w any
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("got is not JSON: %v\n%s", err, got)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("want is not JSON: %v\n%s", err, want)
	}
	gb, _ := json.Marshal(g)
	wb, _ := json.Marshal(w)
	if !bytes.Equal(gb, wb) {
		t.Fatalf("JSON mismatch\n got: %s\nwant: %s", gb, wb)
	}
}

// MustMarshalEqual marshals got and want and compares the JSON structurally
func MustMarshalEqual(t *testing.T, got, want any) {
	t.Helper()
	gb, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("got does not marshal: %v", err)
	}
	wb, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("want does not marshal: %v", err)
	}
	MustJSONEqual(t, string(gb), string(wb))
}

func dump(t *testing.T, s string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "testkit_output.txt")
	_ = os.WriteFile(p, []byte(s), 0o600)
	return p
}
