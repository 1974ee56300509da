// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package collation

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/mdhenderson/xpath/internal/xperror"
)

func TestCodepointCompare(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		wantCmp int
	}{
		{"equal", "abc", "abc", 0},
		{"less", "abc", "abd", -1},
		{"greater", "abd", "abc", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Codepoint()
			got := c.Compare(tt.a, tt.b)
			if (got < 0) != (tt.wantCmp < 0) || (got > 0) != (tt.wantCmp > 0) || (got == 0) != (tt.wantCmp == 0) {
				t.Errorf("Compare(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.wantCmp)
			}
		})
	}
}

func TestHTMLAsciiCompare(t *testing.T) {
	c := HTMLAscii()
	if !Equal(c, "ABC", "abc") {
		t.Errorf("expected ASCII-case-insensitive equality between ABC and abc")
	}
	if Equal(c, "abc", "abd") {
		t.Errorf("did not expect equality between abc and abd")
	}
}

func TestRegistryResolveFixedCollations(t *testing.T) {
	r := NewRegistry(8)
	for _, uri := range []string{CodepointURI, HTMLAsciiURI, caseblindURI} {
		if _, err := r.Resolve(uri); err != nil {
			t.Errorf("Resolve(%q) = %v, want no error", uri, err)
		}
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := NewRegistry(8)
	_, err := r.Resolve("http://example.com/nope")
	if err == nil || err.Code != xperror.FOCH0002 {
		t.Fatalf("Resolve(unknown) = %v, want FOCH0002", err)
	}
}

func TestParseQueryDefaults(t *testing.T) {
	got, err := parseQuery("lang=en")
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}
	want := defaultUCAQuery()
	want.lang = "en"
	if diff := deep.Equal(got, want); diff != nil {
		t.Errorf("parseQuery diff: %v", diff)
	}
}

func TestParseQueryFallbackYesIgnoresBadValue(t *testing.T) {
	got, err := parseQuery("lang=en;strength=nonsense")
	if err != nil {
		t.Fatalf("parseQuery: %v", err)
	}
	if got.strength != "tertiary" {
		t.Errorf("strength = %q, want default tertiary", got.strength)
	}
}

func TestParseQueryFallbackNoRejectsBadValue(t *testing.T) {
	_, err := parseQuery("lang=en;fallback=no;strength=nonsense")
	if err == nil || err.Code != xperror.FOCH0002 {
		t.Fatalf("parseQuery = %v, want FOCH0002", err)
	}
}

func TestParseQueryFallbackNoRejectsUnrecognizedKey(t *testing.T) {
	_, err := parseQuery("lang=en;fallback=no;extra=nonsense")
	if err == nil || err.Code != xperror.FOCH0002 {
		t.Fatalf("parseQuery = %v, want FOCH0002", err)
	}
}

func TestParseQueryFallbackYesIgnoresUnrecognizedKey(t *testing.T) {
	_, err := parseQuery("lang=en;fallback=yes;extra=nonsense")
	if err != nil {
		t.Fatalf("parseQuery: %v, want success", err)
	}
}

func TestRegistryResolveUCA(t *testing.T) {
	r := NewRegistry(8)
	if _, err := r.Resolve(ucaPrefix + "?lang=en"); err != nil {
		t.Fatalf("Resolve(UCA) = %v", err)
	}
	// second resolve should hit the cache and still succeed.
	if _, err := r.Resolve(ucaPrefix + "?lang=en"); err != nil {
		t.Fatalf("Resolve(UCA, cached) = %v", err)
	}
}

func TestRegistryResolveUCANoFallbackRejectsUnknownLang(t *testing.T) {
	r := NewRegistry(8)
	// an unparseable BCP-47 tag with fallback=no should fail.
	_, err := r.Resolve(ucaPrefix + "?lang=!!!;fallback=no")
	if err == nil || err.Code != xperror.FOCH0002 {
		t.Fatalf("Resolve = %v, want FOCH0002", err)
	}
}
