// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"math/big"
	"testing"

	"github.com/mdhenderson/xpath/internal/collation"
)

func TestCompareNumericPromotion(t *testing.T) {
	intVal := NewInteger(big.NewInt(3), SubInteger)
	dblVal := NewDouble(3.0)
	eq, err := Compare(intVal, dblVal, OpEq, nil, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !eq {
		t.Errorf("expected 3 (xs:integer) eq 3.0 (xs:double)")
	}
}

func TestCompareStringsCodepoint(t *testing.T) {
	lt, err := Compare(NewString("abc"), NewString("abd"), OpLt, nil, 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !lt {
		t.Errorf("expected \"abc\" lt \"abd\"")
	}
}

func TestCompareStringsHTMLAscii(t *testing.T) {
	eq, err := Compare(NewString("ABC"), NewString("abc"), OpEq, collation.HTMLAscii(), 0)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if !eq {
		t.Errorf("expected ABC eq abc under html-ascii-case-insensitive collation")
	}
}

func TestCompareIncompatibleTypes(t *testing.T) {
	_, err := Compare(NewString("x"), NewBoolean(true), OpEq, nil, 0)
	if err == nil {
		t.Fatalf("expected XPTY0004 comparing string to boolean")
	}
}

func TestDeepEqualNaN(t *testing.T) {
	nan := NewDouble(nanFloat())
	if !DeepEqual(nan, nan, nil, 0) {
		t.Errorf("deep-equal should treat NaN as equal to itself")
	}
}

func nanFloat() float64 {
	var f float64
	return f / f
}
