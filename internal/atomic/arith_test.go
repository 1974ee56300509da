// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import (
	"math/big"
	"testing"

	"github.com/mdhenderson/xpath/internal/xperror"
)

func TestArithIntegerOps(t *testing.T) {
	a := NewInteger(big.NewInt(7), SubInteger)
	b := NewInteger(big.NewInt(2), SubInteger)

	tests := []struct {
		name string
		op   ArithOp
		want string
	}{
		{"add", OpAdd, "9"},
		{"sub", OpSub, "5"},
		{"mul", OpMul, "14"},
		{"idiv", OpIDiv, "3"},
		{"mod", OpMod, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Arith(a, b, tt.op)
			if err != nil {
				t.Fatalf("Arith: %v", err)
			}
			if got.StringValue() != tt.want {
				t.Errorf("Arith(7, 2, %v) = %q, want %q", tt.op, got.StringValue(), tt.want)
			}
		})
	}
}

func TestArithIntegerDivPromotesToDecimal(t *testing.T) {
	a := NewInteger(big.NewInt(1), SubInteger)
	b := NewInteger(big.NewInt(4), SubInteger)
	got, err := Arith(a, b, OpDiv)
	if err != nil {
		t.Fatalf("Arith: %v", err)
	}
	if got.Kind() != KDecimal {
		t.Fatalf("1 div 4 should be xs:decimal, got %v", got.Kind())
	}
	if got.StringValue() != "0.25" {
		t.Errorf("1 div 4 = %q, want 0.25", got.StringValue())
	}
}

func TestArithDivisionByZero(t *testing.T) {
	a := NewInteger(big.NewInt(1), SubInteger)
	zero := NewInteger(big.NewInt(0), SubInteger)
	_, err := Arith(a, zero, OpIDiv)
	if err == nil || err.Code != xperror.FOAR0001 {
		t.Fatalf("Arith(1 idiv 0) = %v, want FOAR0001", err)
	}
}

func TestArithDurationAddition(t *testing.T) {
	d1, ok := ParseDuration("P1Y2M")
	if !ok {
		t.Fatal("ParseDuration failed")
	}
	d2, ok := ParseDuration("P3M")
	if !ok {
		t.Fatal("ParseDuration failed")
	}
	got, err := Arith(NewDuration(d1), NewDuration(d2), OpAdd)
	if err != nil {
		t.Fatalf("Arith: %v", err)
	}
	if got.StringValue() != "P1Y5M" {
		t.Errorf("duration sum = %q, want P1Y5M", got.StringValue())
	}
}

func TestArithDateTimePlusDuration(t *testing.T) {
	dt, ok := ParseDateTime("2024-01-31T10:00:00")
	if !ok {
		t.Fatal("ParseDateTime failed")
	}
	dur, ok := ParseDuration("P1M")
	if !ok {
		t.Fatal("ParseDuration failed")
	}
	got, err := Arith(NewDateTime(dt), NewDuration(dur), OpAdd)
	if err != nil {
		t.Fatalf("Arith: %v", err)
	}
	// Go's time.Date normalizes Jan 31 + 1 month into Mar 2 (Feb has 29
	// days in 2024, so Feb 31 overflows by 2 days).
	if got.StringValue() != "2024-03-02T10:00:00" {
		t.Errorf("dateTime + P1M = %q, want 2024-03-02T10:00:00", got.StringValue())
	}
}
