// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package atomic

import "testing"

func TestParseDecimalAndString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "42", "42"},
		{"negative", "-42", "-42"},
		{"fraction", "3.140", "3.14"},
		{"leadingDot", ".5", "0.5"},
		{"trailingDot", "5.", "5"},
		{"zero", "0.0", "0"},
		{"plusSign", "+7", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseDecimal(tt.input)
			if !ok {
				t.Fatalf("ParseDecimal(%q) failed to parse", tt.input)
			}
			if got := d.String(); got != tt.want {
				t.Errorf("ParseDecimal(%q).String() = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDecimalInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "-", "."} {
		if _, ok := ParseDecimal(s); ok {
			t.Errorf("ParseDecimal(%q) unexpectedly succeeded", s)
		}
	}
}

func TestDecimalArithmetic(t *testing.T) {
	a, _ := ParseDecimal("1.5")
	b, _ := ParseDecimal("2.25")
	if got := a.Add(b).String(); got != "3.75" {
		t.Errorf("Add = %q, want 3.75", got)
	}
	if got := b.Sub(a).String(); got != "0.75" {
		t.Errorf("Sub = %q, want 0.75", got)
	}
	if got := a.Mul(b).String(); got != "3.375" {
		t.Errorf("Mul = %q, want 3.375", got)
	}
}

func TestDecimalDivByZero(t *testing.T) {
	a, _ := ParseDecimal("1")
	zero, _ := ParseDecimal("0")
	if _, isZero := a.Div(zero); !isZero {
		t.Errorf("Div by zero did not report isZeroDivisor")
	}
}

func TestDecimalCmp(t *testing.T) {
	a, _ := ParseDecimal("1.50")
	b, _ := ParseDecimal("1.5")
	if a.Cmp(b) != 0 {
		t.Errorf("1.50 should compare equal to 1.5 regardless of scale")
	}
}
