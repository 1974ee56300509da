// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package atomic implements the XML Schema atomic value algebra: the
// 18-valued sum of string/boolean/numeric/binary/QName/date-time-duration
// variants described in spec.md §3 and §4.1, with construction, casting,
// comparison, arithmetic, and canonical lexical forms.
package atomic

// Kind tags the variant of an atomic value. Integer values carry an
// additional IntSub tag rather than being split into separate Kinds, per
// spec.md §9 ("distinguish the nine integer subtypes by a side tag, not by
// separate types, to keep comparison simple").
type Kind int

const (
	KString Kind = iota
	KAnyURI
	KUntypedAtomic
	KBoolean
	KFloat
	KDouble
	KDecimal
	KInteger
	KHexBinary
	KBase64Binary
	KQName
	KNOTATION
	KDuration
	KYearMonthDuration
	KDayTimeDuration
	KDate
	KTime
	KDateTime
	KGYear
	KGYearMonth
	KGMonth
	KGMonthDay
	KGDay
)

func (k Kind) String() string {
	switch k {
	case KString:
		return "xs:string"
	case KAnyURI:
		return "xs:anyURI"
	case KUntypedAtomic:
		return "xs:untypedAtomic"
	case KBoolean:
		return "xs:boolean"
	case KFloat:
		return "xs:float"
	case KDouble:
		return "xs:double"
	case KDecimal:
		return "xs:decimal"
	case KInteger:
		return "xs:integer"
	case KHexBinary:
		return "xs:hexBinary"
	case KBase64Binary:
		return "xs:base64Binary"
	case KQName:
		return "xs:QName"
	case KNOTATION:
		return "xs:NOTATION"
	case KDuration:
		return "xs:duration"
	case KYearMonthDuration:
		return "xs:yearMonthDuration"
	case KDayTimeDuration:
		return "xs:dayTimeDuration"
	case KDate:
		return "xs:date"
	case KTime:
		return "xs:time"
	case KDateTime:
		return "xs:dateTime"
	case KGYear:
		return "xs:gYear"
	case KGYearMonth:
		return "xs:gYearMonth"
	case KGMonth:
		return "xs:gMonth"
	case KGMonthDay:
		return "xs:gMonthDay"
	case KGDay:
		return "xs:gDay"
	default:
		return "xs:?"
	}
}

// IsNumeric reports whether k is one of the four numeric kinds (float,
// double, decimal, integer — the constrained integer subtypes are all
// KInteger with an IntSub tag, so they're covered too).
func (k Kind) IsNumeric() bool {
	switch k {
	case KFloat, KDouble, KDecimal, KInteger:
		return true
	default:
		return false
	}
}

func (k Kind) IsStringLike() bool {
	switch k {
	case KString, KAnyURI, KUntypedAtomic:
		return true
	default:
		return false
	}
}

func (k Kind) IsDuration() bool {
	switch k {
	case KDuration, KYearMonthDuration, KDayTimeDuration:
		return true
	default:
		return false
	}
}

func (k Kind) IsDateOrTime() bool {
	switch k {
	case KDate, KTime, KDateTime, KGYear, KGYearMonth, KGMonth, KGMonthDay, KGDay:
		return true
	default:
		return false
	}
}

// IntSub tags which of the thirteen integer-family types an xs:integer-kind
// Value holds; SubInteger means the unconstrained xs:integer itself.
type IntSub int

const (
	SubInteger IntSub = iota
	SubLong
	SubInt
	SubShort
	SubByte
	SubNonNegativeInteger
	SubPositiveInteger
	SubNonPositiveInteger
	SubNegativeInteger
	SubUnsignedLong
	SubUnsignedInt
	SubUnsignedShort
	SubUnsignedByte
)

func (s IntSub) String() string {
	switch s {
	case SubInteger:
		return "xs:integer"
	case SubLong:
		return "xs:long"
	case SubInt:
		return "xs:int"
	case SubShort:
		return "xs:short"
	case SubByte:
		return "xs:byte"
	case SubNonNegativeInteger:
		return "xs:nonNegativeInteger"
	case SubPositiveInteger:
		return "xs:positiveInteger"
	case SubNonPositiveInteger:
		return "xs:nonPositiveInteger"
	case SubNegativeInteger:
		return "xs:negativeInteger"
	case SubUnsignedLong:
		return "xs:unsignedLong"
	case SubUnsignedInt:
		return "xs:unsignedInt"
	case SubUnsignedShort:
		return "xs:unsignedShort"
	case SubUnsignedByte:
		return "xs:unsignedByte"
	default:
		return "xs:integer"
	}
}

// bound returns the inclusive [min, max] the subtype must stay within, and
// whether the subtype is in fact bounded (xs:integer and xs:long are not
// bounded by anything this engine enforces beyond 64-or-more bits of
// big.Int headroom — they're "arbitrary precision" per the data model).
func (s IntSub) Bound() (min, max *bigIntBound, bounded bool) {
	switch s {
	case SubInt:
		return bnd(-2147483648), bnd(2147483647), true
	case SubShort:
		return bnd(-32768), bnd(32767), true
	case SubByte:
		return bnd(-128), bnd(127), true
	case SubNonNegativeInteger, SubUnsignedLong:
		return bnd(0), nil, true
	case SubPositiveInteger:
		return bnd(1), nil, true
	case SubNonPositiveInteger:
		return nil, bnd(0), true
	case SubNegativeInteger:
		return nil, bnd(-1), true
	case SubUnsignedInt:
		return bnd(0), bnd(4294967295), true
	case SubUnsignedShort:
		return bnd(0), bnd(65535), true
	case SubUnsignedByte:
		return bnd(0), bnd(255), true
	default:
		return nil, nil, false
	}
}
