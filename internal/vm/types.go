// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package vm

import (
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xpast"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

// castTargetEntry is one row of the xs: atomic type name table instance-of,
// cast, and castable all key off. This table (not a type hierarchy lookup)
// is the one place that maps a parsed EQName back to an atomic.Kind/IntSub
// pair — it's deliberately flat: an xs:int value is instance-of xs:int and
// of xs:integer (every integer subtype matches xs:integer), but not of
// xs:long or xs:decimal.
type castTargetEntry struct {
	kind atomic.Kind
	sub  atomic.IntSub
}

var xsAtomicTypes = map[string]castTargetEntry{
	"string":             {atomic.KString, 0},
	"anyURI":             {atomic.KAnyURI, 0},
	"untypedAtomic":      {atomic.KUntypedAtomic, 0},
	"boolean":            {atomic.KBoolean, 0},
	"float":              {atomic.KFloat, 0},
	"double":             {atomic.KDouble, 0},
	"decimal":            {atomic.KDecimal, 0},
	"integer":            {atomic.KInteger, atomic.SubInteger},
	"long":               {atomic.KInteger, atomic.SubLong},
	"int":                {atomic.KInteger, atomic.SubInt},
	"short":              {atomic.KInteger, atomic.SubShort},
	"byte":               {atomic.KInteger, atomic.SubByte},
	"nonNegativeInteger":  {atomic.KInteger, atomic.SubNonNegativeInteger},
	"positiveInteger":     {atomic.KInteger, atomic.SubPositiveInteger},
	"nonPositiveInteger":  {atomic.KInteger, atomic.SubNonPositiveInteger},
	"negativeInteger":     {atomic.KInteger, atomic.SubNegativeInteger},
	"unsignedLong":        {atomic.KInteger, atomic.SubUnsignedLong},
	"unsignedInt":         {atomic.KInteger, atomic.SubUnsignedInt},
	"unsignedShort":       {atomic.KInteger, atomic.SubUnsignedShort},
	"unsignedByte":        {atomic.KInteger, atomic.SubUnsignedByte},
	"hexBinary":          {atomic.KHexBinary, 0},
	"base64Binary":       {atomic.KBase64Binary, 0},
	"QName":              {atomic.KQName, 0},
	"NOTATION":           {atomic.KNOTATION, 0},
	"duration":           {atomic.KDuration, 0},
	"yearMonthDuration":  {atomic.KYearMonthDuration, 0},
	"dayTimeDuration":    {atomic.KDayTimeDuration, 0},
	"date":               {atomic.KDate, 0},
	"time":               {atomic.KTime, 0},
	"dateTime":           {atomic.KDateTime, 0},
	"gYear":              {atomic.KGYear, 0},
	"gYearMonth":         {atomic.KGYearMonth, 0},
	"gMonth":             {atomic.KGMonth, 0},
	"gMonthDay":          {atomic.KGMonthDay, 0},
	"gDay":               {atomic.KGDay, 0},
}

func xsNameToCastTarget(name names.Name) (atomic.CastTarget, bool) {
	e, ok := xsAtomicTypes[name.Local]
	if !ok {
		return atomic.CastTarget{}, false
	}
	return atomic.CastTarget{Kind: e.kind, Sub: e.sub}, true
}

func (m *Machine) xsCastTarget(t xpast.SingleType) (atomic.CastTarget, *xperror.Error) {
	ct, ok := xsNameToCastTarget(t.Name)
	if !ok {
		return atomic.CastTarget{}, xperror.New(xperror.XPST0051, "unknown atomic type %s", t.Name)
	}
	return ct, nil
}

func (m *Machine) castOp(v xpsequence.Sequence, t xpast.SingleType) (xpsequence.Sequence, *xperror.Error) {
	if v.IsEmpty() {
		if t.Optional {
			return xpsequence.Empty(), nil
		}
		return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "cast as %s requires a non-empty operand", t.Name)
	}
	av, err := xpsequence.Atomized(v)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	a, err := av.RequireSingleAtomic()
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	ct, terr := m.xsCastTarget(t)
	if terr != nil {
		return xpsequence.Sequence{}, terr
	}
	res, caerr := atomic.CastTo(a, ct)
	if caerr != nil {
		return xpsequence.Sequence{}, caerr
	}
	return xpsequence.One(xpsequence.NewAtomicItem(res)), nil
}

func (m *Machine) castableOp(v xpsequence.Sequence, t xpast.SingleType) bool {
	if v.IsEmpty() {
		return t.Optional
	}
	av, err := xpsequence.Atomized(v)
	if err != nil {
		return false
	}
	a, err := av.RequireSingleAtomic()
	if err != nil {
		return false
	}
	ct, terr := m.xsCastTarget(t)
	if terr != nil {
		return false
	}
	return atomic.Castable(a, ct)
}

func zeroLike(k atomic.Kind, sub atomic.IntSub) (atomic.Value, *xperror.Error) {
	switch k {
	case atomic.KInteger:
		return atomic.NewInteger64(0, sub), nil
	case atomic.KDecimal:
		return atomic.NewDecimal(atomic.NewDecimalFromInt64(0)), nil
	case atomic.KFloat:
		return atomic.NewFloat(0), nil
	case atomic.KDouble:
		return atomic.NewDouble(0), nil
	default:
		return atomic.Value{}, xperror.New(xperror.XPTY0004, "unary operator requires a numeric operand, got %v", k)
	}
}

func occurrenceOK(n int, occ xpast.OccurrenceIndicator) bool {
	switch occ {
	case xpast.OccurrenceExactlyOne:
		return n == 1
	case xpast.OccurrenceOptional:
		return n <= 1
	case xpast.OccurrenceZeroOrMore:
		return true
	case xpast.OccurrenceOneOrMore:
		return n >= 1
	default:
		return n == 1
	}
}

func (m *Machine) matchSequenceType(s xpsequence.Sequence, st xpast.SequenceType) bool {
	if st.EmptySequence {
		return s.IsEmpty()
	}
	if !occurrenceOK(s.Len(), st.Occurrence) {
		return false
	}
	ok := true
	s.Each(func(it xpsequence.Item) bool {
		if !m.matchItemType(it, st.Item) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

func (m *Machine) matchItemType(it xpsequence.Item, t xpast.ItemType) bool {
	switch t.Kind {
	case xpast.ItemTypeAny:
		return true
	case xpast.ItemTypeKindTest:
		if !it.IsNode() {
			return false
		}
		return matchTest(it.Tree(), it.Node(), t.KindTest)
	case xpast.ItemTypeAtomicOrUnion:
		if !it.IsAtomic() {
			return false
		}
		if t.Name.Local == "anyAtomicType" {
			return true
		}
		entry, ok := xsAtomicTypes[t.Name.Local]
		if !ok {
			return false
		}
		v := it.Atomic()
		if entry.kind != v.Kind() {
			return false
		}
		if entry.kind == atomic.KInteger && entry.sub != atomic.SubInteger {
			return v.IntSub() == entry.sub
		}
		return true
	case xpast.ItemTypeFunction:
		return it.IsFunction()
	case xpast.ItemTypeMap:
		if !it.IsFunction() {
			return false
		}
		_, ok := it.Function().(*xpsequence.Map)
		return ok
	case xpast.ItemTypeArray:
		if !it.IsFunction() {
			return false
		}
		_, ok := it.Function().(*xpsequence.Array)
		return ok
	}
	return false
}
