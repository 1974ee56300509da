// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package funclib

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/xperror"
	"github.com/mdhenderson/xpath/internal/xpsequence"
)

func registerStrings(l *Library) {
	// fn:concat is the one variadic builtin in the function catalog
	// (2 or more arguments); ParseSignature has no variadic syntax, so it
	// is declared once per arity from 2 through 99.
	for n := 2; n <= 99; n++ {
		params := make([]string, n)
		for i := range params {
			params[i] = "$a" + strconv.Itoa(i+1) + " as xs:anyAtomicType?"
		}
		l.register("concat("+strings.Join(params, ", ")+") as xs:string", strConcat)
	}
	l.register("string-length($arg as xs:string?) as xs:integer", strLength)
	l.register("string-length() as xs:integer", strLengthContext)
	l.register("upper-case($arg as xs:string?) as xs:string", strCase(strings.ToUpper))
	l.register("lower-case($arg as xs:string?) as xs:string", strCase(strings.ToLower))
	l.register("contains($arg1 as xs:string?, $arg2 as xs:string?) as xs:boolean", strContains)
	l.register("starts-with($arg1 as xs:string?, $arg2 as xs:string?) as xs:boolean", strStartsWith)
	l.register("ends-with($arg1 as xs:string?, $arg2 as xs:string?) as xs:boolean", strEndsWith)
	l.register("substring-before($arg1 as xs:string?, $arg2 as xs:string?) as xs:string", strSubstringBefore)
	l.register("substring-after($arg1 as xs:string?, $arg2 as xs:string?) as xs:string", strSubstringAfter)
	l.register("substring($sourceString as xs:string?, $start as xs:double) as xs:string", strSubstring2)
	l.register("substring($sourceString as xs:string?, $start as xs:double, $length as xs:double) as xs:string", strSubstring3)
	l.register("normalize-space($arg as xs:string?) as xs:string", strNormalizeSpace)
	l.register("normalize-unicode($arg as xs:string?) as xs:string", strNormalizeUnicode1)
	l.register("normalize-unicode($arg as xs:string?, $normalizationForm as xs:string) as xs:string", strNormalizeUnicode2)
	l.register("translate($arg as xs:string?, $mapString as xs:string, $transString as xs:string) as xs:string", strTranslate)
	l.register("string-join($arg1 as xs:anyAtomicType*, $sep as xs:string) as xs:string", strJoin)
	l.register("string-join($arg1 as xs:anyAtomicType*) as xs:string", strJoinNoSep)
	l.register("tokenize($input as xs:string?, $pattern as xs:string) as xs:string*", tokenize2)
	l.register("tokenize($input as xs:string?, $pattern as xs:string, $flags as xs:string) as xs:string*", tokenize3)
	l.register("matches($input as xs:string?, $pattern as xs:string) as xs:boolean", matches2)
	l.register("matches($input as xs:string?, $pattern as xs:string, $flags as xs:string) as xs:boolean", matches3)
	l.register("replace($input as xs:string?, $pattern as xs:string, $replacement as xs:string) as xs:string", replace3)
	l.register("replace($input as xs:string?, $pattern as xs:string, $replacement as xs:string, $flags as xs:string) as xs:string", replace4)
	l.register("string-to-codepoints($arg as xs:string?) as xs:integer*", stringToCodepoints)
	l.register("codepoints-to-string($arg as xs:integer*) as xs:string", codepointsToString)
	l.register("compare($comparand1 as xs:string?, $comparand2 as xs:string?) as xs:integer?", compareStrings)
	l.register("encode-for-uri($uriPart as xs:string?) as xs:string", encodeForURI)
}

func strConcat(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	var sb strings.Builder
	for _, a := range args {
		s, err := optString(a)
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		sb.WriteString(s)
	}
	return stringSeq(sb.String()), nil
}

func strLength(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return intSeq(int64(len([]rune(s)))), nil
}

func strLengthContext(l *Library, _ []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if !l.ctx.HasContextItem {
		return xpsequence.Sequence{}, xperror.New(xperror.XPDY0002, "string-length() requires a context item")
	}
	s, err := optString(xpsequence.One(l.ctx.ContextItem))
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return intSeq(int64(len([]rune(s)))), nil
}

func strCase(f func(string) string) func(*Library, []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return func(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
		s, err := optString(args[0])
		if err != nil {
			return xpsequence.Sequence{}, err
		}
		return stringSeq(f(s)), nil
	}
}

func strContains(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	b, err := optString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return boolVal(strings.Contains(a, b)), nil
}

func strStartsWith(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	b, err := optString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return boolVal(strings.HasPrefix(a, b)), nil
}

func strEndsWith(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	b, err := optString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return boolVal(strings.HasSuffix(a, b)), nil
}

func strSubstringBefore(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	b, err := optString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if b == "" {
		return stringSeq(""), nil
	}
	i := strings.Index(a, b)
	if i < 0 {
		return stringSeq(""), nil
	}
	return stringSeq(a[:i]), nil
}

func strSubstringAfter(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	a, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	b, err := optString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if b == "" {
		return stringSeq(a), nil
	}
	i := strings.Index(a, b)
	if i < 0 {
		return stringSeq(""), nil
	}
	return stringSeq(a[i+len(b):]), nil
}

// substringRunes implements fn:substring's 1-based, round-to-nearest
// position arithmetic over the rune sequence (XPath's "character" is a
// codepoint, not a byte).
func substringRunes(s string, start, length float64, hasLength bool) string {
	r := []rune(s)
	n := float64(len(r))
	// round-half-to-even isn't used here; start/length are rounded to the
	// nearest integer with ties away from zero. For negative halves this
	// differs from this package's fn:round (numRoundHalfUp), which takes
	// them toward positive infinity: -0.5 becomes -1 here, 0 there.
	st := roundHalfAwayFromZero(start)
	var end float64
	if hasLength {
		end = st + roundHalfAwayFromZero(length)
	} else {
		end = n + 1
	}
	if st < 1 {
		st = 1
	}
	if end > n+1 {
		end = n + 1
	}
	if end <= st {
		return ""
	}
	return string(r[int(st)-1 : int(end)-1])
}

func roundHalfAwayFromZero(f float64) float64 {
	if f < 0 {
		return -roundHalfAwayFromZeroPositive(-f)
	}
	return roundHalfAwayFromZeroPositive(f)
}

func roundHalfAwayFromZeroPositive(f float64) float64 {
	i := float64(int64(f))
	if f-i >= 0.5 {
		return i + 1
	}
	return i
}

func strSubstring2(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	start, err := reqDouble(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return stringSeq(substringRunes(s, start, 0, false)), nil
}

func strSubstring3(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	start, err := reqDouble(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	length, err := reqDouble(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return stringSeq(substringRunes(s, start, length, true)), nil
}

func strNormalizeSpace(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return stringSeq(strings.Join(strings.Fields(s), " ")), nil
}

func normalizeForm(s, form string) (string, *xperror.Error) {
	switch strings.ToUpper(form) {
	case "NFC":
		return norm.NFC.String(s), nil
	case "NFD":
		return norm.NFD.String(s), nil
	case "NFKC":
		return norm.NFKC.String(s), nil
	case "NFKD":
		return norm.NFKD.String(s), nil
	case "":
		return s, nil
	case "FULLY-NORMALIZED":
		return norm.NFC.String(s), nil
	default:
		return "", xperror.New(xperror.FOCH0003, "unsupported normalization form %q", form)
	}
}

func strNormalizeUnicode1(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	out, nerr := normalizeForm(s, "NFC")
	if nerr != nil {
		return xpsequence.Sequence{}, nerr
	}
	return stringSeq(out), nil
}

func strNormalizeUnicode2(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	form, err := reqString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	out, nerr := normalizeForm(s, form)
	if nerr != nil {
		return xpsequence.Sequence{}, nerr
	}
	return stringSeq(out), nil
}

func strTranslate(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	mapStr, err := reqString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	transStr, err := reqString(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	mapRunes := []rune(mapStr)
	transRunes := []rune(transStr)
	var out []rune
	for _, r := range s {
		idx := -1
		for i, m := range mapRunes {
			if m == r {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, r)
		} else if idx < len(transRunes) {
			out = append(out, transRunes[idx])
		}
		// idx >= len(transRunes): character is deleted
	}
	return stringSeq(string(out)), nil
}

func strJoin(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	sep, err := reqString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return joinItems(args[0], sep)
}

func strJoinNoSep(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return joinItems(args[0], "")
}

func joinItems(seq xpsequence.Sequence, sep string) (xpsequence.Sequence, *xperror.Error) {
	its := seq.Materialize()
	parts := make([]string, 0, len(its))
	for _, it := range its {
		if !it.IsAtomic() {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "string-join requires atomic items")
		}
		parts = append(parts, it.Atomic().StringValue())
	}
	return stringSeq(strings.Join(parts, sep)), nil
}

// compileRegex maps XPath's flags string ('s' dot-all, 'm' multiline, 'i'
// case-insensitive, 'x' extended whitespace) onto regexp2.RegexOptions.
func compileRegex(pattern, flags string) (*regexp2.Regexp, *xperror.Error) {
	opts := regexp2.RegexOptions(0)
	for _, f := range flags {
		switch f {
		case 's':
			opts |= regexp2.Singleline
		case 'm':
			opts |= regexp2.Multiline
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		default:
			return nil, xperror.New(xperror.FORX0001, "unsupported regular expression flag %q", string(f))
		}
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, xperror.Wrap(xperror.FORX0002, err, "invalid regular expression %q", pattern)
	}
	return re, nil
}

func matches2(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return matchesImpl(args[0], args[1], "")
}

func matches3(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	flags, err := reqString(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return matchesImpl(args[0], args[1], flags)
}

func matchesImpl(input, patternSeq xpsequence.Sequence, flags string) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(input)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	pattern, err := reqString(patternSeq)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	re, rerr := compileRegex(pattern, flags)
	if rerr != nil {
		return xpsequence.Sequence{}, rerr
	}
	ok, merr := re.MatchString(s)
	if merr != nil {
		return xpsequence.Sequence{}, xperror.Wrap(xperror.FORX0002, merr, "regular expression match failed")
	}
	return boolVal(ok), nil
}

func replace3(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return replaceImpl(args[0], args[1], args[2], "")
}

func replace4(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	flags, err := reqString(args[3])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return replaceImpl(args[0], args[1], args[2], flags)
}

func replaceImpl(input, patternSeq, replacementSeq xpsequence.Sequence, flags string) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(input)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	pattern, err := reqString(patternSeq)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	replacement, err := reqString(replacementSeq)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	re, rerr := compileRegex(pattern, flags)
	if rerr != nil {
		return xpsequence.Sequence{}, rerr
	}
	// XPath replacement strings use $N for capture groups, which is also
	// .NET/regexp2's own substitution syntax, so no translation is needed.
	out, replErr := re.Replace(s, replacement, -1, -1)
	if replErr != nil {
		return xpsequence.Sequence{}, xperror.Wrap(xperror.FORX0002, replErr, "replacement failed")
	}
	return stringSeq(out), nil
}

func tokenizeImpl(input, patternSeq xpsequence.Sequence, flags string) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(input)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	pattern, err := reqString(patternSeq)
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	re, rerr := compileRegex(pattern, flags)
	if rerr != nil {
		return xpsequence.Sequence{}, rerr
	}
	if s == "" {
		return xpsequence.Empty(), nil
	}
	var out []xpsequence.Item
	pos := 0
	m, merr := re.FindStringMatch(s)
	for {
		if merr != nil {
			return xpsequence.Sequence{}, xperror.Wrap(xperror.FORX0002, merr, "tokenize match failed")
		}
		if m == nil {
			out = append(out, xpsequence.NewAtomicItem(atomic.NewString(s[pos:])))
			break
		}
		if m.Length == 0 {
			return xpsequence.Sequence{}, xperror.New(xperror.FORX0003, "tokenize pattern matches a zero-length string")
		}
		out = append(out, xpsequence.NewAtomicItem(atomic.NewString(s[pos:m.Index])))
		pos = m.Index + m.Length
		m, merr = re.FindNextMatch(m)
	}
	return xpsequence.Many(out), nil
}

func tokenize2(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	return tokenizeImpl(args[0], args[1], "")
}

func tokenize3(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	flags, err := reqString(args[2])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	return tokenizeImpl(args[0], args[1], flags)
}

func stringToCodepoints(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	if s == "" {
		return xpsequence.Empty(), nil
	}
	var out []xpsequence.Item
	for _, r := range s {
		out = append(out, xpsequence.NewAtomicItem(atomic.NewInteger64(int64(r), atomic.SubInteger)))
	}
	return xpsequence.Many(out), nil
}

func codepointsToString(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	its := args[0].Materialize()
	var b strings.Builder
	for _, it := range its {
		if !it.IsAtomic() {
			return xpsequence.Sequence{}, xperror.New(xperror.XPTY0004, "codepoints-to-string requires integer items")
		}
		b.WriteRune(rune(it.Atomic().BigInt().Int64()))
	}
	return stringSeq(b.String()), nil
}

func compareStrings(l *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	if args[0].IsEmpty() || args[1].IsEmpty() {
		return xpsequence.Empty(), nil
	}
	a, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	b, err := optString(args[1])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	c := l.ctx.DefaultCollation.Compare(a, b)
	switch {
	case c < 0:
		return intSeq(-1), nil
	case c > 0:
		return intSeq(1), nil
	default:
		return intSeq(0), nil
	}
}

func encodeForURI(_ *Library, args []xpsequence.Sequence) (xpsequence.Sequence, *xperror.Error) {
	s, err := optString(args[0])
	if err != nil {
		return xpsequence.Sequence{}, err
	}
	const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.~"
	var b strings.Builder
	for _, c := range []byte(s) {
		if strings.IndexByte(unreserved, c) >= 0 {
			b.WriteByte(c)
		} else {
			b.WriteString("%")
			b.WriteString(strings.ToUpper(byteHex(c)))
		}
	}
	return stringSeq(b.String()), nil
}

func byteHex(b byte) string {
	const hex = "0123456789abcdef"
	return string([]byte{hex[b>>4], hex[b&0xf]})
}
