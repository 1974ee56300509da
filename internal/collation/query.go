// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package collation

import (
	"strings"

	"github.com/mdhenderson/xpath/internal/xperror"
)

// ucaQuery is the parsed form of a UCA collation URI's query string
// (spec.md §6), grounded on original_source/xee-interpreter's
// string/collation.rs CollatorQuery. Fields default to the values XPath
// 3.1 F&O §5.3.3 specifies when absent.
type ucaQuery struct {
	fallback      bool
	lang          string
	strength      string
	maxVariable   string
	alternate     string
	backwards     bool
	normalization bool
	caseLevel     bool
	caseFirst     string
	numeric       bool
}

func defaultUCAQuery() ucaQuery {
	return ucaQuery{
		fallback:    true,
		strength:    "tertiary",
		maxVariable: "punct",
		alternate:   "non-ignorable",
		caseFirst:   "off",
	}
}

var (
	yesNoValues      = map[string]bool{"yes": true, "no": false}
	strengthValues   = map[string]bool{"primary": true, "secondary": true, "tertiary": true, "quaternary": true, "identical": true, "1": true, "2": true, "3": true, "4": true, "5": true}
	maxVariableValues = map[string]bool{"space": true, "punct": true, "symbol": true, "currency": true}
	alternateValues  = map[string]bool{"non-ignorable": true, "shifted": true}
	caseFirstValues  = map[string]bool{"upper": true, "lower": true}
)

// parseQuery implements the ';'-separated key=value collation query
// string: unrecognized keys (or out-of-enum values) are silently replaced
// by the default except when fallback=no, which turns either one into
// FOCH0002. fallback itself defaults to yes and a bad fallback value
// falls back to yes rather than erroring (there's no stricter mode to
// consult before fallback has been determined).
func parseQuery(query string) (ucaQuery, *xperror.Error) {
	q := defaultUCAQuery()
	if query == "" {
		return q, nil
	}

	fallback := true
	if v, ok := lookup(query, "fallback"); ok {
		if b, ok := yesNoValues[v]; ok {
			fallback = b
		}
	}
	q.fallback = fallback

	unrecognized := false
	for _, part := range strings.Split(query, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			unrecognized = true
			continue
		}
		switch key {
		case "fallback":
			// already consumed above
		case "lang":
			q.lang = value
		case "strength":
			if strengthValues[value] {
				q.strength = value
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation strength %q", value)
			}
		case "maxVariable":
			if maxVariableValues[value] {
				q.maxVariable = value
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation maxVariable %q", value)
			}
		case "alternate":
			if alternateValues[value] {
				q.alternate = value
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation alternate %q", value)
			}
		case "backwards":
			if b, ok := yesNoValues[value]; ok {
				q.backwards = b
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation backwards %q", value)
			}
		case "normalization":
			if b, ok := yesNoValues[value]; ok {
				q.normalization = b
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation normalization %q", value)
			}
		case "caseLevel":
			if b, ok := yesNoValues[value]; ok {
				q.caseLevel = b
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation caseLevel %q", value)
			}
		case "caseFirst":
			if caseFirstValues[value] {
				q.caseFirst = value
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation caseFirst %q", value)
			}
		case "numeric":
			if b, ok := yesNoValues[value]; ok {
				q.numeric = b
			} else if !fallback {
				return q, xperror.New(xperror.FOCH0002, "invalid collation numeric %q", value)
			}
		default:
			unrecognized = true
		}
	}
	if unrecognized && !fallback {
		return q, xperror.New(xperror.FOCH0002, "unrecognized parameter in collation query %q", query)
	}
	return q, nil
}

// lookup finds the last occurrence of key=value in a ';'-separated query
// string ("last one wins", matching original_source's parser).
func lookup(query, key string) (string, bool) {
	value, ok := "", false
	for _, part := range strings.Split(query, ";") {
		k, v, hasEq := strings.Cut(part, "=")
		if hasEq && k == key {
			value, ok = v, true
		}
	}
	return value, ok
}
