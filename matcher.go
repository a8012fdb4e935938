package cadastre

import (
	"strings"

	"github.com/terralink/cadastre/assignment"
)

// Separators for the two pattern namespaces. Actions are dot-separated
// verbs ("project.resources.add"); objects are slash-separated paths
// ("project/big-org/parcel-survey").
const (
	actionSep byte = '.'
	objectSep byte = '/'
)

// matchAction checks an action pattern against a concrete action.
func matchAction(pattern, action string, vars []assignment.Variable) bool {
	return matchPattern(pattern, action, actionSep, vars)
}

// matchObject checks an object pattern against a concrete object path.
func matchObject(pattern, object string, vars []assignment.Variable) bool {
	return matchPattern(pattern, object, objectSep, vars)
}

// matchPattern performs segment-wise matching. Segment counts must be
// equal: "project/*/*" matches "project/abc/xyz" but not "project/abc".
// A "*" segment matches any single segment; a "{name}" segment is
// substituted from vars before comparison and never matches while unbound.
func matchPattern(pattern, value string, sep byte, vars []assignment.Variable) bool {
	for {
		pi := strings.IndexByte(pattern, sep)
		vi := strings.IndexByte(value, sep)

		// One side has more segments than the other.
		if (pi < 0) != (vi < 0) {
			return false
		}

		if pi < 0 {
			return matchSegment(pattern, value, vars)
		}

		if !matchSegment(pattern[:pi], value[:vi], vars) {
			return false
		}

		pattern = pattern[pi+1:]
		value = value[vi+1:]
	}
}

func matchSegment(pseg, vseg string, vars []assignment.Variable) bool {
	if pseg == "*" {
		return true
	}

	if len(pseg) >= 2 && pseg[0] == '{' && pseg[len(pseg)-1] == '}' {
		name := pseg[1 : len(pseg)-1]
		for _, v := range vars {
			if v.Name == name {
				return v.Value == vseg
			}
		}

		// Unbound placeholders never match.
		return false
	}

	return pseg == vseg
}
