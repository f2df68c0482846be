package filter

import "github.com/spf13/cast"

// Match evaluates e against a metadata map, used by the in-memory vector
// store (and as a reference semantics for any other backend that pushes the
// filter down natively instead).
func Match(e Expr, metadata map[string]any) bool {
	if e == nil {
		return true
	}
	switch v := e.(type) {
	case Cmp:
		return matchCmp(v, metadata)
	case And:
		for _, sub := range v.Exprs {
			if !Match(sub, metadata) {
				return false
			}
		}
		return true
	case Or:
		for _, sub := range v.Exprs {
			if Match(sub, metadata) {
				return true
			}
		}
		return false
	case Not:
		return !Match(v.Inner, metadata)
	default:
		return true
	}
}

func matchCmp(c Cmp, metadata map[string]any) bool {
	actual, ok := metadata[c.Field]
	if !ok {
		return false
	}
	switch c.Op {
	case OpEQ:
		return cast.ToString(actual) == cast.ToString(c.Value)
	case OpNEQ:
		return cast.ToString(actual) != cast.ToString(c.Value)
	case OpGT:
		return cast.ToFloat64(actual) > cast.ToFloat64(c.Value)
	case OpGTE:
		return cast.ToFloat64(actual) >= cast.ToFloat64(c.Value)
	case OpLT:
		return cast.ToFloat64(actual) < cast.ToFloat64(c.Value)
	case OpLTE:
		return cast.ToFloat64(actual) <= cast.ToFloat64(c.Value)
	case OpIN:
		return containsAny(c.Value, actual)
	case OpNIN:
		return !containsAny(c.Value, actual)
	default:
		return false
	}
}

func containsAny(haystack any, needle any) bool {
	list, ok := haystack.([]any)
	if !ok {
		return false
	}
	target := cast.ToString(needle)
	for _, v := range list {
		if cast.ToString(v) == target {
			return true
		}
	}
	return false
}
