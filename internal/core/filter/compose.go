package filter

import (
	perr "timeslider/internal/platform/errors"
)

// Placeholder is the gate installed before any date is known: only eternal
// features pass
func Placeholder(attrs Attrs) []any {
	a := attrs.Or()
	return []any{OpAny, []any{"!has", a.ID}}
}

// Gate lets eternal features through, plus features dated within year
func Gate(year int, attrs Attrs) []any {
	a := attrs.Or()
	return []any{OpAny, []any{"!has", a.ID}, DateSubFilter(year, a)}
}

// DateSubFilter matches features carrying an id and both raw date attributes
// whose decimal dates, when present, overlap year
func DateSubFilter(year int, attrs Attrs) []any {
	a := attrs.Or()
	lo, hi := Boundaries(year)
	return []any{
		OpAll,
		[]any{"has", a.ID},
		[]any{"has", a.StartDate},
		[]any{"has", a.EndDate},
		[]any{OpAny, []any{"!has", a.StartDecDate}, []any{"<=", a.StartDecDate, hi}},
		[]any{OpAny, []any{"!has", a.EndDecDate}, []any{">=", a.EndDecDate, lo}},
	}
}

// Install returns existing rewritten as ["all", gate, ...] with the gate at
// index 1. existing is never modified.
func Install(layerID string, existing Expr, attrs Attrs) (Expr, error) {
	gate := Placeholder(attrs)
	switch s := Classify(existing).(type) {
	case NoFilter:
		return []any{OpAll, gate}, nil
	case All:
		out := make([]any, 0, len(s.Operands)+2)
		out = append(out, OpAll, gate)
		for _, op := range s.Operands {
			out = append(out, Clone(op))
		}
		return out, nil
	case AnyOf, Combinator, Predicate:
		return []any{OpAll, gate, Clone(existing)}, nil
	case Unsupported:
		return nil, perr.UnsupportedFilterShapef(layerID, "layer %s: unsupported filter shape %v", layerID, s.Value)
	default:
		return nil, perr.UnsupportedFilterShapef(layerID, "layer %s: unclassified filter %v", layerID, existing)
	}
}

// IsComposed reports whether expr has the layout Install produces
func IsComposed(expr Expr) bool {
	arr, ok := expr.([]any)
	if !ok || len(arr) < 2 || arr[0] != OpAll {
		return false
	}
	gate, ok := arr[1].([]any)
	return ok && len(gate) >= 2 && gate[0] == OpAny
}

// Refresh swaps the gate at index 1 for one computed from year
func Refresh(composed Expr, year int, attrs Attrs) (Expr, error) {
	if !IsComposed(composed) {
		return nil, perr.NotComposedf("filter %v has no date gate at index 1", composed)
	}
	out := Clone(composed).([]any)
	out[1] = Gate(year, attrs)
	return out, nil
}
