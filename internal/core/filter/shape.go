// Package filter rewrites legacy map-style filter expressions so a layer only
// matches features whose start/end dates bracket a selected year.
//
// Expressions are JSON-shaped trees: []any arrays whose first element is an
// operator name, with string, float64, bool and nil leaves. Features that lack
// the identifying attribute are "eternal" and always pass the date gate.
package filter

// Expr is a filter expression tree as decoded from a style document
type Expr = any

// Combinator names recognized at the head of an expression
const (
	OpAll  = "all"
	OpAny  = "any"
	OpNone = "none"
)

// Shape is the classified form of an existing layer filter
type Shape interface{ shape() }

// NoFilter means the layer has no filter at all
type NoFilter struct{}

// All is an ["all", ...] combinator
type All struct{ Operands []Expr }

// AnyOf is an ["any", ...] combinator
type AnyOf struct{ Operands []Expr }

// Combinator is any other recognized combinator, currently only "none"
type Combinator struct {
	Op       string
	Operands []Expr
}

// Predicate is a single simple clause such as ["==", "class", "road"]
type Predicate struct{ Expr []any }

// Unsupported is anything the composer refuses to rewrite
type Unsupported struct{ Value Expr }

func (NoFilter) shape()    {}
func (All) shape()         {}
func (AnyOf) shape()       {}
func (Combinator) shape()  {}
func (Predicate) shape()   {}
func (Unsupported) shape() {}

// Classify dispatches on the array head of expr
func Classify(expr Expr) Shape {
	if expr == nil {
		return NoFilter{}
	}
	arr, ok := expr.([]any)
	if !ok || len(arr) == 0 {
		return Unsupported{Value: expr}
	}
	head, ok := arr[0].(string)
	if !ok {
		return Unsupported{Value: expr}
	}
	switch head {
	case OpAll:
		return All{Operands: arr[1:]}
	case OpAny:
		return AnyOf{Operands: arr[1:]}
	case OpNone:
		return Combinator{Op: head, Operands: arr[1:]}
	default:
		return Predicate{Expr: arr}
	}
}

// Clone deep-copies an expression tree; maps and slices are never shared
func Clone(expr Expr) Expr {
	switch v := expr.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Clone(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Clone(e)
		}
		return out
	default:
		return v
	}
}
