package filter

import (
	"encoding/json"
	"fmt"
)

// Eval reports whether a feature with props passes expr. A nil expr matches
// everything. Comparisons only match when both sides are numbers or both are
// strings.
func Eval(expr Expr, props map[string]any) (bool, error) {
	if expr == nil {
		return true, nil
	}
	arr, ok := expr.([]any)
	if !ok || len(arr) == 0 {
		return false, fmt.Errorf("filter: not an expression: %v", expr)
	}
	op, ok := arr[0].(string)
	if !ok {
		return false, fmt.Errorf("filter: operator must be a string: %v", arr[0])
	}
	args := arr[1:]

	switch op {
	case OpAll:
		for _, a := range args {
			m, err := Eval(a, props)
			if err != nil || !m {
				return false, err
			}
		}
		return true, nil
	case OpAny:
		for _, a := range args {
			m, err := Eval(a, props)
			if err != nil {
				return false, err
			}
			if m {
				return true, nil
			}
		}
		return false, nil
	case OpNone:
		for _, a := range args {
			m, err := Eval(a, props)
			if err != nil {
				return false, err
			}
			if m {
				return false, nil
			}
		}
		return true, nil
	case "has", "!has":
		key, err := keyArg(op, args, 1)
		if err != nil {
			return false, err
		}
		_, present := props[key]
		return present == (op == "has"), nil
	case "==", "!=", "<", "<=", ">", ">=":
		key, err := keyArg(op, args, 2)
		if err != nil {
			return false, err
		}
		got, present := props[key]
		if !present {
			return op == "!=", nil
		}
		c, comparable := compare(got, args[1])
		if !comparable {
			return op == "!=", nil
		}
		switch op {
		case "==":
			return c == 0, nil
		case "!=":
			return c != 0, nil
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case "in", "!in":
		if len(args) < 1 {
			return false, fmt.Errorf("filter: %s needs a key", op)
		}
		key, ok := args[0].(string)
		if !ok {
			return false, fmt.Errorf("filter: %s key must be a string: %v", op, args[0])
		}
		got, present := props[key]
		found := false
		if present {
			for _, v := range args[1:] {
				if c, ok := compare(got, v); ok && c == 0 {
					found = true
					break
				}
			}
		}
		return found == (op == "in"), nil
	default:
		return false, fmt.Errorf("filter: unknown operator %q", op)
	}
}

func keyArg(op string, args []any, n int) (string, error) {
	if len(args) != n {
		return "", fmt.Errorf("filter: %s takes %d operands, got %d", op, n, len(args))
	}
	key, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("filter: %s key must be a string: %v", op, args[0])
	}
	return key, nil
}

// compare orders a and b; ok is false when they are not of the same kind
func compare(a, b any) (c int, ok bool) {
	if af, aok := number(a); aok {
		bf, bok := number(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case bool:
		bv, ok := b.(bool)
		if !ok || av != bv {
			return 1, ok
		}
		return 0, true
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
