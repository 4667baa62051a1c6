package bytecode

import (
	"strconv"

	"rinha/ast"
	"rinha/rerr"
	"rinha/value"
)

// ApplyOp is the single pure function implementing every binary operator
// (§4.1 of the spec). Both operands must already be evaluated Literals;
// anything else (a closure on either side) is a TypeError.
func ApplyOp(lhs, rhs value.Value, op ast.BinaryOp, loc ast.Location) (value.Value, error) {
	l, lok := lhs.(value.Literal)
	r, rok := rhs.(value.Literal)
	if !lok || !rok {
		return nil, typeErr(loc, op, lhs, rhs)
	}

	switch op {
	case ast.Add:
		switch {
		case l.Kind == value.KindInt && r.Kind == value.KindInt:
			return value.Int(l.Int + r.Int), nil
		case l.Kind == value.KindStr && r.Kind == value.KindStr:
			return value.Str(l.Str + r.Str), nil
		case l.Kind == value.KindStr && r.Kind == value.KindInt:
			return value.Str(l.Str + strconv.FormatInt(r.Int, 10)), nil
		case l.Kind == value.KindInt && r.Kind == value.KindStr:
			return value.Str(strconv.FormatInt(l.Int, 10) + r.Str), nil
		default:
			return nil, typeErr(loc, op, lhs, rhs)
		}

	case ast.Sub, ast.Mul, ast.Div, ast.Rem:
		if l.Kind != value.KindInt || r.Kind != value.KindInt {
			return nil, typeErr(loc, op, lhs, rhs)
		}
		switch op {
		case ast.Sub:
			return value.Int(l.Int - r.Int), nil
		case ast.Mul:
			return value.Int(l.Int * r.Int), nil
		case ast.Div:
			if r.Int == 0 {
				return nil, rerr.New(rerr.DivByZero, toRerrLoc(loc), "division by zero")
			}
			return value.Int(floorDiv(l.Int, r.Int)), nil
		case ast.Rem:
			if r.Int == 0 {
				return nil, rerr.New(rerr.DivByZero, toRerrLoc(loc), "remainder by zero")
			}
			return value.Int(floorMod(l.Int, r.Int)), nil
		}

	case ast.Eq, ast.Neq:
		if l.Kind != r.Kind {
			return nil, typeErr(loc, op, lhs, rhs)
		}
		eq := l.Equal(r)
		if op == ast.Neq {
			eq = !eq
		}
		return value.Bool(eq), nil

	case ast.Lt, ast.Gt, ast.Lte, ast.Gte:
		if l.Kind != value.KindInt || r.Kind != value.KindInt {
			return nil, typeErr(loc, op, lhs, rhs)
		}
		switch op {
		case ast.Lt:
			return value.Bool(l.Int < r.Int), nil
		case ast.Gt:
			return value.Bool(l.Int > r.Int), nil
		case ast.Lte:
			return value.Bool(l.Int <= r.Int), nil
		case ast.Gte:
			return value.Bool(l.Int >= r.Int), nil
		}

	case ast.And, ast.Or:
		if l.Kind != value.KindBool || r.Kind != value.KindBool {
			return nil, typeErr(loc, op, lhs, rhs)
		}
		if op == ast.And {
			return value.Bool(l.Bool && r.Bool), nil
		}
		return value.Bool(l.Bool || r.Bool), nil
	}

	return nil, rerr.New(rerr.InternalError, toRerrLoc(loc), "unknown operator %v", op)
}

// floorDiv truncates toward negative infinity, unlike Go's native / which
// truncates toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// floorMod is the remainder consistent with floorDiv: a == floorDiv(a,b)*b + floorMod(a,b).
func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}

func typeErr(loc ast.Location, op ast.BinaryOp, lhs, rhs value.Value) error {
	return rerr.New(rerr.TypeError, toRerrLoc(loc), "invalid operands for '%s': %s, %s", op.Token(), lhs, rhs)
}

func toRerrLoc(loc ast.Location) rerr.Location {
	return rerr.Location{Filename: loc.Filename, Start: loc.Start, End: loc.End}
}
