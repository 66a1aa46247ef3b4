package sparql

// Named combinators for building operator expressions. Each returns the same
// immutable node NewBinaryOp/NewUnaryOp would, kind-checked at call time.

// And returns (a && b).
func And(a, b Expression) (*BinaryOp, error) { return NewBinaryOp("&&", a, b) }

// Or returns (a || b).
func Or(a, b Expression) (*BinaryOp, error) { return NewBinaryOp("||", a, b) }

// Not returns !a.
func Not(a Expression) (*UnaryOp, error) { return NewUnaryOp("!", a) }

// Gt returns (a > b).
func Gt(a, b Expression) (*BinaryOp, error) { return NewBinaryOp(">", a, b) }

// Lt returns (a < b).
func Lt(a, b Expression) (*BinaryOp, error) { return NewBinaryOp("<", a, b) }

// Ge returns (a >= b).
func Ge(a, b Expression) (*BinaryOp, error) { return NewBinaryOp(">=", a, b) }

// Le returns (a <= b).
func Le(a, b Expression) (*BinaryOp, error) { return NewBinaryOp("<=", a, b) }

// Eq returns (a = b).
func Eq(a, b Expression) (*BinaryOp, error) { return NewBinaryOp("=", a, b) }

// Ne returns (a != b).
func Ne(a, b Expression) (*BinaryOp, error) { return NewBinaryOp("!=", a, b) }

// Count returns COUNT(arg). Pass NewStar() for COUNT(*) and a Distinct for
// COUNT(DISTINCT ...).
func Count(arg Expression) (*Function, error) { return NewFunction("COUNT", arg) }

// Desc returns DESC(arg) for ORDER BY.
func Desc(arg Expression) (*Function, error) { return NewFunction("DESC", arg) }

// Asc returns ASC(arg) for ORDER BY.
func Asc(arg Expression) (*Function, error) { return NewFunction("ASC", arg) }

// Bound returns BOUND(v).
func Bound(v *Variable) (*Function, error) {
	if v == nil {
		return nil, emptyError("function", "BOUND requires a variable")
	}
	return NewFunction("BOUND", v)
}
