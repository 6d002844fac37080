package ast

// Expr is any expression node: call, method-call, path, field-access,
// binary, unary, parenthesized, reference-of, try/propagate, assign, if,
// match, for, while, block, await.
type Expr interface {
	exprNode()
}

// CallExpr is a free function call: `path(args...)`.
type CallExpr struct {
	Callee Expr // usually *PathExpr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// MethodCallExpr is `receiver.method(args...)`.
type MethodCallExpr struct {
	Receiver Expr
	Method   string
	Args     []Expr
}

func (*MethodCallExpr) exprNode() {}

// PathExpr is a (possibly multi-segment) path such as `foo` or
// `module::foo`.
type PathExpr struct {
	Segments []string
}

// LastSegment returns the trailing identifier of the path, or "" for an
// empty path (defensive default for a malformed-but-parsed node).
func (p *PathExpr) LastSegment() string {
	if p == nil || len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1]
}

func (*PathExpr) exprNode() {}

// FieldExpr is `base.member` (field access, not a call).
type FieldExpr struct {
	Base   Expr
	Member Member
}

func (*FieldExpr) exprNode() {}

// BinaryExpr is `left <op> right`.
type BinaryExpr struct {
	Left  Expr
	Op    BinOp
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is `<op>operand` (`-x`, `!x`, `*x`).
type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// ParenExpr is `(inner)`.
type ParenExpr struct {
	Inner Expr
}

func (*ParenExpr) exprNode() {}

// RefExpr is `&inner` or `&mut inner`.
type RefExpr struct {
	Inner   Expr
	Mutable bool
}

func (*RefExpr) exprNode() {}

// TryExpr is `inner?` (try-propagation).
type TryExpr struct {
	Inner Expr
}

func (*TryExpr) exprNode() {}

// AssignExpr is `lhs = rhs` or a compound assignment `lhs += rhs`.
type AssignExpr struct {
	LHS Expr
	Op  BinOp // OpAssign for `=`, or one of the compound ops
	RHS Expr
}

func (*AssignExpr) exprNode() {}

// IfExpr is `if cond { then } else { alt }` (alt may be nil; Alt may
// itself be an *IfExpr for an `else if` chain, or a *BlockExpr).
type IfExpr struct {
	Cond Expr
	Then *Block
	Alt  Expr // nil, *IfExpr, or *BlockExpr
}

func (*IfExpr) exprNode() {}

// MatchArm is one arm of a match expression.
type MatchArm struct {
	Body Expr
}

// MatchExpr is `match scrutinee { arms... }`.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []MatchArm
}

func (*MatchExpr) exprNode() {}

// ForExpr is `for pattern in iter { body }`.
type ForExpr struct {
	Iter Expr
	Body *Block
}

func (*ForExpr) exprNode() {}

// WhileExpr is `while cond { body }`.
type WhileExpr struct {
	Cond Expr
	Body *Block
}

func (*WhileExpr) exprNode() {}

// BlockExpr is a bare block used as an expression.
type BlockExpr struct {
	Body *Block
}

func (*BlockExpr) exprNode() {}

// AwaitExpr is `inner.await`.
type AwaitExpr struct {
	Inner Expr
}

func (*AwaitExpr) exprNode() {}

// OtherExpr is any expression kind the rules never need to look inside
// (literals, struct literals, closures, …). All recursors default to
// false/no-match on it.
type OtherExpr struct{}

func (*OtherExpr) exprNode() {}

// BinOp enumerates the comparison and compound-assignment operator
// kinds the rules distinguish.
type BinOp int

const (
	OpUnknown BinOp = iota
	OpEq            // ==
	OpNe            // !=
	OpLt            // <
	OpLe            // <=
	OpGt            // >
	OpGe            // >=
	OpAssign        // =
	OpAddAssign     // +=
	OpSubAssign     // -=
	OpMulAssign     // *=
	OpDivAssign     // /=
	OpRemAssign     // %=
	OpXorAssign     // ^=
	OpAndAssign     // &=
	OpOrAssign      // |=
	OpShlAssign     // <<=
	OpShrAssign     // >>=
)

// IsCompoundAssign reports whether op is one of the `+=`-style
// compound-assignment operators.
func (op BinOp) IsCompoundAssign() bool {
	switch op {
	case OpAddAssign, OpSubAssign, OpMulAssign, OpDivAssign, OpRemAssign,
		OpXorAssign, OpAndAssign, OpOrAssign, OpShlAssign, OpShrAssign:
		return true
	default:
		return false
	}
}

// IsComparison reports whether op is one of the six comparison
// operators used by the slippage and ownership rules.
func (op BinOp) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		return true
	default:
		return false
	}
}

// IsEqualityComparison reports whether op is `==` or `!=`, the only
// two comparison operators the ownership rule's `owner != program_id`
// shape matches against.
func (op BinOp) IsEqualityComparison() bool {
	return op == OpEq || op == OpNe
}
