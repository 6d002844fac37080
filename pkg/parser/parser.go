// Package parser adapts github.com/smacker/go-tree-sitter (and its
// bundled Rust grammar) into the pkg/ast tree the rule engine walks.
package parser

import (
	"context"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/vaultlint/vaultlint/pkg/ast"
)

// ParseError wraps a tree-sitter parse failure; the driver reports it
// as "Failed to parse contract: <message>". An unreadable source file
// never reaches the parser: pkg/engine reports its read error in the
// same finding shape directly.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Parse parses Rust-like source text into a TranslationUnit.
//
// tree-sitter is error-tolerant: a malformed file still produces a
// tree, with ERROR nodes standing in for the parts it couldn't make
// sense of. Parse treats a root node that reports HasError as a parse
// failure, since a tree that couldn't be fully recognized cannot be
// trusted to yield a meaningful AST for the rules that follow.
func Parse(source []byte) (*ast.TranslationUnit, error) {
	p := sitter.NewParser()
	p.SetLanguage(rust.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Message: err.Error()}
	}

	root := tree.RootNode()
	if root == nil {
		return nil, &ParseError{Message: "empty parse tree"}
	}
	if root.HasError() {
		return nil, &ParseError{Message: "syntax error in contract source"}
	}

	w := &walker{src: source}
	return w.translationUnit(root), nil
}

type walker struct {
	src []byte
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) translationUnit(root *sitter.Node) *ast.TranslationUnit {
	tu := &ast.TranslationUnit{}
	count := int(root.NamedChildCount())
	for i := 0; i < count; i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "function_item":
			if fn := w.functionItem(child); fn != nil {
				tu.Items = append(tu.Items, fn)
			}
		case "impl_item":
			tu.Items = append(tu.Items, w.implItem(child))
		}
	}
	return tu
}

func (w *walker) functionItem(n *sitter.Node) *ast.FunctionItem {
	nameNode := n.ChildByFieldName("name")
	bodyNode := n.ChildByFieldName("body")
	return &ast.FunctionItem{
		Name: w.text(nameNode),
		Body: w.block(bodyNode),
	}
}

func (w *walker) implItem(n *sitter.Node) *ast.ImplItem {
	impl := &ast.ImplItem{}
	body := n.ChildByFieldName("body")
	if body == nil {
		return impl
	}
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		child := body.NamedChild(i)
		if child.Type() != "function_item" {
			continue
		}
		impl.Methods = append(impl.Methods, &ast.MethodItem{
			Name: w.text(child.ChildByFieldName("name")),
			Body: w.block(child.ChildByFieldName("body")),
		})
	}
	return impl
}

// block translates a `{ ... }` body into *ast.Block. A nil input (a
// function declared without a body, e.g. a trait signature) yields an
// empty block rather than nil, so callers never need a nil check.
func (w *walker) block(n *sitter.Node) *ast.Block {
	b := &ast.Block{}
	if n == nil {
		return b
	}
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		b.Stmts = append(b.Stmts, w.stmt(child))
	}
	return b
}

func (w *walker) stmt(n *sitter.Node) ast.Stmt {
	switch n.Type() {
	case "let_declaration":
		return &ast.LetStmt{
			Pattern: w.pattern(n.ChildByFieldName("pattern")),
			Init:    w.expr(n.ChildByFieldName("value")),
		}
	case "expression_statement":
		if n.NamedChildCount() == 0 {
			return &ast.OtherStmt{}
		}
		return &ast.ExprStmt{X: w.expr(n.NamedChild(0))}
	default:
		// A bare tail expression (no trailing `;`) reaches the block
		// as a direct expression node rather than a statement node.
		if isExprNodeType(n.Type()) {
			return &ast.ExprStmt{X: w.expr(n)}
		}
		return &ast.OtherStmt{}
	}
}

func (w *walker) pattern(n *sitter.Node) ast.Pattern {
	if n == nil {
		return &ast.OtherPattern{}
	}
	if n.Type() == "identifier" {
		return &ast.IdentPattern{Name: w.text(n)}
	}
	return &ast.OtherPattern{}
}

func (w *walker) member(n *sitter.Node) ast.Member {
	if n == nil {
		return ast.NamedMember{}
	}
	if n.Type() == "integer_literal" {
		idx, _ := strconv.Atoi(w.text(n))
		return ast.IndexMember{Index: idx}
	}
	return ast.NamedMember{Name: w.text(n)}
}

// expr translates any expression node. Node kinds the rules never
// need to look inside collapse to OtherExpr, which every downstream
// recursor treats as a non-match.
func (w *walker) expr(n *sitter.Node) ast.Expr {
	if n == nil {
		return &ast.OtherExpr{}
	}

	switch n.Type() {
	case "call_expression":
		return w.callExpr(n)
	case "field_expression":
		return &ast.FieldExpr{
			Base:   w.expr(n.ChildByFieldName("value")),
			Member: w.member(n.ChildByFieldName("field")),
		}
	case "identifier", "scoped_identifier", "self":
		return w.pathExpr(n)
	case "binary_expression":
		return w.binaryExpr(n)
	case "unary_expression":
		return &ast.UnaryExpr{
			Op:      w.operatorToken(n),
			Operand: w.expr(n.NamedChild(0)),
		}
	case "parenthesized_expression":
		return &ast.ParenExpr{Inner: w.expr(n.NamedChild(0))}
	case "reference_expression":
		return &ast.RefExpr{
			Inner:   w.expr(n.ChildByFieldName("value")),
			Mutable: hasChildOfType(n, "mutable_specifier"),
		}
	case "try_expression":
		return &ast.TryExpr{Inner: w.expr(n.NamedChild(0))}
	case "assignment_expression":
		return &ast.AssignExpr{
			LHS: w.expr(n.ChildByFieldName("left")),
			Op:  ast.OpAssign,
			RHS: w.expr(n.ChildByFieldName("right")),
		}
	case "compound_assignment_expr":
		return &ast.AssignExpr{
			LHS: w.expr(n.ChildByFieldName("left")),
			Op:  compoundOp(w.operatorToken(n)),
			RHS: w.expr(n.ChildByFieldName("right")),
		}
	case "if_expression", "if_let_expression":
		return w.ifExpr(n)
	case "match_expression":
		return w.matchExpr(n)
	case "for_expression":
		return &ast.ForExpr{
			Iter: w.expr(n.ChildByFieldName("value")),
			Body: w.block(n.ChildByFieldName("body")),
		}
	case "while_expression", "while_let_expression":
		return &ast.WhileExpr{
			Cond: w.expr(n.ChildByFieldName("condition")),
			Body: w.block(n.ChildByFieldName("body")),
		}
	case "block":
		return &ast.BlockExpr{Body: w.block(n)}
	case "await_expression":
		return &ast.AwaitExpr{Inner: w.expr(n.NamedChild(0))}
	default:
		return &ast.OtherExpr{}
	}
}

func isExprNodeType(t string) bool {
	switch t {
	case "call_expression", "field_expression", "identifier", "scoped_identifier",
		"self", "binary_expression", "unary_expression", "parenthesized_expression",
		"reference_expression", "try_expression", "assignment_expression",
		"compound_assignment_expr", "if_expression", "if_let_expression",
		"match_expression", "for_expression", "while_expression",
		"while_let_expression", "block", "await_expression":
		return true
	default:
		return false
	}
}

// callExpr disambiguates a free-function call from a method call.
// tree-sitter's Rust grammar has no distinct "method_call_expression"
// kind: `a.b(args)` parses as call_expression whose function field is
// itself a field_expression. The adapter resolves the ambiguity here.
func (w *walker) callExpr(n *sitter.Node) ast.Expr {
	fn := n.ChildByFieldName("function")
	args := w.argumentList(n.ChildByFieldName("arguments"))

	if fn != nil && fn.Type() == "field_expression" {
		return &ast.MethodCallExpr{
			Receiver: w.expr(fn.ChildByFieldName("value")),
			Method:   w.text(fn.ChildByFieldName("field")),
			Args:     args,
		}
	}

	return &ast.CallExpr{
		Callee: w.expr(fn),
		Args:   args,
	}
}

func (w *walker) argumentList(n *sitter.Node) []ast.Expr {
	if n == nil {
		return nil
	}
	var out []ast.Expr
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		out = append(out, w.expr(n.NamedChild(i)))
	}
	return out
}

func (w *walker) pathExpr(n *sitter.Node) *ast.PathExpr {
	if n.Type() != "scoped_identifier" {
		return &ast.PathExpr{Segments: []string{w.text(n)}}
	}
	// scoped_identifier nests leftward: `a::b::c` is
	// (scoped_identifier path: (scoped_identifier a::b) name: c),
	// so the qualifier flattens recursively.
	var segments []string
	if path := n.ChildByFieldName("path"); path != nil {
		if path.Type() == "scoped_identifier" {
			segments = w.pathExpr(path).Segments
		} else {
			segments = []string{w.text(path)}
		}
	}
	if name := n.ChildByFieldName("name"); name != nil {
		segments = append(segments, w.text(name))
	}
	if len(segments) == 0 {
		segments = []string{w.text(n)}
	}
	return &ast.PathExpr{Segments: segments}
}

func hasChildOfType(n *sitter.Node, typ string) bool {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		if n.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}

func (w *walker) binaryExpr(n *sitter.Node) *ast.BinaryExpr {
	return &ast.BinaryExpr{
		Left:  w.expr(n.ChildByFieldName("left")),
		Op:    binOp(w.operatorToken(n)),
		Right: w.expr(n.ChildByFieldName("right")),
	}
}

// operatorToken finds the operator's source text for a binary,
// compound-assignment, or unary node: the lone child that isn't one
// of the node's own named operand fields.
func (w *walker) operatorToken(n *sitter.Node) string {
	count := int(n.ChildCount())
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	value := n.ChildByFieldName("value")
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == left || child == right || child == value {
			continue
		}
		if !child.IsNamed() {
			return w.text(child)
		}
	}
	return ""
}

func binOp(token string) ast.BinOp {
	switch token {
	case "==":
		return ast.OpEq
	case "!=":
		return ast.OpNe
	case "<":
		return ast.OpLt
	case "<=":
		return ast.OpLe
	case ">":
		return ast.OpGt
	case ">=":
		return ast.OpGe
	default:
		return ast.OpUnknown
	}
}

func compoundOp(token string) ast.BinOp {
	switch token {
	case "+=":
		return ast.OpAddAssign
	case "-=":
		return ast.OpSubAssign
	case "*=":
		return ast.OpMulAssign
	case "/=":
		return ast.OpDivAssign
	case "%=":
		return ast.OpRemAssign
	case "^=":
		return ast.OpXorAssign
	case "&=":
		return ast.OpAndAssign
	case "|=":
		return ast.OpOrAssign
	case "<<=":
		return ast.OpShlAssign
	case ">>=":
		return ast.OpShrAssign
	default:
		return ast.OpUnknown
	}
}

func (w *walker) ifExpr(n *sitter.Node) *ast.IfExpr {
	ifExpr := &ast.IfExpr{
		Cond: w.expr(n.ChildByFieldName("condition")),
		Then: w.block(n.ChildByFieldName("consequence")),
	}

	// The grammar wraps the else branch in an else_clause node whose
	// sole named child is the block or the chained if.
	alt := n.ChildByFieldName("alternative")
	if alt != nil && alt.Type() == "else_clause" {
		alt = alt.NamedChild(0)
	}
	if alt == nil {
		return ifExpr
	}
	switch alt.Type() {
	case "block":
		ifExpr.Alt = &ast.BlockExpr{Body: w.block(alt)}
	case "if_expression", "if_let_expression":
		ifExpr.Alt = w.ifExpr(alt)
	default:
		ifExpr.Alt = w.expr(alt)
	}
	return ifExpr
}

func (w *walker) matchExpr(n *sitter.Node) *ast.MatchExpr {
	m := &ast.MatchExpr{Scrutinee: w.expr(n.ChildByFieldName("value"))}

	body := n.ChildByFieldName("body")
	if body == nil {
		return m
	}
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		arm := body.NamedChild(i)
		if arm.Type() != "match_arm" {
			continue
		}
		value := arm.ChildByFieldName("value")
		if value == nil {
			continue
		}
		m.Arms = append(m.Arms, ast.MatchArm{Body: w.expr(value)})
	}
	return m
}
