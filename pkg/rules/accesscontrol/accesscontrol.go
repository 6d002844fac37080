// Package accesscontrol implements the access-control rule: a function
// or method that mutates tracked account state without first running
// any check drawn from the access-control vocabulary.
package accesscontrol

import (
	"fmt"

	"github.com/vaultlint/vaultlint/pkg/ast"
	"github.com/vaultlint/vaultlint/pkg/report"
	"github.com/vaultlint/vaultlint/pkg/rules"
	"github.com/vaultlint/vaultlint/pkg/state"
	"github.com/vaultlint/vaultlint/pkg/vocab"
)

func init() {
	rules.Register(NewRule())
}

// Rule flags state-modifying functions/methods that never run an
// access-control check before the modification takes effect.
type Rule struct {
	rules.BaseRule
}

// NewRule builds the access-control rule.
func NewRule() *Rule {
	return &Rule{
		BaseRule: rules.NewBaseRule(
			"access-control",
			"Flags functions and methods that mutate account state without a preceding access-control check",
			report.SeverityHigh,
		),
	}
}

// Analyze walks every function and impl method looking for a
// state-modifying operation that is never preceded, in sequence, by an
// access-control check.
func (r *Rule) Analyze(tu *ast.TranslationUnit, v *vocab.Vocabulary) []report.Finding {
	var findings []report.Finding

	for _, body := range tu.Bodies() {
		block := body.Body()
		if block == nil {
			continue
		}

		vars := state.Track(block, v)
		if !blockModifiesState(block, vars, v) {
			continue
		}
		if hasAccessControlChecks(block, v) {
			continue
		}

		noun := "Function"
		if body.Kind() == ast.KindMethod {
			noun = "Method"
		}
		findings = append(findings, report.New(r.Name(), r.Severity(),
			fmt.Sprintf("%s '%s' may lack access control.", noun, body.Name())))
	}

	return findings
}

// blockModifiesState reports whether any statement in the block
// performs a state-modifying operation against a tracked state
// variable. This is the precondition gate: a function that never
// touches tracked state cannot be missing access control, no matter
// what else it does.
func blockModifiesState(b *ast.Block, vars state.Set, v *vocab.Vocabulary) bool {
	for _, stmt := range b.Stmts {
		if stmtModifiesState(stmt, vars, v) {
			return true
		}
	}
	return false
}

func stmtModifiesState(s ast.Stmt, vars state.Set, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return exprModifiesState(st.X, vars, v)
	case *ast.LetStmt:
		if st.Init == nil {
			return false
		}
		return exprModifiesState(st.Init, vars, v)
	default:
		return false
	}
}

func exprModifiesState(e ast.Expr, vars state.Set, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.AssignExpr:
		if x.Op != ast.OpAssign {
			return false
		}
		return isStateVariableExpr(x.LHS, vars)
	case *ast.MethodCallExpr:
		if v.SerializeMethods.Has(x.Method) && isStateVariableExpr(x.Receiver, vars) {
			return true
		}
		for _, arg := range x.Args {
			if exprModifiesState(arg, vars, v) {
				return true
			}
		}
		return false
	case *ast.BlockExpr:
		return blockModifiesState(x.Body, vars, v)
	case *ast.IfExpr:
		if exprModifiesState(x.Cond, vars, v) {
			return true
		}
		if blockModifiesState(x.Then, vars, v) {
			return true
		}
		if x.Alt != nil {
			return exprModifiesState(x.Alt, vars, v)
		}
		return false
	default:
		return false
	}
}

// isStateVariableExpr reports whether expr names (or is a field
// access off) a tracked state variable.
func isStateVariableExpr(e ast.Expr, vars state.Set) bool {
	switch x := e.(type) {
	case *ast.PathExpr:
		return vars.Has(x.LastSegment())
	case *ast.FieldExpr:
		path, ok := x.Base.(*ast.PathExpr)
		if !ok {
			return false
		}
		return vars.Has(path.LastSegment())
	default:
		return false
	}
}

// hasAccessControlChecks walks the block looking for an
// access-control check that "arms" before every state-modifying
// statement. A check seen earlier in the same block covers any
// modification that follows it, until consumed; a modification with
// no check armed ahead of it fails the block.
func hasAccessControlChecks(b *ast.Block, v *vocab.Vocabulary) bool {
	return analyzeBlock(b, v)
}

func analyzeBlock(b *ast.Block, v *vocab.Vocabulary) bool {
	armed := false

	for _, stmt := range b.Stmts {
		if ast.StmtIsAccessControl(stmt, v) {
			armed = true
		}

		if modifiesStateSimple(stmt, v) {
			if !armed {
				return false
			}
			armed = false
		}

		if exprStmt, ok := stmt.(*ast.ExprStmt); ok {
			if ifExpr, ok := exprStmt.X.(*ast.IfExpr); ok {
				if !analyzeIf(ifExpr, v) {
					return false
				}
			}
		}
	}

	return true
}

func analyzeIf(ifExpr *ast.IfExpr, v *vocab.Vocabulary) bool {
	thenOK := analyzeBlock(ifExpr.Then, v)

	elseOK := true
	switch alt := ifExpr.Alt.(type) {
	case nil:
		elseOK = true
	case *ast.BlockExpr:
		elseOK = analyzeBlock(alt.Body, v)
	case *ast.IfExpr:
		elseOK = analyzeIf(alt, v)
	default:
		elseOK = true
	}

	return thenOK && elseOK
}

// modifiesStateSimple reports whether a statement performs a
// structural state-modifying operation, without regard to whether its
// target is a tracked state variable. Used only for the armed/consumed
// walk, where any assignment or serialize call resets the guard. A
// serialize call wrapped in try-propagation (`x.serialize(..)?`) is not
// looked through and does not count.
func modifiesStateSimple(s ast.Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return exprModifiesStateSimple(st.X, v)
	case *ast.LetStmt:
		if st.Init == nil {
			return false
		}
		return exprModifiesStateSimple(st.Init, v)
	default:
		return false
	}
}

func exprModifiesStateSimple(e ast.Expr, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.AssignExpr:
		return true
	case *ast.BinaryExpr:
		return x.Op.IsCompoundAssign()
	case *ast.MethodCallExpr:
		if v.SerializeMethods.Has(x.Method) {
			return true
		}
		for _, arg := range x.Args {
			if exprModifiesStateSimple(arg, v) {
				return true
			}
		}
		return false
	case *ast.BlockExpr:
		for _, stmt := range x.Body.Stmts {
			if modifiesStateSimple(stmt, v) {
				return true
			}
		}
		return false
	case *ast.IfExpr:
		if exprModifiesStateSimple(x.Cond, v) {
			return true
		}
		for _, stmt := range x.Then.Stmts {
			if modifiesStateSimple(stmt, v) {
				return true
			}
		}
		if x.Alt != nil {
			return exprModifiesStateSimple(x.Alt, v)
		}
		return false
	default:
		return false
	}
}
