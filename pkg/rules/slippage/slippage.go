// Package slippage implements the slippage-check rule: a swap-like
// function or method that performs a swap operation without a
// preceding check comparing an expected amount against an actual one.
package slippage

import (
	"fmt"
	"strings"

	"github.com/vaultlint/vaultlint/pkg/ast"
	"github.com/vaultlint/vaultlint/pkg/report"
	"github.com/vaultlint/vaultlint/pkg/rules"
	"github.com/vaultlint/vaultlint/pkg/vocab"
)

func init() {
	rules.Register(NewRule())
}

// Rule flags swap-like functions/methods where a swap operation
// statement has no slippage-check statement before it in the body.
//
// A function/method not recognized as swap-like (no swap operation
// anywhere in its body) is never analyzed. The rule recognizes swaps
// by call/method name only, never by variable naming, so a swap
// performed through a wrapper with an unrelated name is a known
// false negative.
type Rule struct {
	rules.BaseRule
}

// NewRule builds the slippage rule.
func NewRule() *Rule {
	return &Rule{
		BaseRule: rules.NewBaseRule(
			"slippage",
			"Flags swap operations performed without a preceding expected-vs-actual amount check",
			report.SeverityHigh,
		),
	}
}

// Analyze reports, for each swap-like function/method, at most one
// finding: the first swap-operation statement with no slippage-check
// statement preceding it.
func (r *Rule) Analyze(tu *ast.TranslationUnit, v *vocab.Vocabulary) []report.Finding {
	var findings []report.Finding

	for _, body := range tu.Bodies() {
		block := body.Body()
		if block == nil || !isSwapLike(block, v) {
			continue
		}

		var swaps, checks []int
		for i, stmt := range block.Stmts {
			if ast.StmtContainsSwap(stmt, v) {
				swaps = append(swaps, i)
			}
			if stmtIsSlippageCheck(stmt, v) {
				checks = append(checks, i)
			}
		}

		for _, pos := range swaps {
			if hasEarlierCheck(pos, checks) {
				continue
			}
			noun := "Function"
			if body.Kind() == ast.KindMethod {
				noun = "Method"
			}
			findings = append(findings, report.New(r.Name(), r.Severity(),
				fmt.Sprintf("%s '%s' performs a swap operation without a slippage check.", noun, body.Name())))
			break
		}
	}

	return findings
}

func isSwapLike(b *ast.Block, v *vocab.Vocabulary) bool {
	for _, stmt := range b.Stmts {
		if ast.StmtContainsSwap(stmt, v) {
			return true
		}
	}
	return false
}

func hasEarlierCheck(pos int, checks []int) bool {
	for _, c := range checks {
		if c < pos {
			return true
		}
	}
	return false
}

func stmtIsSlippageCheck(s ast.Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return exprIsSlippageCheck(st.X, v)
	case *ast.LetStmt:
		if st.Init == nil {
			return false
		}
		return exprIsSlippageCheck(st.Init, v)
	default:
		return false
	}
}

func exprIsSlippageCheck(e ast.Expr, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.IfExpr:
		if isSlippageCondition(x.Cond, v) {
			return true
		}
		return blockContainsSlippageCheck(x.Then, v)
	case *ast.BlockExpr:
		return blockContainsSlippageCheck(x.Body, v)
	case *ast.ParenExpr:
		return exprIsSlippageCheck(x.Inner, v)
	case *ast.MatchExpr:
		for _, arm := range x.Arms {
			if exprIsSlippageCheck(arm.Body, v) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func blockContainsSlippageCheck(b *ast.Block, v *vocab.Vocabulary) bool {
	for _, stmt := range b.Stmts {
		if stmtIsSlippageCheck(stmt, v) {
			return true
		}
	}
	return false
}

func isSlippageCondition(e ast.Expr, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.BinaryExpr:
		if !x.Op.IsComparison() {
			return false
		}
		return (isExpectedAmountExpr(x.Left, v) && isActualAmountExpr(x.Right, v)) ||
			(isExpectedAmountExpr(x.Right, v) && isActualAmountExpr(x.Left, v))
	case *ast.ParenExpr:
		return isSlippageCondition(x.Inner, v)
	case *ast.UnaryExpr:
		return isSlippageCondition(x.Operand, v)
	default:
		return false
	}
}

func isExpectedAmountExpr(e ast.Expr, v *vocab.Vocabulary) bool {
	path, ok := e.(*ast.PathExpr)
	if !ok {
		return false
	}
	return v.ExpectedAmountFragments.MatchesAny(strings.ToLower(path.LastSegment()))
}

func isActualAmountExpr(e ast.Expr, v *vocab.Vocabulary) bool {
	path, ok := e.(*ast.PathExpr)
	if !ok {
		return false
	}
	return v.ActualAmountFragments.MatchesAny(strings.ToLower(path.LastSegment()))
}
