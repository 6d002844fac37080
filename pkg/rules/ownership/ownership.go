// Package ownership implements the account-ownership rule: a
// top-level function that deserializes account data without first
// checking that account's owner.
package ownership

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

// Rule flags top-level functions that deserialize account data
// without an ownership check preceding the deserialization.
//
// Only free functions are analyzed, not impl methods: account
// deserialization that happens inside a method typically operates on
// an account the surrounding instruction handler already validated.
type Rule struct {
	rules.BaseRule
}

// NewRule builds the ownership rule.
func NewRule() *Rule {
	return &Rule{
		BaseRule: rules.NewBaseRule(
			"ownership",
			"Flags functions that deserialize account data before checking the account's owner",
			report.SeverityHigh,
		),
	}
}

// Analyze reports one finding per deserialization statement that has
// no ownership check at an earlier statement index in the same
// function body.
func (r *Rule) Analyze(tu *ast.TranslationUnit, v *vocab.Vocabulary) []report.Finding {
	var findings []report.Finding

	for _, fn := range tu.Functions() {
		if fn.Body == nil {
			continue
		}

		var deserializations, checks []int
		for i, stmt := range fn.Body.Stmts {
			if stmtIsDeserializationCall(stmt, v) {
				deserializations = append(deserializations, i)
			}
			if stmtIsOwnershipCheck(stmt, v) {
				checks = append(checks, i)
			}
		}

		for _, pos := range deserializations {
			if hasEarlierCheck(pos, checks) {
				continue
			}
			findings = append(findings, report.New(r.Name(), r.Severity(),
				fmt.Sprintf("Function '%s' deserializes an account without checking ownership.", fn.Name)))
		}
	}

	return findings
}

func hasEarlierCheck(pos int, checks []int) bool {
	for _, c := range checks {
		if c < pos {
			return true
		}
	}
	return false
}

func stmtIsDeserializationCall(s ast.Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return exprIsDeserializationCall(st.X, v)
	case *ast.LetStmt:
		if st.Init == nil {
			return false
		}
		return exprIsDeserializationCall(st.Init, v)
	default:
		return false
	}
}

func exprIsDeserializationCall(e ast.Expr, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.MethodCallExpr:
		return v.DeserializeNames.Has(x.Method)
	case *ast.CallExpr:
		return v.DeserializeNames.Has(ast.CallName(x))
	case *ast.TryExpr:
		return exprIsDeserializationCall(x.Inner, v)
	default:
		return false
	}
}

func stmtIsOwnershipCheck(s ast.Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return exprIsOwnershipCheck(st.X, v)
	case *ast.LetStmt:
		if st.Init == nil {
			return false
		}
		return exprIsOwnershipCheck(st.Init, v)
	default:
		return false
	}
}

func exprIsOwnershipCheck(e ast.Expr, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.IfExpr:
		return isOwnershipCheckCondition(x.Cond, v)
	case *ast.MatchExpr:
		for _, arm := range x.Arms {
			if exprIsOwnershipCheck(arm.Body, v) {
				return true
			}
		}
		return false
	case *ast.BlockExpr:
		for _, stmt := range x.Body.Stmts {
			if stmtIsOwnershipCheck(stmt, v) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func isOwnershipCheckCondition(e ast.Expr, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.BinaryExpr:
		if !x.Op.IsEqualityComparison() {
			return false
		}
		return (isAccountOwnerExpr(x.Left, v) && isProgramIDExpr(x.Right)) ||
			(isAccountOwnerExpr(x.Right, v) && isProgramIDExpr(x.Left))
	case *ast.MethodCallExpr:
		return v.OwnershipCheckMethods.Has(strings.ToLower(x.Method))
	case *ast.UnaryExpr:
		return isOwnershipCheckCondition(x.Operand, v)
	case *ast.ParenExpr:
		return isOwnershipCheckCondition(x.Inner, v)
	default:
		return false
	}
}

func isAccountOwnerExpr(e ast.Expr, v *vocab.Vocabulary) bool {
	switch x := e.(type) {
	case *ast.FieldExpr:
		path, ok := x.Base.(*ast.PathExpr)
		if !ok {
			return false
		}
		baseLower := strings.ToLower(path.LastSegment())
		fieldLower := strings.ToLower(ast.MemberName(x.Member))
		return v.AccountBaseFragments.MatchesAny(baseLower) && v.OwnerFieldNames.Has(fieldLower)
	case *ast.MethodCallExpr:
		lower := strings.ToLower(x.Method)
		return lower == "owner" || lower == "key"
	default:
		return false
	}
}

func isProgramIDExpr(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.PathExpr:
		return vocab.IsProgramIDName(x.LastSegment())
	case *ast.FieldExpr:
		return vocab.IsProgramIDName(ast.MemberName(x.Member))
	default:
		return false
	}
}
