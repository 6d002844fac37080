// Package rent implements the rent-exemption rule: a function or
// method that creates a new account without anywhere checking that
// account for rent exemption.
package rent

import (
	"fmt"

	"github.com/vaultlint/vaultlint/pkg/ast"
	"github.com/vaultlint/vaultlint/pkg/report"
	"github.com/vaultlint/vaultlint/pkg/rules"
	"github.com/vaultlint/vaultlint/pkg/vocab"
)

func init() {
	rules.Register(NewRule())
}

// Rule flags functions/methods that create an account but never call
// `rent.is_exempt(...)` anywhere in the same body. Unlike the
// access-control and slippage rules, presence of the check anywhere in
// the body is enough; there is no ordering requirement between the
// creation site and the check site.
type Rule struct {
	rules.BaseRule
}

// NewRule builds the rent-exemption rule.
func NewRule() *Rule {
	return &Rule{
		BaseRule: rules.NewBaseRule(
			"rent-exemption",
			"Flags account creation that is never checked for rent exemption",
			report.SeverityMedium,
		),
	}
}

// Analyze reports one finding per function/method that creates a new
// account and has no rent-exemption check anywhere in its body.
func (r *Rule) Analyze(tu *ast.TranslationUnit, v *vocab.Vocabulary) []report.Finding {
	var findings []report.Finding

	for _, body := range tu.Bodies() {
		block := body.Body()
		if block == nil || !createsNewAccount(block, v) || hasRentExemptionCheck(block, v) {
			continue
		}

		noun := "Function"
		if body.Kind() == ast.KindMethod {
			noun = "Method"
		}
		findings = append(findings, report.New(r.Name(), r.Severity(),
			fmt.Sprintf("%s '%s' creates a new account without checking for rent exemption.", noun, body.Name())))
	}

	return findings
}

func createsNewAccount(b *ast.Block, v *vocab.Vocabulary) bool {
	for _, stmt := range b.Stmts {
		if ast.StmtContainsAccountCreation(stmt, v) {
			return true
		}
	}
	return false
}

func hasRentExemptionCheck(b *ast.Block, v *vocab.Vocabulary) bool {
	for _, stmt := range b.Stmts {
		if ast.StmtContainsRentExemptionCheck(stmt, v) {
			return true
		}
	}
	return false
}
