// Package engine is the driver: it runs the four rules in a fixed
// order and concatenates their findings.
package engine

import (
	"fmt"
	"os"

	"github.com/vaultlint/vaultlint/pkg/ast"
	"github.com/vaultlint/vaultlint/pkg/parser"
	"github.com/vaultlint/vaultlint/pkg/report"
	"github.com/vaultlint/vaultlint/pkg/rules"
	"github.com/vaultlint/vaultlint/pkg/rules/accesscontrol"
	"github.com/vaultlint/vaultlint/pkg/rules/ownership"
	"github.com/vaultlint/vaultlint/pkg/rules/rent"
	"github.com/vaultlint/vaultlint/pkg/rules/slippage"
	"github.com/vaultlint/vaultlint/pkg/vocab"
)

// orderedRules is called directly, in this exact order, rather than
// through the dynamic rules.Registry: Go gives no language-level
// guarantee about init() ordering between sibling packages, and
// finding order must be deterministic regardless of how the rules
// package is wired for the `rules`/`explain` CLI surfaces.
func orderedRules() []rules.Rule {
	return []rules.Rule{
		accesscontrol.NewRule(),
		ownership.NewRule(),
		slippage.NewRule(),
		rent.NewRule(),
	}
}

// AnalyzeSource parses source text and runs every rule against it,
// returning the concatenated, ordered finding list. A parse failure
// collapses to a single "Failed to parse contract" finding; no rule
// runs.
func AnalyzeSource(source []byte, v vocab.Vocabulary) report.List {
	tu, err := parser.Parse(source)
	if err != nil {
		return report.List{parseFailureFinding(err)}
	}
	return Analyze(tu, v)
}

// Analyze runs every rule against an already-parsed translation unit.
func Analyze(tu *ast.TranslationUnit, v vocab.Vocabulary) report.List {
	var findings report.List
	for _, rule := range orderedRules() {
		findings = append(findings, rule.Analyze(tu, &v)...)
	}
	return findings
}

// AnalyzeFile reads, parses, and analyzes a contract source file. An
// unreadable file is folded into the same "Failed to parse contract"
// finding shape a parse error produces.
func AnalyzeFile(path string, v vocab.Vocabulary) report.List {
	source, err := os.ReadFile(path)
	if err != nil {
		return report.List{parseFailureFinding(err)}
	}
	return AnalyzeSource(source, v)
}

func parseFailureFinding(err error) report.Finding {
	return report.New("parse-error", report.SeverityCritical,
		fmt.Sprintf("Failed to parse contract: %s", err))
}
