// Package rules defines the Rule interface shared by the four defect
// detectors, plus the registry the CLI introspection commands use.
package rules

import (
	"github.com/vaultlint/vaultlint/pkg/ast"
	"github.com/vaultlint/vaultlint/pkg/report"
	"github.com/vaultlint/vaultlint/pkg/vocab"
)

// Rule is a single, independent, pure analysis pass: AST in, findings
// out. Rules never mutate the translation unit they are given.
type Rule interface {
	Name() string
	Description() string
	Severity() report.Severity

	// Analyze inspects the translation unit and returns the findings
	// this rule produces, in traversal order.
	Analyze(tu *ast.TranslationUnit, v *vocab.Vocabulary) []report.Finding
}

// BaseRule carries the metadata common to every rule so the `rules`
// and `explain` commands have something uniform to introspect.
type BaseRule struct {
	name        string
	description string
	severity    report.Severity
}

// NewBaseRule builds a BaseRule with the given metadata.
func NewBaseRule(name, description string, severity report.Severity) BaseRule {
	return BaseRule{name: name, description: description, severity: severity}
}

func (b BaseRule) Name() string              { return b.name }
func (b BaseRule) Description() string       { return b.description }
func (b BaseRule) Severity() report.Severity { return b.severity }

// Info is the display-oriented snapshot of a rule's metadata, used by
// the `rules` and `explain` CLI subcommands.
type Info struct {
	Name        string
	Description string
	Severity    report.Severity
}

// GetInfo extracts display metadata from a rule.
func GetInfo(r Rule) Info {
	return Info{Name: r.Name(), Description: r.Description(), Severity: r.Severity()}
}
