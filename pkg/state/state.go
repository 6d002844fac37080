// Package state infers, per function body, which local bindings hold
// deserialized on-chain account state. The resulting set is consumed
// only by the access-control rule.
package state

import (
	"github.com/vaultlint/vaultlint/pkg/ast"
	"github.com/vaultlint/vaultlint/pkg/vocab"
)

// Set is the state-variable set for a single function invocation of the
// tracker; it has the lifetime of one rule invocation.
type Set map[string]struct{}

// Has reports whether name is a known state variable.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) add(name string) {
	if name != "" {
		s[name] = struct{}{}
	}
}

// Track computes the state-variable set for a function body.
func Track(body *ast.Block, v *vocab.Vocabulary) Set {
	set := make(Set)
	if body == nil {
		return set
	}
	trackBlock(body, set, v)
	return set
}

func trackBlock(b *ast.Block, set Set, v *vocab.Vocabulary) {
	if b == nil {
		return
	}
	for _, stmt := range b.Stmts {
		trackStmt(stmt, set, v)
	}
}

func trackStmt(s ast.Stmt, set Set, v *vocab.Vocabulary) {
	switch st := s.(type) {
	case *ast.LetStmt:
		trackLet(st, set, v)
	case *ast.ExprStmt:
		trackExpr(st.X, set, v)
	}
}

func trackLet(st *ast.LetStmt, set Set, v *vocab.Vocabulary) {
	if st.Init == nil {
		return
	}
	ident, ok := st.Pattern.(*ast.IdentPattern)
	if !ok {
		return
	}
	if ast.IsDeserializeOfAccountData(st.Init, v) {
		set.add(ident.Name)
	}
}

// trackExpr recurses into blocks, if/else branches, match arms, and
// assign expressions looking for a deserialization assigned into an
// identifier-rooted left-hand side.
func trackExpr(e ast.Expr, set Set, v *vocab.Vocabulary) {
	switch x := e.(type) {
	case *ast.BlockExpr:
		trackBlock(x.Body, set, v)
	case *ast.IfExpr:
		trackExpr(x.Cond, set, v)
		trackBlock(x.Then, set, v)
		if x.Alt != nil {
			trackExpr(x.Alt, set, v)
		}
	case *ast.MatchExpr:
		trackExpr(x.Scrutinee, set, v)
		for _, arm := range x.Arms {
			trackExpr(arm.Body, set, v)
		}
	case *ast.AssignExpr:
		trackExpr(x.RHS, set, v)
		if ast.IsDeserializeOfAccountData(x.RHS, v) {
			if name, ok := assignTargetIdent(x.LHS); ok {
				set.add(name)
			}
		}
	}
}

// assignTargetIdent resolves the left-hand side of an assignment to an
// identifier, either directly or as the base of a field-access chain.
func assignTargetIdent(e ast.Expr) (string, bool) {
	for {
		switch x := e.(type) {
		case *ast.PathExpr:
			if len(x.Segments) == 1 {
				return x.Segments[0], true
			}
			return "", false
		case *ast.FieldExpr:
			e = x.Base
		default:
			return "", false
		}
	}
}
