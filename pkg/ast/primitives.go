package ast

import (
	"strings"

	"github.com/vaultlint/vaultlint/pkg/vocab"
)

// CallName returns the last path-segment identifier of a call's callee,
// or "" if the callee is not a path. Used for free-function calls.
func CallName(e Expr) string {
	call, ok := e.(*CallExpr)
	if !ok {
		return ""
	}
	if path, ok := call.Callee.(*PathExpr); ok {
		return path.LastSegment()
	}
	return ""
}

// MemberName returns the string form of a member reference: the
// identifier for a named member, or the decimal index for a positional
// one.
func MemberName(m Member) string {
	switch v := m.(type) {
	case NamedMember:
		return v.Name
	case IndexMember:
		return indexToDecimal(v.Index)
	default:
		return ""
	}
}

func indexToDecimal(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// peelTry strips any try-propagation (`?`) wrapper from an expression.
func peelTry(e Expr) Expr {
	for {
		t, ok := e.(*TryExpr)
		if !ok {
			return e
		}
		e = t.Inner
	}
}

// peelRef strips any reference-of (`&`, `&mut`) wrapper from an
// expression.
func peelRef(e Expr) Expr {
	for {
		r, ok := e.(*RefExpr)
		if !ok {
			return e
		}
		e = r.Inner
	}
}

// ContainsSwap reports whether e is, or recursively contains, a
// swap-like call or method call. Detection on a call is name-only:
// arguments and receivers are deliberately not descended into, so
// `invoke(&transfer_instruction, accounts)` is not itself a swap.
func ContainsSwap(e Expr, v *vocab.Vocabulary) bool {
	if e == nil {
		return false
	}
	switch x := e.(type) {
	case *CallExpr:
		return v.SwapNames.Has(CallName(x))
	case *MethodCallExpr:
		return v.SwapNames.Has(x.Method)
	case *BlockExpr:
		return blockContainsSwap(x.Body, v)
	case *IfExpr:
		if ContainsSwap(x.Cond, v) || blockContainsSwap(x.Then, v) {
			return true
		}
		return ContainsSwap(x.Alt, v)
	case *MatchExpr:
		if ContainsSwap(x.Scrutinee, v) {
			return true
		}
		for _, arm := range x.Arms {
			if ContainsSwap(arm.Body, v) {
				return true
			}
		}
		return false
	case *WhileExpr:
		return ContainsSwap(x.Cond, v) || blockContainsSwap(x.Body, v)
	case *ForExpr:
		return ContainsSwap(x.Iter, v) || blockContainsSwap(x.Body, v)
	case *ParenExpr:
		return ContainsSwap(x.Inner, v)
	case *TryExpr:
		return ContainsSwap(x.Inner, v)
	case *AwaitExpr:
		return ContainsSwap(x.Inner, v)
	case *UnaryExpr:
		return ContainsSwap(x.Operand, v)
	case *BinaryExpr:
		return ContainsSwap(x.Left, v) || ContainsSwap(x.Right, v)
	default:
		return false
	}
}

func blockContainsSwap(b *Block, v *vocab.Vocabulary) bool {
	if b == nil {
		return false
	}
	for _, s := range b.Stmts {
		if StmtContainsSwap(s, v) {
			return true
		}
	}
	return false
}

// StmtContainsSwap reports whether a statement contains a swap
// operation: an expression statement delegates to its expression, a
// let-binding checks its initializer, anything else is false.
func StmtContainsSwap(s Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ExprStmt:
		return ContainsSwap(st.X, v)
	case *LetStmt:
		if st.Init == nil {
			return false
		}
		return ContainsSwap(st.Init, v)
	default:
		return false
	}
}

// ContainsAccountCreation reports whether e is, or recursively
// contains, a call to an account-creation vocabulary name.
func ContainsAccountCreation(e Expr, v *vocab.Vocabulary) bool {
	if e == nil {
		return false
	}
	switch x := e.(type) {
	case *CallExpr:
		if v.AccountCreationNames.Has(CallName(x)) {
			return true
		}
		return anyContainsAccountCreation(x.Args, v)
	case *MethodCallExpr:
		if v.AccountCreationNames.Has(x.Method) {
			return true
		}
		return anyContainsAccountCreation(x.Args, v)
	case *BlockExpr:
		return blockAny(x.Body, v, ContainsAccountCreation)
	case *IfExpr:
		if ContainsAccountCreation(x.Cond, v) || blockAny(x.Then, v, ContainsAccountCreation) {
			return true
		}
		return ContainsAccountCreation(x.Alt, v)
	case *MatchExpr:
		if ContainsAccountCreation(x.Scrutinee, v) {
			return true
		}
		for _, arm := range x.Arms {
			if ContainsAccountCreation(arm.Body, v) {
				return true
			}
		}
		return false
	case *WhileExpr:
		return ContainsAccountCreation(x.Cond, v) || blockAny(x.Body, v, ContainsAccountCreation)
	case *ForExpr:
		return ContainsAccountCreation(x.Iter, v) || blockAny(x.Body, v, ContainsAccountCreation)
	case *ParenExpr:
		return ContainsAccountCreation(x.Inner, v)
	case *TryExpr:
		return ContainsAccountCreation(x.Inner, v)
	case *AwaitExpr:
		return ContainsAccountCreation(x.Inner, v)
	case *UnaryExpr:
		return ContainsAccountCreation(x.Operand, v)
	case *BinaryExpr:
		return ContainsAccountCreation(x.Left, v) || ContainsAccountCreation(x.Right, v)
	default:
		return false
	}
}

func anyContainsAccountCreation(args []Expr, v *vocab.Vocabulary) bool {
	for _, a := range args {
		if ContainsAccountCreation(a, v) {
			return true
		}
	}
	return false
}

// StmtContainsAccountCreation reports whether a statement contains an
// account-creation call.
func StmtContainsAccountCreation(s Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ExprStmt:
		return ContainsAccountCreation(st.X, v)
	case *LetStmt:
		if st.Init == nil {
			return false
		}
		return ContainsAccountCreation(st.Init, v)
	default:
		return false
	}
}

// ContainsRentExemptionCheck reports whether e is, or recursively
// contains, a call `rent.is_exempt(...)`.
func ContainsRentExemptionCheck(e Expr, v *vocab.Vocabulary) bool {
	if e == nil {
		return false
	}
	switch x := e.(type) {
	case *MethodCallExpr:
		if isRentExemptionCall(x, v) {
			return true
		}
		return anyContainsRentExemption(x.Args, v)
	case *CallExpr:
		return anyContainsRentExemption(x.Args, v)
	case *BlockExpr:
		return blockAny(x.Body, v, ContainsRentExemptionCheck)
	case *IfExpr:
		if ContainsRentExemptionCheck(x.Cond, v) || blockAny(x.Then, v, ContainsRentExemptionCheck) {
			return true
		}
		return ContainsRentExemptionCheck(x.Alt, v)
	case *MatchExpr:
		if ContainsRentExemptionCheck(x.Scrutinee, v) {
			return true
		}
		for _, arm := range x.Arms {
			if ContainsRentExemptionCheck(arm.Body, v) {
				return true
			}
		}
		return false
	case *WhileExpr:
		return ContainsRentExemptionCheck(x.Cond, v) || blockAny(x.Body, v, ContainsRentExemptionCheck)
	case *ForExpr:
		return ContainsRentExemptionCheck(x.Iter, v) || blockAny(x.Body, v, ContainsRentExemptionCheck)
	case *ParenExpr:
		return ContainsRentExemptionCheck(x.Inner, v)
	case *TryExpr:
		return ContainsRentExemptionCheck(x.Inner, v)
	case *AwaitExpr:
		return ContainsRentExemptionCheck(x.Inner, v)
	case *UnaryExpr:
		return ContainsRentExemptionCheck(x.Operand, v)
	case *BinaryExpr:
		return ContainsRentExemptionCheck(x.Left, v) || ContainsRentExemptionCheck(x.Right, v)
	default:
		return false
	}
}

func isRentExemptionCall(call *MethodCallExpr, v *vocab.Vocabulary) bool {
	if call.Method != v.RentMethod {
		return false
	}
	path, ok := call.Receiver.(*PathExpr)
	if !ok {
		return false
	}
	return len(path.Segments) == 1 && strings.EqualFold(path.Segments[0], v.RentReceiver)
}

func anyContainsRentExemption(args []Expr, v *vocab.Vocabulary) bool {
	for _, a := range args {
		if ContainsRentExemptionCheck(a, v) {
			return true
		}
	}
	return false
}

// StmtContainsRentExemptionCheck reports whether a statement contains
// a `rent.is_exempt(...)` call.
func StmtContainsRentExemptionCheck(s Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ExprStmt:
		return ContainsRentExemptionCheck(st.X, v)
	case *LetStmt:
		if st.Init == nil {
			return false
		}
		return ContainsRentExemptionCheck(st.Init, v)
	default:
		return false
	}
}

// blockAny runs a recursor over every statement's expression form in a
// block, returning true on the first hit. It covers expr-statements
// directly and let-binding initializers, mirroring StmtContainsSwap's
// shape for the other two containment predicates.
func blockAny(b *Block, v *vocab.Vocabulary, recurse func(Expr, *vocab.Vocabulary) bool) bool {
	if b == nil {
		return false
	}
	for _, s := range b.Stmts {
		switch st := s.(type) {
		case *ExprStmt:
			if recurse(st.X, v) {
				return true
			}
		case *LetStmt:
			if st.Init != nil && recurse(st.Init, v) {
				return true
			}
		}
	}
	return false
}

// IsAccessControlExpr reports whether e itself, or anything nested
// inside it, is an access-control check: a call to a gate function, a
// method call to a gate method, or a field read of an identity
// identifier.
func IsAccessControlExpr(e Expr, v *vocab.Vocabulary) bool {
	if e == nil {
		return false
	}
	switch x := e.(type) {
	case *CallExpr:
		if v.GateFunctions.Has(CallName(x)) {
			return true
		}
		return anyAccessControl(x.Args, v)
	case *MethodCallExpr:
		if v.GateMethods.Has(x.Method) {
			return true
		}
		if IsAccessControlExpr(x.Receiver, v) {
			return true
		}
		return anyAccessControl(x.Args, v)
	case *FieldExpr:
		if named, ok := x.Member.(NamedMember); ok && v.IdentityIdentifiers.Has(named.Name) {
			return true
		}
		return IsAccessControlExpr(x.Base, v)
	case *IfExpr:
		if IsAccessControlExpr(x.Cond, v) {
			return true
		}
		if blockAny(x.Then, v, IsAccessControlExpr) {
			return true
		}
		return IsAccessControlExpr(x.Alt, v)
	case *BinaryExpr:
		return IsAccessControlExpr(x.Left, v) || IsAccessControlExpr(x.Right, v)
	case *UnaryExpr:
		return IsAccessControlExpr(x.Operand, v)
	case *ParenExpr:
		return IsAccessControlExpr(x.Inner, v)
	case *TryExpr:
		return IsAccessControlExpr(x.Inner, v)
	case *AwaitExpr:
		return IsAccessControlExpr(x.Inner, v)
	case *BlockExpr:
		return blockAny(x.Body, v, IsAccessControlExpr)
	case *MatchExpr:
		if IsAccessControlExpr(x.Scrutinee, v) {
			return true
		}
		for _, arm := range x.Arms {
			if IsAccessControlExpr(arm.Body, v) {
				return true
			}
		}
		return false
	case *WhileExpr:
		return IsAccessControlExpr(x.Cond, v) || blockAny(x.Body, v, IsAccessControlExpr)
	case *ForExpr:
		return IsAccessControlExpr(x.Iter, v) || blockAny(x.Body, v, IsAccessControlExpr)
	default:
		return false
	}
}

func anyAccessControl(args []Expr, v *vocab.Vocabulary) bool {
	for _, a := range args {
		if IsAccessControlExpr(a, v) {
			return true
		}
	}
	return false
}

// StmtIsAccessControl reports whether a statement contains an
// access-control expression anywhere within it.
func StmtIsAccessControl(s Stmt, v *vocab.Vocabulary) bool {
	switch st := s.(type) {
	case *ExprStmt:
		return IsAccessControlExpr(st.X, v)
	case *LetStmt:
		return st.Init != nil && IsAccessControlExpr(st.Init, v)
	default:
		return false
	}
}

// IsDeserializeOfAccountData reports whether e, after peeling
// try-propagation, is a call or method-call to a deserialization-
// vocabulary name whose argument (free call) or receiver (method call)
// is, after peeling reference-of, `account_info.data.borrow()` or
// `account_info.data.borrow_mut()`.
func IsDeserializeOfAccountData(e Expr, v *vocab.Vocabulary) bool {
	e = peelTry(e)
	switch x := e.(type) {
	case *CallExpr:
		if !v.DeserializeNames.Has(CallName(x)) || len(x.Args) == 0 {
			return false
		}
		return isAccountDataBorrow(peelRef(x.Args[0]))
	case *MethodCallExpr:
		if !v.DeserializeNames.Has(x.Method) {
			return false
		}
		return isAccountDataBorrow(peelRef(x.Receiver))
	default:
		return false
	}
}

// isAccountDataBorrow reports whether e is `account_info.data.borrow()`
// or `account_info.data.borrow_mut()`.
func isAccountDataBorrow(e Expr) bool {
	call, ok := e.(*MethodCallExpr)
	if !ok {
		return false
	}
	if call.Method != "borrow" && call.Method != "borrow_mut" {
		return false
	}
	field, ok := call.Receiver.(*FieldExpr)
	if !ok {
		return false
	}
	named, ok := field.Member.(NamedMember)
	if !ok || named.Name != "data" {
		return false
	}
	base, ok := field.Base.(*PathExpr)
	if !ok {
		return false
	}
	return len(base.Segments) == 1 && base.Segments[0] == "account_info"
}
