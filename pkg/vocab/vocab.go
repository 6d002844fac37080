// Package vocab holds the case-folded name tables the rule engine tests
// identifiers against. Keeping the vocabulary on a value rather than as
// package-level constants lets it be swapped out, by config or by a
// future loadable policy, without touching any traversal code.
package vocab

import "strings"

// Set is an immutable case-insensitive string set.
type Set struct {
	m map[string]struct{}
}

// NewSet builds a Set from the given words, case-folding each one.
func NewSet(words ...string) Set {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToLower(w)] = struct{}{}
	}
	return Set{m: m}
}

// Has reports whether s is a member, case-insensitively.
func (set Set) Has(s string) bool {
	_, ok := set.m[strings.ToLower(s)]
	return ok
}

// FragmentSet is an immutable case-insensitive list of substrings tested
// with Contains rather than exact match, used for the expected/actual
// amount vocabularies.
type FragmentSet struct {
	fragments []string
}

// NewFragmentSet builds a FragmentSet, case-folding each fragment.
func NewFragmentSet(fragments ...string) FragmentSet {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = strings.ToLower(f)
	}
	return FragmentSet{fragments: out}
}

// MatchesAny reports whether any fragment is a substring of s
// (case-insensitively).
func (fs FragmentSet) MatchesAny(s string) bool {
	lower := strings.ToLower(s)
	for _, f := range fs.fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// Vocabulary is the full, replaceable set of name tables the rules
// consult. Build one with Default() and override fields as needed.
type Vocabulary struct {
	// Access control
	GateFunctions       Set
	GateMethods         Set
	IdentityIdentifiers Set

	// Swap-like operations
	SwapNames Set

	// Deserialization entry points
	DeserializeNames Set

	// Account creation
	AccountCreationNames Set

	// Rent-exemption predicate: receiver identifier (case-folded) and
	// method name, `rent.is_exempt(...)` by default.
	RentReceiver string
	RentMethod   string

	// Slippage amount-name fragments
	ExpectedAmountFragments FragmentSet
	ActualAmountFragments   FragmentSet

	// Serialization methods that count as a state-modifying operation
	// alongside assignment.
	SerializeMethods Set

	// Ownership-check method names (is_signer / is_writable).
	OwnershipCheckMethods Set

	// Ownership field names on an account-like receiver (owner / key).
	OwnerFieldNames Set

	// Substrings identifying an "account-ish" base identifier for the
	// ownership rule (base identifier contains "account" or "info").
	AccountBaseFragments FragmentSet
}

// IsProgramIDName reports whether name (the trailing identifier of a
// path or field) identifies a program id: case-folded it contains
// "program_id", ends with "_id", or equals "id".
func IsProgramIDName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "program_id") ||
		strings.HasSuffix(lower, "_id") ||
		lower == "id"
}

// Default returns the built-in vocabulary.
func Default() Vocabulary {
	return Vocabulary{
		GateFunctions: NewSet(
			"assert_eq", "assert_ne", "assert", "require",
			"require_keys_unequal", "require_signer", "check_authority",
		),
		GateMethods: NewSet(
			"is_signer", "has_role", "has_signer", "is_authorized",
		),
		IdentityIdentifiers: NewSet("owner", "authority", "admin"),

		SwapNames: NewSet(
			"transfer", "transfer_from", "swap", "deposit", "withdraw",
			"exchange", "buy", "sell", "send", "receive", "trade",
			"mint", "burn",
		),

		DeserializeNames: NewSet("try_from_slice", "unpack", "deserialize"),

		AccountCreationNames: NewSet(
			"create_account", "create_account_with_seed",
			"create_program_account", "new_account",
			"new_account_with_seed", "assign", "allocate",
		),

		RentReceiver: "rent",
		RentMethod:   "is_exempt",

		ExpectedAmountFragments: NewFragmentSet(
			"expected", "min_amount", "min_out", "minimum", "limit",
		),
		ActualAmountFragments: NewFragmentSet(
			"actual", "amount_out", "received", "output", "result",
		),

		SerializeMethods: NewSet("serialize", "try_to_vec"),

		OwnershipCheckMethods: NewSet("is_signer", "is_writable"),
		OwnerFieldNames:       NewSet("owner", "key"),
		AccountBaseFragments:  NewFragmentSet("account", "info"),
	}
}
