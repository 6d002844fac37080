package vocab

import "testing"

func TestSetCaseInsensitive(t *testing.T) {
	s := NewSet("Transfer", "SWAP")
	for _, name := range []string{"transfer", "TRANSFER", "swap", "Swap"} {
		if !s.Has(name) {
			t.Errorf("expected %q to match case-insensitively", name)
		}
	}
	if s.Has("withdraw") {
		t.Errorf("did not expect %q to match", "withdraw")
	}
}

func TestFragmentSetMatchesAny(t *testing.T) {
	fs := NewFragmentSet("expected", "min_out")
	cases := map[string]bool{
		"expected_amount": true,
		"EXPECTED_AMOUNT": true,
		"user_min_out":    true,
		"actual_amount":   false,
	}
	for in, want := range cases {
		if got := fs.MatchesAny(in); got != want {
			t.Errorf("MatchesAny(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsProgramIDName(t *testing.T) {
	cases := map[string]bool{
		"program_id":   true,
		"PROGRAM_ID":   true,
		"owner_id":     true,
		"id":           true,
		"ID":           true,
		"identity":     false,
		"user":         false,
	}
	for in, want := range cases {
		if got := IsProgramIDName(in); got != want {
			t.Errorf("IsProgramIDName(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDefaultVocabulary(t *testing.T) {
	v := Default()
	if !v.GateFunctions.Has("require_signer") {
		t.Error("require_signer should be a gate function")
	}
	if !v.SwapNames.Has("mint") {
		t.Error("mint should be a swap-like name")
	}
	if !v.DeserializeNames.Has("try_from_slice") {
		t.Error("try_from_slice should be a deserialization name")
	}
	if !v.AccountCreationNames.Has("create_account_with_seed") {
		t.Error("create_account_with_seed should be an account-creation name")
	}
	if v.RentReceiver != "rent" || v.RentMethod != "is_exempt" {
		t.Error("rent-exemption predicate should be rent.is_exempt")
	}
}
