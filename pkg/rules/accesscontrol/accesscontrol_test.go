package accesscontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultlint/vaultlint/pkg/parser"
	"github.com/vaultlint/vaultlint/pkg/vocab"
)

func analyze(t *testing.T, src string) []string {
	t.Helper()
	tu, err := parser.Parse([]byte(src))
	require.NoError(t, err)

	v := vocab.Default()
	rule := NewRule()
	findings := rule.Analyze(tu, &v)

	var out []string
	for _, f := range findings {
		out = append(out, f.Text)
	}
	return out
}

func TestRule_Metadata(t *testing.T) {
	rule := NewRule()
	assert.Equal(t, "access-control", rule.Name())
}

func TestRule_Detection(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			// A direct assignment to deserialized account state
			// with no preceding check.
			name: "unguarded balance update",
			code: `
pub fn update_balance(accounts: &[AccountInfo], new_balance: u64) -> ProgramResult {
    let account_info = &accounts[0];
    let mut account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
    account_data.balance = new_balance;
    account_data.serialize(&mut &mut account_info.data.borrow_mut()[..])?;
    Ok(())
}
`,
			want: []string{"Function 'update_balance' may lack access control."},
		},
		{
			// A signer check and an owner comparison both precede
			// the write.
			name: "signer and owner checks precede the write",
			code: `
pub fn update_balance(program_id: &Pubkey, accounts: &[AccountInfo], new_balance: u64) -> ProgramResult {
    let account_info = &accounts[0];
    if !account_info.is_signer() {
        return Err(ProgramError::MissingRequiredSignature);
    }
    if account_info.owner != program_id {
        return Err(ProgramError::IncorrectProgramId);
    }
    let mut account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
    account_data.balance = new_balance;
    account_data.serialize(&mut &mut account_info.data.borrow_mut()[..])?;
    Ok(())
}
`,
			want: nil,
		},
		{
			name: "a function that never touches tracked state is never flagged",
			code: `
fn log_only(message: u64) {
    let total = message + 1;
}
`,
			want: nil,
		},
		{
			name: "a guard covers only the one effect that follows it",
			code: `
pub fn update_two_fields(accounts: &[AccountInfo], a: u64, b: u64) -> ProgramResult {
    let account_info = &accounts[0];
    let mut account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
    require(account_info.is_signer());
    account_data.a = a;
    account_data.b = b;
    account_data.serialize(&mut &mut account_info.data.borrow_mut()[..])?;
    Ok(())
}
`,
			want: []string{"Function 'update_two_fields' may lack access control."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, tt.code)
			assert.Equal(t, tt.want, got)
		})
	}
}
