package ownership

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
	assert.Equal(t, "ownership", NewRule().Name())
}

func TestRule_Detection(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			// Deserializes account_info.data with no ownership check
			// anywhere earlier in the function.
			name: "deserialize with no preceding ownership check",
			code: `
fn process_instruction(account_info: &AccountInfo) -> ProgramResult {
    let account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
    Ok(())
}
`,
			want: []string{"Function 'process_instruction' deserializes an account without checking ownership."},
		},
		{
			// An owner-vs-program_id comparison precedes the
			// deserialization.
			name: "owner check precedes deserialize",
			code: `
fn process_instruction(program_id: &Pubkey, account_info: &AccountInfo) -> ProgramResult {
    if account_info.owner != program_id {
        return Err(ProgramError::IncorrectProgramId);
    }
    let account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
    Ok(())
}
`,
			want: nil,
		},
		{
			name: "is_signer check alone counts as an ownership check",
			code: `
fn process_instruction(account_info: &AccountInfo) -> ProgramResult {
    if !account_info.is_signer() {
        return Err(ProgramError::MissingRequiredSignature);
    }
    let account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
    Ok(())
}
`,
			want: nil,
		},
		{
			name: "two unguarded deserializations each get their own finding",
			code: `
fn process_instruction(account_info: &AccountInfo, other_info: &AccountInfo) -> ProgramResult {
    let a = AccountData::try_from_slice(&account_info.data.borrow())?;
    let b = AccountData::try_from_slice(&other_info.data.borrow())?;
    Ok(())
}
`,
			want: []string{
				"Function 'process_instruction' deserializes an account without checking ownership.",
				"Function 'process_instruction' deserializes an account without checking ownership.",
			},
		},
		{
			// Ownership is not scanned inside impl methods: one with
			// the same unguarded shape produces no finding.
			name: "impl methods are not scanned for ownership",
			code: `
impl Processor {
    fn process(account_info: &AccountInfo) -> ProgramResult {
        let account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
        Ok(())
    }
}
`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyze(t, tt.code)
			assert.Equal(t, tt.want, got)
		})
	}
}
