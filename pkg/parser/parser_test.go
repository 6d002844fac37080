package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultlint/vaultlint/pkg/ast"
)

func TestParseFunctionItem(t *testing.T) {
	tu, err := Parse([]byte(`
fn transfer(amount: u64) -> ProgramResult {
    Ok(())
}
`))
	require.NoError(t, err)
	require.Len(t, tu.Items, 1)

	fn, ok := tu.Items[0].(*ast.FunctionItem)
	require.True(t, ok)
	assert.Equal(t, "transfer", fn.Name)
	require.NotNil(t, fn.Body)
}

func TestParseImplMethods(t *testing.T) {
	tu, err := Parse([]byte(`
impl Processor {
    fn process(account_info: &AccountInfo) -> ProgramResult {
        Ok(())
    }

    fn helper() {
    }
}
`))
	require.NoError(t, err)
	require.Len(t, tu.Items, 1)

	impl, ok := tu.Items[0].(*ast.ImplItem)
	require.True(t, ok)
	require.Len(t, impl.Methods, 2)
	assert.Equal(t, "process", impl.Methods[0].Name)
	assert.Equal(t, "helper", impl.Methods[1].Name)
}

func TestParseMethodCallVsFreeCall(t *testing.T) {
	tu, err := Parse([]byte(`
fn f() {
    transfer(x);
    account_info.is_signer();
}
`))
	require.NoError(t, err)
	body := tu.Items[0].(*ast.FunctionItem).Body
	require.Len(t, body.Stmts, 2)

	call, ok := body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "transfer", ast.CallName(call))

	method, ok := body.Stmts[1].(*ast.ExprStmt).X.(*ast.MethodCallExpr)
	require.True(t, ok)
	assert.Equal(t, "is_signer", method.Method)
}

func TestParseLetBindingWithTryAndDeserialize(t *testing.T) {
	tu, err := Parse([]byte(`
fn f(account_info: &AccountInfo) {
    let account_data = AccountData::try_from_slice(&account_info.data.borrow())?;
}
`))
	require.NoError(t, err)
	body := tu.Items[0].(*ast.FunctionItem).Body
	require.Len(t, body.Stmts, 1)

	let, ok := body.Stmts[0].(*ast.LetStmt)
	require.True(t, ok)

	ident, ok := let.Pattern.(*ast.IdentPattern)
	require.True(t, ok)
	assert.Equal(t, "account_data", ident.Name)

	tryExpr, ok := let.Init.(*ast.TryExpr)
	require.True(t, ok)
	call, ok := tryExpr.Inner.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, "try_from_slice", ast.CallName(call))
}

func TestParseCompoundAssignment(t *testing.T) {
	tu, err := Parse([]byte(`
fn f(x: u64) {
    x += 1;
}
`))
	require.NoError(t, err)
	body := tu.Items[0].(*ast.FunctionItem).Body
	require.Len(t, body.Stmts, 1)

	assign, ok := body.Stmts[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAddAssign, assign.Op)
	assert.True(t, assign.Op.IsCompoundAssign())
}

func TestParseIfElseChain(t *testing.T) {
	tu, err := Parse([]byte(`
fn f(x: u64) {
    if x == 1 {
        transfer(x);
    } else if x == 2 {
        swap(x);
    } else {
        burn(x);
    }
}
`))
	require.NoError(t, err)
	body := tu.Items[0].(*ast.FunctionItem).Body
	require.Len(t, body.Stmts, 1)

	ifExpr, ok := body.Stmts[0].(*ast.ExprStmt).X.(*ast.IfExpr)
	require.True(t, ok)
	require.Len(t, ifExpr.Then.Stmts, 1)

	elseIf, ok := ifExpr.Alt.(*ast.IfExpr)
	require.True(t, ok)
	elseBlock, ok := elseIf.Alt.(*ast.BlockExpr)
	require.True(t, ok)
	require.Len(t, elseBlock.Body.Stmts, 1)
}

func TestParseMalformedSourceReturnsParseError(t *testing.T) {
	_, err := Parse([]byte(`fn f( {{{ not valid rust at all +++ `))
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
