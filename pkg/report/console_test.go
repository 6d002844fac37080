package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleWriterEmptyList(t *testing.T) {
	var buf bytes.Buffer
	w := NewConsoleWriter().WithWriter(&buf).WithNoColor(true)

	require.NoError(t, w.Write(nil))
	assert.Equal(t, "No vulnerabilities found.\n", buf.String())
}

func TestConsoleWriterFindings(t *testing.T) {
	var buf bytes.Buffer
	w := NewConsoleWriter().WithWriter(&buf).WithNoColor(true)

	findings := List{
		New("access-control", SeverityHigh, "Function 'withdraw' may lack access control."),
		New("slippage", SeverityHigh, "Function 'trade' performs a swap operation without a slippage check."),
	}
	require.NoError(t, w.Write(findings))

	want := "Potential vulnerabilities detected:\n" +
		"\n" +
		"- Function 'withdraw' may lack access control.\n" +
		"- Function 'trade' performs a swap operation without a slippage check.\n"
	assert.Equal(t, want, buf.String())
}

func TestConsoleWriterVerboseBannerKeepsContract(t *testing.T) {
	var buf bytes.Buffer
	w := NewConsoleWriter().WithWriter(&buf).WithNoColor(true).WithVerbose(true)

	findings := List{New("rent-exemption", SeverityMedium, "Function 'create' creates a new account without checking for rent exemption.")}
	require.NoError(t, w.Write(findings))

	out := buf.String()
	assert.Contains(t, out, "1 issues found")
	assert.Contains(t, out, "Potential vulnerabilities detected:\n\n- Function 'create' creates a new account without checking for rent exemption.\n")
}
