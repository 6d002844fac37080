package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONWriterEncodesFindings(t *testing.T) {
	var buf bytes.Buffer
	findings := List{
		New("access-control", SeverityHigh, "Function 'withdraw' may lack access control."),
		New("rent-exemption", SeverityMedium, "Function 'create' creates a new account without checking for rent exemption."),
	}

	require.NoError(t, NewJSONWriter(&buf).Write(findings))

	var decoded []jsonFinding
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "access-control", decoded[0].Rule)
	assert.Equal(t, "high", decoded[0].Severity)
	assert.Equal(t, "Function 'withdraw' may lack access control.", decoded[0].Message)
}

func TestJSONWriterEmptyListEncodesAsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).Write(nil))
	assert.Equal(t, "[]\n", buf.String())
}
