package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListByRule(t *testing.T) {
	l := List{
		New("access-control", SeverityHigh, "Function 'a' may lack access control."),
		New("slippage", SeverityHigh, "Function 'b' performs a swap operation without a slippage check."),
		New("access-control", SeverityHigh, "Function 'c' may lack access control."),
	}

	got := l.ByRule("access-control")
	assert.Len(t, got, 2)
	assert.Equal(t, "Function 'a' may lack access control.", got[0].Text)
	assert.Equal(t, "Function 'c' may lack access control.", got[1].Text)
}

func TestListCountByRule(t *testing.T) {
	l := List{
		New("rent-exemption", SeverityMedium, "x"),
		New("rent-exemption", SeverityMedium, "y"),
		New("ownership", SeverityHigh, "z"),
	}

	counts := l.CountByRule()
	assert.Equal(t, 2, counts["rent-exemption"])
	assert.Equal(t, 1, counts["ownership"])
}
