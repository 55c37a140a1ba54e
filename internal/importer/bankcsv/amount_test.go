package bankcsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatementAmount(t *testing.T) {
	type testCase struct {
		in   string
		want string
	}

	tests := []testCase{
		{"4.50", "4.5"},
		{"-4.50", "-4.5"},
		{"1,234.56", "1234.56"},
		{"$2,500.00", "2500"},
		{"-$45.00", "-45"},
		{"$-45.00", "-45"},
		{"(45.00)", "-45"},
		{"1.234,56", "1234.56"},
		{"-588,74", "-588.74"},
		{" 10.00 ", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseStatementAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseStatementAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "--5", "12.34.56.78"} {
		_, err := parseStatementAmount(in)
		assert.Error(t, err, "input %q", in)
	}
}
