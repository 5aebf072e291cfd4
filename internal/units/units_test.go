package units

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEther(t *testing.T) {
	cases := map[string]string{
		"0.1":    "100000000000000000",
		"1":      "1000000000000000000",
		"0.0001": "100000000000000",
		" 2.5 ":  "2500000000000000000",
		"0":      "0",
	}
	for in, want := range cases {
		got, err := ParseEther(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
}

func TestParseEtherRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		_, err := ParseEther(in)
		assert.Error(t, err, in)
	}
}

func TestFormatEther(t *testing.T) {
	v, _ := new(big.Int).SetString("100100000000000000", 10)
	assert.Equal(t, "0.1001", FormatEther(v))
	assert.Equal(t, "0", FormatEther(nil))
	assert.Equal(t, "0.00000001", FormatEther(big.NewInt(10_000_000_000)))
}

func TestFormatGwei(t *testing.T) {
	assert.Equal(t, "1.1", FormatGwei(big.NewInt(1_100_000_000)))
}
