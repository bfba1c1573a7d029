package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDigitsOnly(t *testing.T) {
	t.Parallel()

	require.Equal(t, "01310100", DigitsOnly("01310-100"))
	require.Equal(t, "12345678", DigitsOnly(" 12.345-678 "))
	require.Equal(t, "", DigitsOnly("abc"))
}

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"1", "2", "17"}, SplitCSV(" 1, 2,,17 "))
	require.Empty(t, SplitCSV(""))
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	v, ok := ParseInt(" 3 ")
	require.True(t, ok)
	require.Equal(t, 3, v)

	for _, in := range []string{"", "x", "1.5", "2a"} {
		_, ok := ParseInt(in)
		require.False(t, ok, in)
	}
}

func TestParseFloat(t *testing.T) {
	t.Parallel()

	f, ok := ParseFloat("2,5")
	require.True(t, ok)
	require.InDelta(t, 2.5, f, 1e-9)

	_, ok = ParseFloat("NaN")
	require.False(t, ok)

	_, ok = ParseFloat("")
	require.False(t, ok)
}
