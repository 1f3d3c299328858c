package styles

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	require.Equal(t, "", TruncateString("Acme", 0))
	require.Equal(t, "Acme", TruncateString("Acme", 10))
	require.Equal(t, "Acme C...", TruncateString("Acme Corporation", 9))
	require.Equal(t, "..", TruncateString("Acme Corporation", 2))
	require.Equal(t, "São...", TruncateString("São Paulo", 6))
}

func TestTruncateString_WideRunes(t *testing.T) {
	got := TruncateString("東京商事株式会社", 9)
	require.LessOrEqual(t, runewidth.StringWidth(got), 9)
	require.Contains(t, got, "...")
}

func TestPadRight(t *testing.T) {
	require.Equal(t, "SP   ", PadRight("SP", 5))
	require.Equal(t, "Ac...", PadRight("Acme Corp", 5))
	require.Equal(t, 8, runewidth.StringWidth(PadRight("東京", 8)))
}
