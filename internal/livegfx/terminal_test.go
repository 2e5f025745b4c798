package livegfx_test

import (
	"strings"
	"testing"

	"github.com/kref/gouct/internal/livegfx"
	"github.com/stretchr/testify/require"
)

func TestTerminalPrintIncludesMoveAndGameCount(t *testing.T) {
	var buf strings.Builder
	term := livegfx.NewTerminal(&buf)
	term.Print(livegfx.Sample{Games: 100, BestMove: "Q4", BestMean: 0.6, BestCount: 40})
	out := buf.String()
	require.Contains(t, out, "Q4")
	require.Contains(t, out, "games=100")
}
