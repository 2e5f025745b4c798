package livegfx

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Terminal prints a colored one-line search-progress readout (games per
// second, best move, evaluation), ported from IlikeChooros-go-mcts's
// declared-but-unwired termenv dependency into an actual progress line.
type Terminal struct {
	out     *termenv.Output
	profile termenv.Profile
}

// NewTerminal builds a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	out := termenv.NewOutput(w)
	return &Terminal{out: out, profile: out.Profile}
}

// Print renders one Sample as a colored line: green for a move judged
// favorable (mean > 0.5), red otherwise, games/sec in a dim color.
func (t *Terminal) Print(s Sample) {
	var color termenv.Color
	if s.BestMean > 0.5 {
		color = t.profile.Color("2") // green
	} else {
		color = t.profile.Color("1") // red
	}
	move := termenv.String(s.BestMove).Foreground(color).Bold()
	rate := 0.0
	if secs := s.Elapsed.Seconds(); secs > 0 {
		rate = float64(s.Games) / secs
	}
	stats := termenv.String(fmt.Sprintf("games=%d (%.0f/s) mean=%.3f count=%d",
		s.Games, rate, s.BestMean, s.BestCount)).Faint()
	fmt.Fprintf(t.out, "%s  %s\n", move, stats)
}
