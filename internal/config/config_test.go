package config_test

import (
	"testing"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/config"
	"github.com/stretchr/testify/require"
)

func TestSetSearchUpdatesUnderlyingUCTConfig(t *testing.T) {
	st := config.NewStore()
	require.NoError(t, st.SetSearch("t_e", "25"))
	require.NoError(t, st.SetSearch("max_games", "500"))
	require.NoError(t, st.SetSearch("rave_check_same", "false"))

	cfg := st.Get().UCTConfig()
	require.EqualValues(t, 25, cfg.ExpansionThreshold)
	require.EqualValues(t, 500, cfg.MaxGames)
	require.False(t, cfg.RaveCheckSame)
}

func TestSetSearchUpdatesPassWinThreshold(t *testing.T) {
	st := config.NewStore()
	require.NoError(t, st.SetSearch("pass_win_threshold", "0.9"))
	require.InDelta(t, 0.9, st.Get().UCTConfig().PassWinThreshold, 1e-9)
}

func TestSetSearchRejectsUnknownParam(t *testing.T) {
	st := config.NewStore()
	require.Error(t, st.SetSearch("not_a_real_param", "1"))
}

func TestSetPlayerRoundTripsPriorModeAndKoRule(t *testing.T) {
	st := config.NewStore()
	require.NoError(t, st.SetPlayer("prior_mode", "none"))
	require.NoError(t, st.SetPlayer("ko_rule", "simple"))

	c := st.Get()
	require.Equal(t, "none", c.Player.PriorMode)
	require.Equal(t, board.SimpleKo, c.KoRuleValue())
}

func TestReplaceIsConcurrencySafe(t *testing.T) {
	st := config.NewStore()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			_ = st.SetSearch("c", "0.7")
		}
		close(done)
	}()
	for i := 0; i < 100; i++ {
		_ = st.Get()
	}
	<-done
}
