// Package config implements the engine configuration store (spec.md
// §4.11/SPEC_FULL.md §4.11, component C11): a mutex-guarded flat struct
// of tunables read with RLock and written with Lock, modeled directly on
// TheKrainBow-gomoku/backend/config.go's ConfigStore/DefaultConfig
// pattern. The three GTP-level groups (search/policy/player) are
// sub-structs within Config, each with its own Set method keyed by the
// same NAME strings spec.md §3's "Global parameters" and §4.5's
// Constants use.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/prior"
	"github.com/kref/gouct/internal/uct"
	"github.com/pkg/errors"
)

// Search mirrors uct.Config's tunables, JSON-tagged with the NAME a
// `uct_param_search NAME VALUE` command uses.
type Search struct {
	Workers            int     `json:"workers"`
	ExpansionThreshold int64   `json:"t_e"`
	Bias               float64 `json:"c"`
	RaveW0             float64 `json:"w0"`
	RaveWFinal         float64 `json:"w_final"`
	RaveCheckSame      bool    `json:"rave_check_same"`
	FPU                float64 `json:"fpu"`
	MaxGames           int64   `json:"max_games"`
	MaxNodes           int64   `json:"max_nodes"`
	MaxTimeMs          int64   `json:"max_time_ms"`
	LockFree           bool    `json:"lock_free"`
	MoveSelect         string  `json:"move_select"`
	MaxPlayoutMoves    int     `json:"max_playout_moves"`
	MercyThreshold     int     `json:"mercy_threshold"`
	LiveGfxCadence     int64   `json:"live_gfx_cadence"`
	PassWinThreshold   float64 `json:"pass_win_threshold"`
}

// Policy mirrors the playout policy's tunables.
type Policy struct {
	LadderDepth    int  `json:"ladder_depth"`
	PriorLadderPct int  `json:"prior_ladder_weight"`
	PatternsOn     bool `json:"patterns_on"`
}

// Player mirrors façade-level, per-game tunables.
type Player struct {
	BoardSize int     `json:"board_size"`
	Komi      float64 `json:"komi"`
	KoRule    string  `json:"ko_rule"`
	PriorMode string  `json:"prior_mode"`
	Ponder    bool    `json:"ponder"`
}

// Config is the full tunable set backing uct_param_search|policy|player.
type Config struct {
	Search Search `json:"search"`
	Policy Policy `json:"policy"`
	Player Player `json:"player"`
}

// DefaultConfig returns the engine's stock tuning, matching
// uct.DefaultConfig()/prior.DefaultConstants plus the board defaults.
func DefaultConfig() Config {
	d := uct.DefaultConfig()
	return Config{
		Search: Search{
			Workers:            d.Workers,
			ExpansionThreshold: d.ExpansionThreshold,
			Bias:               d.Bias,
			RaveW0:             d.RaveW0,
			RaveWFinal:         d.RaveWFinal,
			RaveCheckSame:      d.RaveCheckSame,
			FPU:                d.FPU,
			MaxGames:           d.MaxGames,
			MaxNodes:           d.MaxNodes,
			MaxTimeMs:          int64(d.MaxTime / time.Millisecond),
			LockFree:           d.LockFree,
			MoveSelect:         "count",
			MaxPlayoutMoves:    d.MaxPlayoutMoves,
			MercyThreshold:     d.MercyThreshold,
			LiveGfxCadence:     d.LiveGfxCadence,
			PassWinThreshold:   d.PassWinThreshold,
		},
		Policy: Policy{
			LadderDepth:    40,
			PriorLadderPct: 50,
			PatternsOn:     true,
		},
		Player: Player{
			BoardSize: 19,
			Komi:      7.5,
			KoRule:    "positional",
			PriorMode: "default",
			Ponder:    false,
		},
	}
}

// UCTConfig converts Search into the uct package's Config, used by the
// façade each time it builds a fresh Searcher.
func (c Config) UCTConfig() uct.Config {
	cfg := uct.Config{
		Workers:            c.Search.Workers,
		ExpansionThreshold: c.Search.ExpansionThreshold,
		Bias:               c.Search.Bias,
		RaveW0:             c.Search.RaveW0,
		RaveWFinal:         c.Search.RaveWFinal,
		RaveCheckSame:      c.Search.RaveCheckSame,
		FPU:                c.Search.FPU,
		MaxGames:           c.Search.MaxGames,
		MaxNodes:           c.Search.MaxNodes,
		MaxTime:            time.Duration(c.Search.MaxTimeMs) * time.Millisecond,
		LockFree:           c.Search.LockFree,
		MaxPlayoutMoves:    c.Search.MaxPlayoutMoves,
		MercyThreshold:     c.Search.MercyThreshold,
		LiveGfxCadence:     c.Search.LiveGfxCadence,
		PassWinThreshold:   c.Search.PassWinThreshold,
	}
	switch c.Search.MoveSelect {
	case "ucb":
		cfg.MoveSelect = uct.SelectByUCB
	case "mean":
		cfg.MoveSelect = uct.SelectByMean
	case "raw":
		cfg.MoveSelect = uct.SelectRaw
	default:
		cfg.MoveSelect = uct.SelectByCount
	}
	return cfg
}

// PriorModeValue converts Player.PriorMode to the prior package's enum.
func (c Config) PriorModeValue() prior.Mode {
	switch c.Player.PriorMode {
	case "none":
		return prior.ModeNone
	case "even":
		return prior.ModeEven
	default:
		return prior.ModeDefault
	}
}

// KoRuleValue converts Player.KoRule to the board package's enum.
func (c Config) KoRuleValue() board.KoRule {
	switch c.Player.KoRule {
	case "simple":
		return board.SimpleKo
	case "situational":
		return board.SituationalSuperko
	default:
		return board.PositionalSuperko
	}
}

// Store guards Config behind an RWMutex — read once per search setup
// rather than per iteration, so it never sits on the lock-free hot path
// (SPEC_FULL.md §5).
type Store struct {
	mu     sync.RWMutex
	config Config
}

// NewStore returns a Store seeded with DefaultConfig.
func NewStore() *Store {
	return &Store{config: DefaultConfig()}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Replace overwrites the whole configuration.
func (s *Store) Replace(c Config) {
	s.mu.Lock()
	s.config = c
	s.mu.Unlock()
}

// MarshalJSON/UnmarshalJSON support SGF-adjacent tooling or a future
// on-disk config file; not required by the GTP surface itself.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Get())
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return errors.Wrap(err, "config: unmarshal")
	}
	s.Replace(c)
	return nil
}

// SetSearch applies a single `uct_param_search NAME VALUE` command.
func (s *Store) SetSearch(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sr := &s.config.Search
	switch name {
	case "workers":
		return setInt(&sr.Workers, value)
	case "t_e":
		return setInt64(&sr.ExpansionThreshold, value)
	case "c":
		return setFloat(&sr.Bias, value)
	case "w0":
		return setFloat(&sr.RaveW0, value)
	case "w_final":
		return setFloat(&sr.RaveWFinal, value)
	case "rave_check_same":
		return setBool(&sr.RaveCheckSame, value)
	case "fpu":
		return setFloat(&sr.FPU, value)
	case "max_games":
		return setInt64(&sr.MaxGames, value)
	case "max_nodes":
		return setInt64(&sr.MaxNodes, value)
	case "max_time_ms":
		return setInt64(&sr.MaxTimeMs, value)
	case "lock_free":
		return setBool(&sr.LockFree, value)
	case "move_select":
		sr.MoveSelect = value
		return nil
	case "max_playout_moves":
		return setInt(&sr.MaxPlayoutMoves, value)
	case "mercy_threshold":
		return setInt(&sr.MercyThreshold, value)
	case "live_gfx_cadence":
		return setInt64(&sr.LiveGfxCadence, value)
	case "pass_win_threshold":
		return setFloat(&sr.PassWinThreshold, value)
	default:
		return errors.Errorf("config: unknown search param %q", name)
	}
}

// SetPolicy applies a single `uct_param_policy NAME VALUE` command.
func (s *Store) SetPolicy(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.config.Policy
	switch name {
	case "ladder_depth":
		return setInt(&p.LadderDepth, value)
	case "prior_ladder_weight":
		return setInt(&p.PriorLadderPct, value)
	case "patterns_on":
		return setBool(&p.PatternsOn, value)
	default:
		return errors.Errorf("config: unknown policy param %q", name)
	}
}

// SetPlayer applies a single `uct_param_player NAME VALUE` command.
func (s *Store) SetPlayer(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &s.config.Player
	switch name {
	case "board_size":
		return setInt(&p.BoardSize, value)
	case "komi":
		return setFloat(&p.Komi, value)
	case "ko_rule":
		p.KoRule = value
		return nil
	case "prior_mode":
		p.PriorMode = value
		return nil
	case "ponder":
		return setBool(&p.Ponder, value)
	default:
		return errors.Errorf("config: unknown player param %q", name)
	}
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return errors.Wrapf(err, "config: parsing %q as int", value)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, value string) error {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "config: parsing %q as int64", value)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(err, "config: parsing %q as float", value)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, value string) error {
	switch value {
	case "true", "1", "on":
		*dst = true
	case "false", "0", "off":
		*dst = false
	default:
		return fmt.Errorf("config: %q is not a recognized boolean", value)
	}
	return nil
}
