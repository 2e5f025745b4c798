// Package gtp implements the text command protocol front-end (spec.md
// §6, component C8): a bufio.Scanner-driven command loop parsing the
// command table of spec.md §6 plus the handful of standard GTP commands
// a front-end needs to not look obviously incomplete. This is "thin I/O
// around the core" (spec.md §1) — it holds no search state of its own,
// only a reference to internal/engine's façade.
package gtp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kref/gouct/internal/board"
	"github.com/kref/gouct/internal/engine"
	"github.com/kref/gouct/internal/sgf"
)

// Engine is the subset of internal/engine.Engine the protocol loop
// drives, named as an interface so tests can substitute a fake façade.
type Engine interface {
	Board() *board.Board
	NewGame(size int, komi float64)
	ClearBoard()
	SetBoardSize(n int)
	SetKomi(komi float64)
	Play(move board.Point) error
	GenMove() (board.Point, error)
	FinalStatusList(samples int) []board.Point
	SetParam(group, name, value string) error
	DumpTree(maxDepth int) *sgf.Collection
}

var _ Engine = (*engine.Engine)(nil)

// Server runs the command loop: one line in, one response out, per
// spec.md §6's `=id text\n\n` / `?id text\n\n` framing.
type Server struct {
	Engine Engine
	In     io.Reader
	Out    io.Writer
}

// New returns a Server ready to Run.
func New(e Engine, in io.Reader, out io.Writer) *Server {
	return &Server{Engine: e, In: in, Out: out}
}

// Run drives the command loop until EOF or `quit`, returning the exit
// code spec.md §6 specifies (0 on clean shutdown).
func (s *Server) Run() int {
	scanner := bufio.NewScanner(s.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, rest := splitID(line)
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		if cmd == "quit" {
			s.reply(id, true, "")
			return 0
		}

		ok, resp := s.dispatch(cmd, args)
		s.reply(id, ok, resp)
	}
	return 0
}

func splitID(line string) (id, rest string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", line
	}
	if n, err := strconv.Atoi(fields[0]); err == nil {
		return strconv.Itoa(n), strings.TrimPrefix(line, fields[0]+" ")
	}
	return "", line
}

func (s *Server) reply(id string, ok bool, text string) {
	prefix := "?"
	if ok {
		prefix = "="
	}
	fmt.Fprintf(s.Out, "%s%s %s\n\n", prefix, id, text)
}

func (s *Server) dispatch(cmd string, args []string) (ok bool, text string) {
	switch cmd {
	case "protocol_version":
		return true, "2"
	case "name":
		return true, "gouct"
	case "version":
		return true, "1.0"
	case "known_command":
		return true, boolStr(isKnownCommand(argOrEmpty(args, 0)))
	case "list_commands":
		return true, strings.Join(commandList, "\n")
	case "showboard":
		return true, "\n" + renderBoard(s.Engine.Board())
	case "undo":
		return false, "undo not supported"
	case "time_left":
		return true, ""

	case "boardsize":
		n, err := parseInt(argOrEmpty(args, 0))
		if err != nil {
			return false, err.Error()
		}
		s.Engine.SetBoardSize(n)
		return true, ""

	case "clear_board":
		s.Engine.ClearBoard()
		return true, ""

	case "komi":
		k, err := strconv.ParseFloat(argOrEmpty(args, 0), 64)
		if err != nil {
			return false, "invalid komi"
		}
		s.Engine.SetKomi(k)
		return true, ""

	case "play":
		if len(args) < 2 {
			return false, "play requires COLOR and MOVE"
		}
		move, err := ParseVertex(s.Engine.Board(), args[1])
		if err != nil {
			return false, err.Error()
		}
		if err := s.Engine.Play(move); err != nil {
			return false, err.Error()
		}
		return true, ""

	case "genmove":
		move, err := s.Engine.GenMove()
		if err != nil {
			return false, err.Error()
		}
		return true, FormatVertex(s.Engine.Board(), move)

	case "final_status_list":
		if len(args) == 0 || args[0] != "dead" {
			return false, "only final_status_list dead is supported"
		}
		dead := s.Engine.FinalStatusList(64)
		coords := make([]string, len(dead))
		for i, p := range dead {
			coords[i] = FormatVertex(s.Engine.Board(), p)
		}
		return true, strings.Join(coords, " ")

	case "uct_param_search", "uct_param_policy", "uct_param_player":
		if len(args) < 2 {
			return false, cmd + " requires NAME and VALUE"
		}
		group := strings.TrimPrefix(cmd, "uct_param_")
		if err := s.Engine.SetParam(group, args[0], args[1]); err != nil {
			return false, err.Error()
		}
		return true, ""

	case "uct_savetree":
		if len(args) == 0 {
			return false, "uct_savetree requires a PATH"
		}
		depth := 1 << 20
		if len(args) > 1 {
			d, err := parseInt(args[1])
			if err == nil {
				depth = d
			}
		}
		col := s.Engine.DumpTree(depth)
		var sb strings.Builder
		if err := sgf.Print(&sb, col); err != nil {
			return false, err.Error()
		}
		return true, sb.String()

	default:
		return false, "unknown command"
	}
}

func argOrEmpty(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

var commandList = []string{
	"protocol_version", "name", "version", "known_command", "list_commands",
	"showboard", "undo", "time_left", "boardsize", "clear_board", "komi",
	"play", "genmove", "final_status_list", "uct_param_search",
	"uct_param_policy", "uct_param_player", "uct_savetree", "quit",
}

func isKnownCommand(name string) bool {
	for _, c := range commandList {
		if c == name {
			return true
		}
	}
	return false
}
