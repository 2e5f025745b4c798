// Command gouct is the CLI entrypoint (spec.md §6, component C13): it
// wires internal/config, internal/engine, and internal/gtp together and
// drives the protocol loop over stdin/stdout, following
// Elvenson-alphabeth's cmd/infer's flag-parsing-then-wiring shape.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/kref/gouct/internal/config"
	"github.com/kref/gouct/internal/engine"
	"github.com/kref/gouct/internal/gtp"
	"github.com/kref/gouct/internal/livegfx"
)

func main() {
	boardSize := flag.Int("boardsize", 19, "initial board size")
	komi := flag.Float64("komi", 7.5, "initial komi")
	workers := flag.Int("workers", 4, "number of search worker goroutines")
	wsAddr := flag.String("live-gfx-addr", "", "optional host:port to serve live-gfx websocket snapshots on, e.g. :6060")
	terminalGfx := flag.Bool("live-gfx-terminal", false, "print a colored search-progress line to stderr")
	flag.Parse()

	store := config.NewStore()
	if err := store.SetPlayer("board_size", fmt.Sprintf("%d", *boardSize)); err != nil {
		fmt.Fprintln(os.Stderr, "gouct:", err)
		os.Exit(1)
	}
	if err := store.SetPlayer("komi", fmt.Sprintf("%v", *komi)); err != nil {
		fmt.Fprintln(os.Stderr, "gouct:", err)
		os.Exit(1)
	}
	if err := store.SetSearch("workers", fmt.Sprintf("%d", *workers)); err != nil {
		fmt.Fprintln(os.Stderr, "gouct:", err)
		os.Exit(1)
	}

	e := engine.New(store)

	if *wsAddr != "" {
		hub := livegfx.NewHub()
		go hub.Run()
		e.Telemetry = hub
		mux := http.NewServeMux()
		mux.HandleFunc("/live", hub.ServeHTTP)
		go func() {
			if err := http.ListenAndServe(*wsAddr, mux); err != nil {
				fmt.Fprintln(os.Stderr, "gouct: live-gfx server:", err)
			}
		}()
	}
	if *terminalGfx {
		e.Terminal = livegfx.NewTerminal(os.Stderr)
	}

	server := gtp.New(e, os.Stdin, os.Stdout)
	os.Exit(server.Run())
}
