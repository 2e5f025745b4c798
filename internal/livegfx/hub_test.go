package livegfx_test

import (
	"testing"
	"time"

	"github.com/kref/gouct/internal/livegfx"
)

func TestPublishNeverBlocksWhenChannelIsFull(t *testing.T) {
	h := livegfx.NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			h.Publish(livegfx.Sample{Games: int64(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked instead of dropping samples on a full channel")
	}
}

func TestRunStopsCleanly(t *testing.T) {
	h := livegfx.NewHub()
	go h.Run()
	h.Publish(livegfx.Sample{Games: 1})
	h.Stop()
}
