package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// bufferedSpinner returns a spinner that writes to buf instead of stderr.
func bufferedSpinner(ctx context.Context, message string, animate bool) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, message)
	s.out = &buf
	s.animate = animate
	return s, &buf
}

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "Ranking entrants...", false)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	assert.Zero(t, buf.Len(), "non-terminal output must stay free of control characters: %q", buf.String())
}

func TestSpinnerAnimatesOnTerminal(t *testing.T) {
	s, buf := bufferedSpinner(context.Background(), "Ranking entrants...", true)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "\r")
	assert.Contains(t, out, "Ranking entrants...")
}

func TestSpinnerStopsOnCancel(t *testing.T) {
	tests := []struct {
		name    string
		animate bool
	}{
		{"terminal", true},
		{"non-terminal", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			s, _ := bufferedSpinner(ctx, "Rendering...", tt.animate)
			s.Start()
			cancel()

			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner goroutine did not exit after cancel")
			}
			assert.True(t, s.Cancelled())
		})
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := bufferedSpinner(ctx, "Loading...", false)
	s.Start()
	<-s.stopped
	assert.True(t, s.Cancelled())
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := bufferedSpinner(context.Background(), "Loading...", true)
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMessages(t *testing.T) {
	s, _ := bufferedSpinner(context.Background(), "Loading...", false)
	s.Start()
	s.StopWithSuccess("Rendered leaderboard")

	s, _ = bufferedSpinner(context.Background(), "Loading...", false)
	s.Start()
	s.StopWithError("Render failed")
}
