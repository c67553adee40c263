package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on w while a backend connection is being
// made. It stops by itself when its context ends.
type spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	start   time.Time
	mu      sync.Mutex
}

func newSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &spinner{
		w:       w,
		message: message,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

func (s *spinner) run(interval time.Duration) {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// stop ends the animation and waits for the line to be cleared. It is safe
// to call more than once.
func (s *spinner) stop() time.Duration {
	s.cancel()
	<-s.stopped
	return time.Since(s.start).Round(time.Millisecond)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// connect runs dial behind a spinner labelled "Connecting to <what>" and
// reports the outcome. The spinner is skipped when w is not a terminal.
func connect[T any](ctx context.Context, w io.Writer, animate bool, what string, dial func(context.Context) (T, error)) (T, error) {
	s := newSpinner(ctx, w, "Connecting to "+what)
	if animate {
		s.run(80 * time.Millisecond)
	} else {
		s.start = time.Now()
		close(s.stopped)
	}
	v, err := dial(ctx)
	took := s.stop()
	if err != nil {
		printError("%s unavailable", what)
		return v, err
	}
	printSuccess("Connected to %s (%s)", what, took)
	return v, nil
}

func stderrIsTerminal() bool {
	return term.IsTerminal(os.Stderr.Fd())
}
