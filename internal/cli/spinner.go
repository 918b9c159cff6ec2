package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// spinner animates a status line on stderr while a stage runs. It stays
// silent when stderr is not a terminal, and it stops on its own when ctx
// is cancelled.
type spinner struct {
	w       io.Writer
	message string
	animate bool
	started time.Time

	stopOnce sync.Once
	quit     chan struct{}
	finished chan struct{}
	width    int
}

// startSpinner shows message with an animated frame and the elapsed time.
func startSpinner(ctx context.Context, message string) *spinner {
	return startSpinnerOn(ctx, os.Stderr, isatty.IsTerminal(os.Stderr.Fd()), message)
}

func startSpinnerOn(ctx context.Context, w io.Writer, animate bool, message string) *spinner {
	s := &spinner{
		w:        w,
		message:  message,
		animate:  animate,
		started:  time.Now(),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	if !animate {
		close(s.finished)
		return s
	}
	go s.loop(ctx)
	return s
}

func (s *spinner) loop(ctx context.Context) {
	defer close(s.finished)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-s.quit:
			s.clear()
			return
		case <-ticker.C:
			line := fmt.Sprintf("%s %s %s",
				styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]),
				StyleDim.Render(s.message),
				StyleDim.Render(s.elapsed()))
			s.width = max(s.width, len(line))
			fmt.Fprintf(s.w, "\r%s", line)
		}
	}
}

func (s *spinner) elapsed() string {
	return time.Since(s.started).Truncate(100 * time.Millisecond).String()
}

func (s *spinner) clear() {
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
	}
}

// stop ends the animation and erases the line. Safe to call twice.
func (s *spinner) stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	<-s.finished
}

// fail stops the spinner and reports message as an error.
func (s *spinner) fail(message string) {
	s.stop()
	printError("%s", message)
}
