package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on w until stopped or until its context
// is cancelled. After the first second the elapsed time is appended.
type Spinner struct {
	w        io.Writer
	message  string
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	started sync.Once
	stopped sync.Once
	done    chan struct{}

	mu    sync.Mutex
	width int // widest line drawn, for clearing
}

// newSpinner creates a spinner bound to ctx. It draws nothing until Start.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:        w,
		message:  message,
		interval: 80 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins the animation. Calling it more than once has no effect.
func (s *Spinner) Start() {
	s.started.Do(func() {
		go s.loop()
	})
}

func (s *Spinner) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	begin := time.Now()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			line := styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]) + " " + StyleDim.Render(s.message)
			if elapsed := time.Since(begin); elapsed >= time.Second {
				line += StyleDim.Render(fmt.Sprintf(" %ds", int(elapsed.Seconds())))
			}
			s.draw(line)
		}
	}
}

// Stop ends the animation and clears the line. It is safe to call more
// than once and on a spinner that never started.
func (s *Spinner) Stop() {
	s.stopped.Do(func() {
		s.cancel()
		// A later Start must not launch the loop.
		s.started.Do(func() { close(s.done) })
		<-s.done
	})
}

// Cancelled reports whether the spinner's context has ended, either via
// Stop or because the parent context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *Spinner) draw(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(line); n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
