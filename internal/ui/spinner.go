package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a loading indicator on a terminal line. The full TUI
// draws its own; this one serves the one-shot commands.
type Spinner struct {
	out    io.Writer
	frames []string

	mu   sync.Mutex
	msg  string
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner that writes to out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out, frames: spinnerFrames}
}

// Start shows msg with an animated frame. Starting a running spinner only
// replaces its message.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg = msg
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; ; i++ {
		s.mu.Lock()
		msg := s.msg
		s.mu.Unlock()
		frame := StyleChain.Render(s.frames[i%len(s.frames)])
		fmt.Fprintf(s.out, "\r%s  %s", frame, msg)

		select {
		case <-stop:
			fmt.Fprintf(s.out, "\r%-60s\r", "") // clear line
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the spinner and waits for the line to be cleared. Stopping an
// idle spinner does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}
