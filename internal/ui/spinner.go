package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Spinner animates a label while a blocking call (connect, ping) runs.
type Spinner struct {
	ui      *UI
	label   string
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	stopped bool
	mu      sync.Mutex
}

// Spinner animation frames (braille pattern).
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new animated spinner.
func (u *UI) NewSpinner(label string) *Spinner {
	return &Spinner{
		ui:    u,
		label: label,
		done:  make(chan struct{}),
	}
}

// Start begins the spinner animation. Plain output prints the label once.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	if !s.ui.shouldStyle() {
		fmt.Fprintf(s.ui.Out, "%s...", s.label)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		frame := 0

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fmt.Fprintf(s.ui.Out, "\r%s %s...",
					StyleProgress.Render(spinnerFrames[frame]),
					s.label,
				)
				frame = (frame + 1) % len(spinnerFrames)
			}
		}
	}()
}

// Success stops the spinner and shows a success message.
func (s *Spinner) Success(msg string) {
	s.finish(SymbolSuccess, StyleSuccess, msg)
}

// Error stops the spinner and shows an error message.
func (s *Spinner) Error(msg string) {
	s.finish(SymbolError, StyleError, msg)
}

// finish stops the animation once and prints the final line.
func (s *Spinner) finish(symbol string, style lipgloss.Style, msg string) {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	s.mu.Unlock()
	s.wg.Wait()

	if !s.ui.shouldStyle() {
		// label is already on the line
		fmt.Fprintf(s.ui.Out, " %s\n", msg)
		return
	}

	fmt.Fprintf(s.ui.Out, "\r\033[K%s %s... %s\n", style.Render(symbol), s.label, style.Render(msg))
}
