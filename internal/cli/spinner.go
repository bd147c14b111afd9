package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/taxotree/pkg/observability"
)

// stage is the step of a taxonomy run the spinner is showing.
type stage int

const (
	stageFetch stage = iota
	stageInfer
	stageAssemble
)

func (s stage) String() string {
	switch s {
	case stageFetch:
		return "fetch"
	case stageInfer:
		return "infer"
	case stageAssemble:
		return "assemble"
	}
	return "unknown"
}

// runSpinner animates a taxonomy run on a terminal. It receives pipeline
// events so its message follows the run from fetch through infer to
// assemble. Events for other sources are ignored.
type runSpinner struct {
	observability.NoopPipelineHooks

	source string
	out    io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
	frames []string

	mu      sync.Mutex
	stage   stage
	rows    int
	edges   int
	started bool
	width   int // widest line written so far
}

// newRunSpinner creates a spinner for a run of source that writes to out
// and stops when ctx is cancelled.
func newRunSpinner(ctx context.Context, out io.Writer, source string) *runSpinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &runSpinner{
		source: source,
		out:    out,
		parent: ctx,
		ctx:    spinnerCtx,
		cancel: cancel,
		done:   make(chan struct{}),
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// messageLocked describes the current stage. s.mu must be held.
func (s *runSpinner) messageLocked() string {
	switch s.stage {
	case stageInfer:
		return fmt.Sprintf("Inferring %s from %d rows...", s.source, s.rows)
	case stageAssemble:
		return fmt.Sprintf("Assembling %s tree from %d edges...", s.source, s.edges)
	}
	return fmt.Sprintf("Fetching %s...", s.source)
}

// current returns the stage the run last reached.
func (s *runSpinner) current() stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *runSpinner) OnFetchStart(_ context.Context, source string) {
	if source != s.source {
		return
	}
	s.mu.Lock()
	s.stage = stageFetch
	s.mu.Unlock()
}

func (s *runSpinner) OnFetchComplete(_ context.Context, source string, rows int, _ time.Duration, err error) {
	if source != s.source || err != nil {
		return
	}
	s.mu.Lock()
	s.stage, s.rows = stageInfer, rows
	s.mu.Unlock()
}

func (s *runSpinner) OnInferComplete(_ context.Context, source string, edges, _ int, _ time.Duration, err error) {
	if source != s.source || err != nil {
		return
	}
	s.mu.Lock()
	s.stage, s.edges = stageAssemble, edges
	s.mu.Unlock()
}

// Start begins the animation.
func (s *runSpinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(s.frames[i%len(s.frames)])
			}
		}
	}()
}

func (s *runSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.messageLocked()
	s.width = max(s.width, len(msg)+4)
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(msg))
}

func (s *runSpinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It may be called more
// than once.
func (s *runSpinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.done
		}
	})
}

// StopWithError stops the spinner and reports the stage the run failed in.
func (s *runSpinner) StopWithError() {
	s.Stop()
	printError("%s failed during %s", s.source, s.current())
}

// Cancelled reports whether the caller's context was cancelled, as
// opposed to the spinner being stopped.
func (s *runSpinner) Cancelled() bool {
	return s.parent.Err() != nil
}

var _ observability.PipelineHooks = (*runSpinner)(nil)
