package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/logomosaic/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stageMessages label the pipeline stages, numbered for a full render.
var stageMessages = map[pipeline.Stage]string{
	pipeline.StageLoad:   "[1/3] Loading logo and tiles...",
	pipeline.StageRender: "[2/3] Placing tiles...",
	pipeline.StageExport: "[3/3] Encoding outputs...",
}

// Spinner animates a one-line status on stderr until stopped or until its
// context ends. The message can change while it runs, so one spinner can
// follow a render through its stages.
type Spinner struct {
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
	stages  []pipeline.Stage
	byStop  bool
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the status text.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// OnStage follows pipeline progress; pass it as [pipeline.Options.OnStage].
func (s *Spinner) OnStage(stage pipeline.Stage) {
	s.mu.Lock()
	s.stages = append(s.stages, stage)
	s.mu.Unlock()
	if msg, ok := stageMessages[stage]; ok {
		s.SetMessage(msg)
	}
}

// Stages returns the stages seen so far.
func (s *Spinner) Stages() []pipeline.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pipeline.Stage(nil), s.stages...)
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := frame + " " + s.message
	s.width = max(s.width, len(line))
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// Stop ends the animation and clears the line. It may be called repeatedly.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.mu.Lock()
		s.byStop = true
		s.mu.Unlock()
		s.cancel()
		<-s.stopped
		s.clearLine()
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width+1))
}

// StopWithError stops and reports which stage failed.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	if st := s.Stages(); len(st) > 0 {
		message = fmt.Sprintf("%s during %s", message, st[len(st)-1])
	}
	printError("%s", message)
}

// Cancelled reports whether the caller's context ended before Stop.
func (s *Spinner) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.byStop && s.ctx.Err() != nil
}
