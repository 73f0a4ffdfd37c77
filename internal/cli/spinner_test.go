package cli

import (
	"bytes"
	"context"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/logomosaic/pkg/pipeline"
)

func testSpinner(ctx context.Context) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, "Rendering mosaic...")
	s.out = &buf
	return s, &buf
}

func TestSpinnerFollowsStages(t *testing.T) {
	s, buf := testSpinner(context.Background())
	s.Start()
	for _, st := range []pipeline.Stage{pipeline.StageLoad, pipeline.StageRender, pipeline.StageExport} {
		s.OnStage(st)
		time.Sleep(120 * time.Millisecond)
	}
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Loading logo and tiles", "Placing tiles", "Encoding outputs"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if i, j := strings.Index(out, "[1/3]"), strings.Index(out, "[3/3]"); i < 0 || j < i {
		t.Error("stages drawn out of order")
	}
	want := []pipeline.Stage{pipeline.StageLoad, pipeline.StageRender, pipeline.StageExport}
	if got := s.Stages(); !slices.Equal(got, want) {
		t.Errorf("Stages() = %v, want %v", got, want)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerUnknownStageKeepsMessage(t *testing.T) {
	s, _ := testSpinner(context.Background())
	s.OnStage("warmup")
	if s.message != "Rendering mosaic..." {
		t.Errorf("message = %q", s.message)
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := testSpinner(ctx)
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := testSpinner(ctx)
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, buf := testSpinner(context.Background())
	s.Start()
	s.Stop()
	n := buf.Len()
	s.Stop()
	s.Stop()
	if buf.Len() != n {
		t.Error("repeated Stop should not redraw")
	}
}

func TestSpinnerStopWithErrorNamesStage(t *testing.T) {
	s, _ := testSpinner(context.Background())
	s.Start()
	s.OnStage(pipeline.StageRender)

	out := captureStdout(t, func() { s.StopWithError("Render failed") })
	if !strings.Contains(out, "Render failed during render") {
		t.Errorf("StopWithError output = %q", out)
	}
}

// captureStdout returns what fn prints to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}
