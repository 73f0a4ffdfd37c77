package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Info("rendered mosaic", "layout", "grid", "placements", 400)

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("line should start with a short timestamp: %q", line)
	}
	for _, want := range []string{"rendered mosaic", "layout=grid", "placements=400"} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %q", want, line)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "stage summary at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("loaded sources", "tiles", 12) },
			wantLog: true,
		},
		{
			name:    "cache trace hidden at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache hit", "kind", "tile") },
			wantLog: false,
		},
		{
			name:    "cache trace at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("cache hit", "kind", "tile") },
			wantLog: true,
		},
		{
			name:    "skipped tile warning at error level",
			level:   log.ErrorLevel,
			logFunc: func(l *log.Logger) { l.Warn("skipping tile", "path", "broken.jpg") },
			wantLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)

	prog.done("loaded tiles", "count", 240, "sources", 2)

	out := buf.String()
	for _, want := range []string{"loaded tiles", "count=240", "sources=2", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
	if strings.Contains(out, "took=0s") {
		t.Errorf("elapsed time should be measured: %q", out)
	}
}
