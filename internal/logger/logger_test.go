package logger

import (
	"bytes"
	"os"
	"testing"
)

func resetLogger() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer resetLogger()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestLevels_WhenVerbose(t *testing.T) {
	defer resetLogger()

	tests := []struct {
		name string
		emit func()
		want string
	}{
		{
			name: "debug",
			emit: func() { Debug("top score %.3f", 0.412) },
			want: "[DEBUG] top score 0.412\n",
		},
		{
			name: "info",
			emit: func() { Info("built index with %d chunks", 37) },
			want: "[INFO] built index with 37 chunks\n",
		},
		{
			name: "warn",
			emit: func() { Warn("generation failed, returning fallback") },
			want: "[WARN] generation failed, returning fallback\n",
		},
		{
			name: "score",
			emit: func() { Score("answerability gate", 0.412) },
			want: "[SCORE] answerability gate: 0.412\n",
		},
		{
			name: "section",
			emit: func() { Section("Retrieval") },
			want: "\n=== Retrieval ===\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			SetOutput(&buf)
			SetVerbose(true)

			tt.emit()

			if got := buf.String(); got != tt.want {
				t.Errorf("unexpected output: %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("suppressed")
	Info("suppressed")
	Score("suppressed", 0.1)
	Warn("suppressed")
	Section("suppressed")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestConcurrentAccess(t *testing.T) {
	defer resetLogger()

	var buf bytes.Buffer
	SetOutput(&buf)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(n int) {
			SetVerbose(true)
			Debug("worker %d", n)
			IsVerbose()
			SetVerbose(false)
			done <- struct{}{}
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
