package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStandardLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		logFn  func(l *StandardLogger)
		prefix string
		msg    string
	}{
		{"info", func(l *StandardLogger) { l.Info("friends %d", 3) }, "[INFO]", "friends 3"},
		{"warning", func(l *StandardLogger) { l.Warning("jar %s", "empty") }, "[WARNING]", "jar empty"},
		{"error", func(l *StandardLogger) { l.Error("login: %v", "denied") }, "[ERROR]", "login: denied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFn(NewStandardLogger(log.New(buf, "", 0)))

			out := buf.String()
			if !strings.HasPrefix(out, tt.prefix) {
				t.Errorf("expected %s prefix, got: %q", tt.prefix, out)
			}
			if !strings.Contains(out, tt.msg) {
				t.Errorf("expected %q in output, got: %q", tt.msg, out)
			}
		})
	}
}

func TestMockLogger_Records(t *testing.T) {
	m := &MockLogger{}
	m.Info("a %d", 1)
	m.Warning("b")
	m.Error("c %s", "x")

	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "a 1" {
		t.Errorf("unexpected info calls: %v", m.InfoCalls)
	}
	if len(m.WarningCalls) != 1 || m.WarningCalls[0] != "b" {
		t.Errorf("unexpected warning calls: %v", m.WarningCalls)
	}
	if len(m.ErrorCalls) != 1 || m.ErrorCalls[0] != "c x" {
		t.Errorf("unexpected error calls: %v", m.ErrorCalls)
	}
}

func TestLoggers_Close(t *testing.T) {
	loggers := []Logger{
		NewStandardLogger(log.New(&bytes.Buffer{}, "", 0)),
		NopLogger{},
		&MockLogger{},
	}
	for _, l := range loggers {
		if err := l.Close(); err != nil {
			t.Errorf("%T.Close() returned %v", l, err)
		}
	}
	if m := loggers[2].(*MockLogger); !m.CloseCalled {
		t.Error("expected MockLogger to record Close")
	}
}
