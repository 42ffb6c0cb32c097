package observability

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecoverPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	func() {
		defer RecoverPanic(logger, "worker")
		panic("boom")
	}()

	entry := decodeEntry(t, buf.Bytes())
	if entry["msg"] != "PANIC recovered" {
		t.Errorf("Expected PANIC recovered, got %v", entry["msg"])
	}
	if entry["panic"] != "boom" {
		t.Errorf("Expected panic value boom, got %v", entry["panic"])
	}
	if entry["context"] != "worker" {
		t.Errorf("Expected context worker, got %v", entry["context"])
	}
	if stack, _ := entry["stack"].(string); !strings.Contains(stack, "goroutine") {
		t.Error("Expected a stack trace")
	}
}

func TestRecoverPanicWithCallback(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})

	called := false
	func() {
		defer RecoverPanicWithCallback(logger, "worker", func() { called = true })
	}()
	if called {
		t.Error("Callback must not run without a panic")
	}

	func() {
		defer RecoverPanicWithCallback(logger, "worker", func() { called = true })
		panic("boom")
	}()
	if !called {
		t.Error("Callback should run after a panic")
	}
}

func TestMustRecover(t *testing.T) {
	if err := MustRecover(nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	err := func() (err error) {
		defer func() { err = MustRecover(recover()) }()
		panic("bad input")
	}()
	if err == nil || err.Error() != "panic: bad input" {
		t.Errorf("Expected panic error, got %v", err)
	}
}
