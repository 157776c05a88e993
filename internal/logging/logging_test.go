package logging

import "testing"

func TestNew_DefaultsToInfoLevel(t *testing.T) {
	logger := New(Options{})
	if logger == nil {
		t.Fatalf("expected non-nil logger")
	}
	if logger.GetLevel().String() != "info" {
		t.Fatalf("expected info level, got %s", logger.GetLevel())
	}
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	logger := New(Options{Verbose: true})
	if logger.GetLevel().String() != "debug" {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
}

func TestNew_PrefixApplied(t *testing.T) {
	logger := New(Options{Prefix: "hook"})
	if logger == nil {
		t.Fatalf("expected non-nil logger")
	}
	if logger.GetPrefix() != "hook" {
		t.Fatalf("expected prefix %q, got %q", "hook", logger.GetPrefix())
	}
}
