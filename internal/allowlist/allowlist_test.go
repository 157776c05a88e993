package allowlist

import (
	"testing"
	"time"
)

func TestResolve_ProjectBeatsUserBeatsGlobal(t *testing.T) {
	l := &Layered{
		Global:  []Entry{{Layer: Global, Kind: ExactCommand, Value: "git reset --hard"}},
		User:    []Entry{{Layer: User, Kind: ExactCommand, Value: "git reset --hard"}},
		Project: []Entry{{Layer: Project, Kind: ExactCommand, Value: "git reset --hard"}},
	}
	hit, err := l.Resolve("git reset --hard", "core.git", "reset-hard", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil || hit.Layer != Project {
		t.Fatalf("expected project-layer hit, got %+v", hit)
	}
}

func TestResolve_PatternNameKey(t *testing.T) {
	l := &Layered{Project: []Entry{{Layer: Project, Kind: PatternName, Value: "core.git.reset-hard"}}}
	hit, err := l.Resolve("git reset --hard", "core.git", "reset-hard", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil {
		t.Fatal("expected match")
	}
}

func TestResolve_ExpiredEntryIgnored(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	l := &Layered{Project: []Entry{{Layer: Project, Kind: ExactCommand, Value: "git reset --hard", ExpiresAt: &past}}}
	hit, err := l.Resolve("git reset --hard", "core.git", "reset-hard", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if hit != nil {
		t.Fatalf("expected no hit for expired entry, got %+v", hit)
	}
}

func TestResolve_RegexKind(t *testing.T) {
	l := &Layered{Project: []Entry{{Layer: Project, Kind: Regex, Value: `^git reset --hard`}}}
	hit, err := l.Resolve("git reset --hard extra", "core.git", "reset-hard", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil {
		t.Fatal("expected regex match")
	}
}

func TestResolve_NoMatch(t *testing.T) {
	l := &Layered{Global: []Entry{{Layer: Global, Kind: ExactCommand, Value: "git status"}}}
	hit, err := l.Resolve("git reset --hard", "core.git", "reset-hard", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if hit != nil {
		t.Fatalf("expected no hit, got %+v", hit)
	}
}
