// Package allowlist implements the layered Project/User/Global allow-entry
// resolution consulted after a destructive match.
package allowlist

import (
	"regexp"
	"time"
)

// Layer is the precedence tier an entry belongs to.
type Layer int

const (
	Global Layer = iota
	User
	Project
)

func (l Layer) String() string {
	switch l {
	case Project:
		return "project"
	case User:
		return "user"
	default:
		return "global"
	}
}

// Kind is the shape of value an entry matches against.
type Kind int

const (
	ExactCommand Kind = iota
	PatternName
	Regex
)

// Entry is one allowlist rule.
type Entry struct {
	Layer     Layer
	Kind      Kind
	Value     string
	ExpiresAt *time.Time

	compiled *regexp.Regexp
}

// compile lazily compiles a Regex-kind entry's pattern; ExactCommand and
// PatternName entries do no compilation.
func (e *Entry) compile() error {
	if e.Kind != Regex || e.compiled != nil {
		return nil
	}
	re, err := regexp.Compile(e.Value)
	if err != nil {
		return err
	}
	e.compiled = re
	return nil
}

func (e *Entry) expired(now time.Time) bool {
	return e.ExpiresAt != nil && now.After(*e.ExpiresAt)
}

// Layered holds entries from all three layers and resolves a match in
// Project > User > Global order, first match within a layer wins.
type Layered struct {
	Project []Entry
	User    []Entry
	Global  []Entry
}

// Hit describes a matching allowlist entry, returned for the decision trace.
type Hit struct {
	Layer Layer
	Entry Entry
}

// Resolve checks whether normalizedCommand or packID.patternName is allowed,
// consulting layers in precedence order.
func (l *Layered) Resolve(normalizedCommand, packID, patternName string, now time.Time) (*Hit, error) {
	key := ""
	if packID != "" && patternName != "" {
		key = packID + "." + patternName
	}
	for _, layerEntries := range [][]Entry{l.Project, l.User, l.Global} {
		for i := range layerEntries {
			e := &layerEntries[i]
			if e.expired(now) {
				continue
			}
			matched, err := matches(e, normalizedCommand, key)
			if err != nil {
				return nil, err
			}
			if matched {
				return &Hit{Layer: e.Layer, Entry: *e}, nil
			}
		}
	}
	return nil, nil
}

func matches(e *Entry, normalizedCommand, key string) (bool, error) {
	switch e.Kind {
	case ExactCommand:
		return e.Value == normalizedCommand, nil
	case PatternName:
		return key != "" && e.Value == key, nil
	case Regex:
		if err := e.compile(); err != nil {
			return false, err
		}
		return e.compiled.MatchString(normalizedCommand), nil
	default:
		return false, nil
	}
}
