package allowlist

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// fileEntry is the TOML on-disk shape of one allowlist rule.
type fileEntry struct {
	Kind      string `toml:"kind"` // "command", "pattern", or "regex"
	Value     string `toml:"value"`
	ExpiresAt string `toml:"expires_at,omitempty"` // RFC3339, empty means never
}

type fileDoc struct {
	Entries []fileEntry `toml:"entries"`
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "", "command":
		return ExactCommand, nil
	case "pattern":
		return PatternName, nil
	case "regex":
		return Regex, nil
	default:
		return 0, fmt.Errorf("unknown allowlist entry kind %q", s)
	}
}

// loadLayer reads one layer's TOML file. A missing path is not an error —
// it just contributes no entries, matching the optional project/user/global
// file semantics.
func loadLayer(path string, layer Layer) ([]Entry, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat allowlist %s: %w", path, err)
	}

	var doc fileDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("decode allowlist %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(doc.Entries))
	for _, fe := range doc.Entries {
		kind, err := parseKind(fe.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		e := Entry{Layer: layer, Kind: kind, Value: fe.Value}
		if fe.ExpiresAt != "" {
			t, err := time.Parse(time.RFC3339, fe.ExpiresAt)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid expires_at %q: %w", path, fe.ExpiresAt, err)
			}
			e.ExpiresAt = &t
		}
		if err := e.compile(); err != nil {
			return nil, fmt.Errorf("%s: compiling entry %q: %w", path, fe.Value, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Load reads the project, user, and global allowlist files (any of which
// may be empty, meaning "not configured") into a single Layered value.
func Load(projectPath, userPath, globalPath string) (*Layered, error) {
	project, err := loadLayer(projectPath, Project)
	if err != nil {
		return nil, err
	}
	user, err := loadLayer(userPath, User)
	if err != nil {
		return nil, err
	}
	global, err := loadLayer(globalPath, Global)
	if err != nil {
		return nil, err
	}
	return &Layered{Project: project, User: user, Global: global}, nil
}
