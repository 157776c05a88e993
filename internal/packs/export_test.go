package packs

import (
	"encoding/json"
	"testing"
)

func TestExport_IsDeterministic(t *testing.T) {
	reg := Default()
	a := Export(reg)
	b := Export(reg)
	if a.SHA256 != b.SHA256 {
		t.Fatalf("expected stable hash, got %q and %q", a.SHA256, b.SHA256)
	}
	if a.PackCount != len(reg.IDs()) {
		t.Fatalf("expected pack_count=%d, got %d", len(reg.IDs()), a.PackCount)
	}
}

func TestExportJSON_RoundTrips(t *testing.T) {
	reg := Default()
	data, err := ExportJSON(reg)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	var decoded RegistryExport
	if err := json.Unmarshal([]byte(data), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.SHA256 != ComputeHash(reg) {
		t.Fatalf("decoded hash mismatch")
	}
	gitPack, ok := decoded.Packs["core.git"]
	if !ok {
		t.Fatalf("expected core.git pack in export")
	}
	if len(gitPack.DestructivePatterns) == 0 {
		t.Fatalf("expected core.git to have destructive patterns")
	}
}
