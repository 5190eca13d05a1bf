package object

import (
	"strings"
	"testing"
)

func TestArtifactKey(t *testing.T) {
	key, err := ArtifactKey("user-1", "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	if err != nil {
		t.Fatalf("ArtifactKey: %v", err)
	}
	if !strings.HasPrefix(key, "artifacts/") || !strings.HasSuffix(key, "/1b4e28ba-2fa1-11d2-883f-0016d3cca427.pdf") {
		t.Fatalf("unexpected key %q", key)
	}
	if strings.Contains(key, "user-1") {
		t.Fatalf("key leaks raw user id: %q", key)
	}
}

func TestArtifactKeyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		resumeID string
	}{
		{name: "no user", userID: "", resumeID: "r1"},
		{name: "traversal", userID: "u", resumeID: "../../etc/passwd"},
		{name: "blank resume", userID: "u", resumeID: "  "},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ArtifactKey(tt.userID, tt.resumeID); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
