package history

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNewRunMetaBestEffort(t *testing.T) {
	meta := NewRunMeta("/nowhere/missing.wav", "cuda")

	if meta.AudioPath != "/nowhere/missing.wav" {
		t.Errorf("audio path lost: %s", meta.AudioPath)
	}
	if meta.Accelerator != "cuda" {
		t.Errorf("accelerator lost: %s", meta.Accelerator)
	}
	if meta.OS != runtime.GOOS || meta.Arch != runtime.GOARCH {
		t.Errorf("platform fields wrong: %s/%s", meta.OS, meta.Arch)
	}
	if meta.CPUModel == "" {
		t.Error("expected a CPU model fallback")
	}
	// Unreadable audio leaves the audio facts empty instead of failing.
	if meta.AudioSHA256 != "" || meta.AudioDuration != 0 {
		t.Errorf("expected empty audio facts, got %s / %v", meta.AudioSHA256, meta.AudioDuration)
	}
}

func TestNewRunMetaHashesAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	content := []byte("not really audio")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	meta := NewRunMeta(path, "cpu")

	sum := sha256.Sum256(content)
	if meta.AudioSHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("unexpected digest %s", meta.AudioSHA256)
	}
}
