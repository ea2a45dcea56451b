package engine

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

func TestMapDevice(t *testing.T) {
	cases := map[string]string{
		transcribe.DeviceCPU:  "cpu",
		transcribe.DeviceAuto: "auto",
		transcribe.DeviceMPS:  "auto",
		transcribe.DeviceCUDA: "auto",
	}
	for in, want := range cases {
		if got := mapDevice(in); got != want {
			t.Errorf("mapDevice(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHelperErrorFallsBackWithStderr(t *testing.T) {
	err := helperError(errors.New("exec: python3 not found"), "  boom on stderr \n", transcribe.ErrTranscription)
	if !errors.Is(err, transcribe.ErrTranscription) {
		t.Fatalf("expected fallback sentinel, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom on stderr") {
		t.Errorf("expected trimmed stderr detail, got %q", err.Error())
	}
}

func TestHelperErrorUsesErrWhenStderrEmpty(t *testing.T) {
	err := helperError(errors.New("signal: killed"), "   ", transcribe.ErrTranscription)
	if !strings.Contains(err.Error(), "signal: killed") {
		t.Errorf("expected the exec error as detail, got %q", err.Error())
	}
}

func TestEnsureScriptMaterializesHelper(t *testing.T) {
	eng := NewFasterWhisper(quietParams())
	if err := eng.ensureScript(); err != nil {
		t.Fatalf("ensure script failed: %v", err)
	}
	if eng.scriptPath == "" {
		t.Fatal("expected a script path")
	}

	data, err := os.ReadFile(eng.scriptPath)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(data), "faster_whisper") {
		t.Error("script does not reference faster_whisper")
	}

	// Second call must reuse the same file.
	path := eng.scriptPath
	if err := eng.ensureScript(); err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if eng.scriptPath != path {
		t.Error("ensure must be idempotent")
	}

	if err := eng.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("close must remove the script")
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("second close must be a no-op: %v", err)
	}
}
