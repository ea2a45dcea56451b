package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

func newServerEngine(t *testing.T, baseURL string) *Server {
	t.Helper()
	params := quietParams()
	params.ServerURL = baseURL
	params.APIKey = "secret"
	eng, err := NewServer(params)
	if err != nil {
		t.Fatalf("new server engine: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestServerInitializeProbesModels(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		sawAuth = r.Header.Get("Authorization") == "Bearer secret"
		w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	eng := newServerEngine(t, srv.URL)
	if err := eng.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if !sawAuth {
		t.Error("expected bearer token on the models probe")
	}
}

func TestServerInitializeFailsOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	eng := newServerEngine(t, srv.URL)
	if err := eng.Initialize(context.Background()); !errors.Is(err, transcribe.ErrModelInitialization) {
		t.Fatalf("expected model initialization error, got %v", err)
	}
}

func TestServerTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("response_format") != "verbose_json" {
			http.Error(w, "bad response_format", http.StatusBadRequest)
			return
		}
		if r.FormValue("model") != "base" {
			http.Error(w, "bad model", http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{
			"language": "en",
			"duration": 4.2,
			"text": " hello from the server ",
			"segments": [{"start": 0, "end": 4.2, "text": " hello from the server "}]
		}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(audio, []byte("pcm"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	eng := newServerEngine(t, srv.URL+"/")
	res, err := eng.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if res.Language != "en" || res.Duration != 4.2 {
		t.Errorf("unexpected result header: %+v", res)
	}
	if res.FullText != "hello from the server" {
		t.Errorf("expected trimmed text, got %q", res.FullText)
	}
	if len(res.Segments) != 1 || res.Segments[0].Text != "hello from the server" {
		t.Errorf("unexpected segments: %+v", res.Segments)
	}
}

func TestServerTranscribeSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(audio, []byte("pcm"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	eng := newServerEngine(t, srv.URL)
	_, err := eng.Transcribe(context.Background(), audio)
	if !errors.Is(err, transcribe.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
}

func TestVerbosePayloadFallsBackToJoinedSegments(t *testing.T) {
	p := &verbosePayload{
		Language: "en",
		Duration: 2,
		Segments: []payloadSegment{
			{Start: 0, End: 1, Text: " one "},
			{Start: 1, End: 2, Text: " two "},
		},
	}
	res := p.result()
	if res.FullText != "one two" {
		t.Errorf("expected joined fallback, got %q", res.FullText)
	}
}
