package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// Server talks to an OpenAI-compatible transcription endpoint, e.g. a
// faster-whisper-server instance. The server owns the model placement, so
// device and compute type from the configuration are advisory only.
type Server struct {
	params  Params
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

func NewServer(params Params) (*Server, error) {
	if params.ServerURL == "" {
		return nil, fmt.Errorf("%w: server backend needs a base URL", transcribe.ErrModelInitialization)
	}

	return &Server{
		params:  params,
		logger:  loggerFrom(params).With("engine", BackendServer),
		client:  &http.Client{Timeout: 10 * time.Minute},
		baseURL: strings.TrimRight(params.ServerURL, "/"),
	}, nil
}

// Initialize probes the models endpoint. The server answers it only once
// its model is loaded, which makes it a usable warm-up.
func (e *Server) Initialize(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", transcribe.ErrModelInitialization, err)
	}
	e.authorize(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", transcribe.ErrModelInitialization, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: models endpoint returned status %d", transcribe.ErrModelInitialization, resp.StatusCode)
	}
	return nil
}

func (e *Server) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}

	writer.WriteField("model", e.params.Config.ModelSize)
	writer.WriteField("response_format", "verbose_json")
	if e.params.Language != "" {
		writer.WriteField("language", e.params.Language)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	e.authorize(req)

	e.logger.DebugContext(ctx, "Posting audio", "url", req.URL.String(), "file", filepath.Base(audioPath))

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transcribe.ErrTranscription, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: server returned status %d: %s",
			transcribe.ErrTranscription, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var p verbosePayload
	if err := json.Unmarshal(respBody, &p); err != nil {
		return nil, fmt.Errorf("%w: bad server response: %w", transcribe.ErrTranscription, err)
	}
	return p.result(), nil
}

func (e *Server) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

func (e *Server) authorize(req *http.Request) {
	if e.params.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.params.APIKey)
	}
}

// verbosePayload is the verbose_json response shape of the OpenAI audio
// transcription API. language_probability is not part of it.
type verbosePayload struct {
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Text     string           `json:"text"`
	Segments []payloadSegment `json:"segments"`
}

func (p *verbosePayload) result() *transcribe.Result {
	segments := make([]transcribe.Segment, 0, len(p.Segments))
	for _, s := range p.Segments {
		segments = append(segments, transcribe.NewSegment(
			s.Start, s.End, strings.TrimSpace(s.Text), s.NoSpeechProb,
		))
	}

	fullText := strings.TrimSpace(p.Text)
	if fullText == "" {
		fullText = transcribe.JoinText(segments)
	}

	return &transcribe.Result{
		Language: p.Language,
		Duration: p.Duration,
		Segments: segments,
		FullText: fullText,
	}
}

var _ transcribe.Engine = (*Server)(nil)
