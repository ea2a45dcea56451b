package engine

import (
	"encoding/json"
	"strings"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// payload is the JSON document the helper script prints.
type payload struct {
	Language            string           `json:"language"`
	LanguageProbability float64          `json:"language_probability"`
	Duration            float64          `json:"duration"`
	Segments            []payloadSegment `json:"segments"`
}

type payloadSegment struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Text         string  `json:"text"`
	NoSpeechProb float64 `json:"no_speech_prob"`
}

func decodePayload(data []byte) (*payload, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// resultFromPayload trims segment texts and derives the full text from them.
func resultFromPayload(p *payload) *transcribe.Result {
	segments := make([]transcribe.Segment, 0, len(p.Segments))
	for _, s := range p.Segments {
		segments = append(segments, transcribe.NewSegment(
			s.Start, s.End, strings.TrimSpace(s.Text), s.NoSpeechProb,
		))
	}

	return &transcribe.Result{
		Language:            p.Language,
		LanguageProbability: p.LanguageProbability,
		Duration:            p.Duration,
		Segments:            segments,
		FullText:            transcribe.JoinText(segments),
	}
}
