package engine

import "testing"

func TestDecodePayload(t *testing.T) {
	data := []byte(`{
		"language": "en",
		"language_probability": 0.98,
		"duration": 7.5,
		"segments": [
			{"start": 0, "end": 3.2, "text": " Hello there. ", "no_speech_prob": 0.02},
			{"start": 3.2, "end": 7.5, "text": " General Kenobi. ", "no_speech_prob": 0.01}
		]
	}`)

	p, err := decodePayload(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if p.Language != "en" || p.Duration != 7.5 {
		t.Errorf("unexpected payload header: %+v", p)
	}
	if len(p.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(p.Segments))
	}
}

func TestDecodePayloadRejectsJunk(t *testing.T) {
	if _, err := decodePayload([]byte("Traceback (most recent call last):")); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}

func TestResultFromPayloadTrimsAndJoins(t *testing.T) {
	p := &payload{
		Language:            "en",
		LanguageProbability: 0.98,
		Duration:            7.5,
		Segments: []payloadSegment{
			{Start: 0, End: 3.2, Text: " Hello there. ", NoSpeechProb: 0.02},
			{Start: 3.2, End: 7.5, Text: " General Kenobi. "},
		},
	}

	res := resultFromPayload(p)
	if res.Segments[0].Text != "Hello there." {
		t.Errorf("segment text not trimmed: %q", res.Segments[0].Text)
	}
	if res.FullText != "Hello there. General Kenobi." {
		t.Errorf("unexpected full text: %q", res.FullText)
	}
	if res.Language != "en" || res.Duration != 7.5 {
		t.Errorf("header fields not carried: %+v", res)
	}
	if res.Segments[0].NoSpeechProb != 0.02 {
		t.Errorf("no_speech_prob not carried: %+v", res.Segments[0])
	}
}

func TestResultFromPayloadEmptySegments(t *testing.T) {
	res := resultFromPayload(&payload{Language: "en", Duration: 1})
	if res.FullText != "" {
		t.Errorf("expected empty full text, got %q", res.FullText)
	}
	if res.Segments == nil || len(res.Segments) != 0 {
		t.Errorf("expected empty non-nil segments, got %#v", res.Segments)
	}
}
