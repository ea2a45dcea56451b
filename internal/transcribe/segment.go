package transcribe

import "strings"

// Segment is one timed span of recognized speech. Start and End are seconds
// from the beginning of the audio.
type Segment struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Text         string  `json:"text"`
	NoSpeechProb float64 `json:"no_speech_prob"`
}

func NewSegment(start, end float64, text string, noSpeechProb float64) Segment {
	return Segment{
		Start:        start,
		End:          end,
		Text:         text,
		NoSpeechProb: noSpeechProb,
	}
}

// JoinText joins the trimmed segment texts with single spaces, in segment
// order.
func JoinText(segments []Segment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, strings.TrimSpace(s.Text))
	}
	return strings.Join(texts, " ")
}
