package transcribe

// Result is what an engine backend reports for one file. It carries
// everything except timing, which is measured by the caller so that every
// backend is benchmarked with the same clock.
type Result struct {
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability"`
	Duration            float64   `json:"duration"`
	Segments            []Segment `json:"segments"`
	FullText            string    `json:"full_text"`
}

// Outcome is a finished transcription: the engine result plus the wall-clock
// time the call took and the real-time factor derived from it.
type Outcome struct {
	Language            string    `json:"language"`
	LanguageProbability float64   `json:"language_probability"`
	Duration            float64   `json:"duration"`
	Segments            []Segment `json:"segments"`
	FullText            string    `json:"full_text"`
	TranscriptionTime   float64   `json:"transcription_time"`
	RealTimeFactor      float64   `json:"real_time_factor"`
}

// RealTimeFactor is audio duration divided by processing time, in seconds.
// Values above 1.0 mean faster than playback. A non-positive processing time
// yields 0, never Inf or NaN.
func RealTimeFactor(duration, transcriptionTime float64) float64 {
	if transcriptionTime <= 0 {
		return 0
	}
	return duration / transcriptionTime
}

// NewOutcome stamps a result with the measured wall-clock seconds. A result
// without a full text gets one joined from its segments.
func NewOutcome(res *Result, transcriptionTime float64) *Outcome {
	fullText := res.FullText
	if fullText == "" {
		fullText = JoinText(res.Segments)
	}

	return &Outcome{
		Language:            res.Language,
		LanguageProbability: res.LanguageProbability,
		Duration:            res.Duration,
		Segments:            res.Segments,
		FullText:            fullText,
		TranscriptionTime:   transcriptionTime,
		RealTimeFactor:      RealTimeFactor(res.Duration, transcriptionTime),
	}
}
