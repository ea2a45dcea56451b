package benchreport

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// Record is one completed benchmark run, flattened for comparison across
// runs. The two pointer fields are reserved for instrumentation that does
// not exist yet; they stay nil and serialize as null.
type Record struct {
	ModelSize         string   `json:"model_size"`
	Device            string   `json:"device"`
	ComputeType       string   `json:"compute_type"`
	AudioDuration     float64  `json:"audio_duration"`
	TranscriptionTime float64  `json:"transcription_time"`
	RealTimeFactor    float64  `json:"real_time_factor"`
	MemoryUsageMB     *float64 `json:"memory_usage_mb"`
	AccuracyScore     *float64 `json:"accuracy_score"`
	SegmentsCount     int      `json:"segments_count"`
}

// FromOutcome flattens a configuration and its outcome into a Record. It
// cannot fail and leaves the placeholder fields unset.
func FromOutcome(config transcribe.Config, out *transcribe.Outcome) Record {
	return Record{
		ModelSize:         config.ModelSize,
		Device:            config.Device,
		ComputeType:       config.ComputeType,
		AudioDuration:     out.Duration,
		TranscriptionTime: out.TranscriptionTime,
		RealTimeFactor:    out.RealTimeFactor,
		SegmentsCount:     len(out.Segments),
	}
}

// Save writes records as a pretty-printed JSON array, creating the parent
// directory if needed. An empty run writes [], not null.
func Save(records []Record, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if records == nil {
		records = []Record{}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Load reads a JSON array of records written by Save.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
