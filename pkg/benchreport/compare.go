package benchreport

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

// Fastest returns the record with the highest real-time factor. Ties keep
// the earliest record, so the result is stable for equal keys. ok is false
// for an empty slice.
func Fastest(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}

	fastest := lo.MaxBy(records, func(a, b Record) bool {
		return a.RealTimeFactor > b.RealTimeFactor
	})
	return fastest, true
}

// Speedup is one accelerator-vs-cpu pairing of records that share a model
// size and compute type.
type Speedup struct {
	ModelSize   string
	ComputeType string
	Device      string
	Factor      float64
	AccelRTF    float64
	CPURTF      float64
}

// Speedups pairs every accelerator record with the first cpu record of the
// same model size and compute type. Unpaired records are skipped, as are
// pairs whose cpu factor is 0.
func Speedups(records []Record, accelerator string) []Speedup {
	cpu := lo.Filter(records, func(r Record, _ int) bool { return r.Device == "cpu" })
	accel := lo.Filter(records, func(r Record, _ int) bool { return r.Device == accelerator })

	var pairs []Speedup
	for _, a := range accel {
		match, ok := lo.Find(cpu, func(c Record) bool {
			return c.ModelSize == a.ModelSize && c.ComputeType == a.ComputeType
		})
		if !ok || match.RealTimeFactor == 0 {
			continue
		}

		pairs = append(pairs, Speedup{
			ModelSize:   a.ModelSize,
			ComputeType: a.ComputeType,
			Device:      a.Device,
			Factor:      a.RealTimeFactor / match.RealTimeFactor,
			AccelRTF:    a.RealTimeFactor,
			CPURTF:      match.RealTimeFactor,
		})
	}
	return pairs
}

// WriteComparison prints the records as a fixed-width table followed by the
// fastest configuration and the accelerator-vs-cpu speedups.
func WriteComparison(w io.Writer, records []Record, accelerator string) {
	fmt.Fprintf(w, "\nBenchmark Results Comparison\n")
	fmt.Fprintf(w, "%-10s %-8s %-10s %-8s %-12s %-10s %-8s\n",
		"Model", "Device", "Compute", "Audio", "Transcr.", "RT Factor", "Segments")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range records {
		fmt.Fprintf(w, "%-10s %-8s %-10s %-7.1fs %-11.2fs %-9.1fx %-8d\n",
			r.ModelSize,
			r.Device,
			r.ComputeType,
			r.AudioDuration,
			r.TranscriptionTime,
			r.RealTimeFactor,
			r.SegmentsCount,
		)
	}

	if fastest, ok := Fastest(records); ok {
		fmt.Fprintf(w, "\nFastest Configuration:\n")
		fmt.Fprintf(w, "   %s on %s with %s - %.1fx real-time\n",
			fastest.ModelSize, fastest.Device, fastest.ComputeType, fastest.RealTimeFactor)
	}

	pairs := Speedups(records, accelerator)
	if len(pairs) > 0 {
		fmt.Fprintf(w, "\n%s vs CPU Performance:\n", accelerator)
		for _, p := range pairs {
			fmt.Fprintf(w, "   %s/%s: %s is %.1fx faster than cpu (%.1fx vs %.1fx)\n",
				p.ModelSize, p.ComputeType, p.Device, p.Factor, p.AccelRTF, p.CPURTF)
		}
	}
}
