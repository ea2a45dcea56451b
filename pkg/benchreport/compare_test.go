package benchreport

import (
	"bytes"
	"strings"
	"testing"
)

func rec(model, device, compute string, rtf float64) Record {
	return Record{
		ModelSize:      model,
		Device:         device,
		ComputeType:    compute,
		RealTimeFactor: rtf,
	}
}

func TestFastest(t *testing.T) {
	records := []Record{
		rec("tiny", "cpu", "float16", 5),
		rec("base", "mps", "float16", 15),
		rec("small", "mps", "float16", 15),
	}

	fastest, ok := Fastest(records)
	if !ok {
		t.Fatal("expected a fastest record")
	}
	// Ties keep the earliest record.
	if fastest.ModelSize != "base" {
		t.Errorf("expected the first of the tied records, got %s", fastest.ModelSize)
	}
}

func TestFastestEmpty(t *testing.T) {
	if _, ok := Fastest(nil); ok {
		t.Fatal("expected ok=false for no records")
	}
}

func TestSpeedups(t *testing.T) {
	records := []Record{
		rec("base", "cpu", "float16", 5),
		rec("base", "mps", "float16", 15),
		rec("small", "mps", "float16", 12), // no cpu partner
		rec("tiny", "cpu", "float16", 0),   // cpu factor 0
		rec("tiny", "mps", "float16", 9),
	}

	pairs := Speedups(records, "mps")
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair, got %d: %+v", len(pairs), pairs)
	}

	p := pairs[0]
	if p.ModelSize != "base" || p.ComputeType != "float16" || p.Device != "mps" {
		t.Errorf("unexpected pair identity: %+v", p)
	}
	if p.Factor != 3 {
		t.Errorf("expected speedup factor 3, got %f", p.Factor)
	}
	if p.AccelRTF != 15 || p.CPURTF != 5 {
		t.Errorf("unexpected pair factors: %+v", p)
	}
}

func TestSpeedupsUseFirstCPUMatch(t *testing.T) {
	records := []Record{
		rec("base", "cpu", "float16", 5),
		rec("base", "cpu", "float16", 50),
		rec("base", "mps", "float16", 15),
	}

	pairs := Speedups(records, "mps")
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].CPURTF != 5 {
		t.Errorf("expected the first cpu record to win, got %f", pairs[0].CPURTF)
	}
}

func TestSpeedupsDifferentComputeTypesDoNotPair(t *testing.T) {
	records := []Record{
		rec("base", "cpu", "float32", 5),
		rec("base", "mps", "float16", 15),
	}
	if pairs := Speedups(records, "mps"); len(pairs) != 0 {
		t.Fatalf("expected no pairs across compute types, got %+v", pairs)
	}
}

func TestWriteComparison(t *testing.T) {
	records := []Record{
		{ModelSize: "base", Device: "cpu", ComputeType: "float16", AudioDuration: 10, TranscriptionTime: 2, RealTimeFactor: 5, SegmentsCount: 3},
		{ModelSize: "base", Device: "mps", ComputeType: "float16", AudioDuration: 10, TranscriptionTime: 0.67, RealTimeFactor: 15, SegmentsCount: 3},
	}

	var buf bytes.Buffer
	WriteComparison(&buf, records, "mps")
	out := buf.String()

	for _, want := range []string{
		"Benchmark Results Comparison",
		strings.Repeat("-", 80),
		"Fastest Configuration:",
		"base on mps with float16 - 15.0x real-time",
		"mps vs CPU Performance:",
		"base/float16: mps is 3.0x faster than cpu (15.0x vs 5.0x)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("comparison output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteComparisonEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteComparison(&buf, nil, "cuda")
	out := buf.String()

	if !strings.Contains(out, "Benchmark Results Comparison") {
		t.Error("expected the table header even for no records")
	}
	if strings.Contains(out, "Fastest Configuration:") {
		t.Error("no fastest section expected for no records")
	}
	if strings.Contains(out, "vs CPU Performance:") {
		t.Error("no speedup section expected for no records")
	}
}
