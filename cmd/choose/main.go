package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ciricc/whisper-bench/pkg/benchreport"
)

type Choice struct {
	Path   string
	Index  int
	Record benchreport.Record
}

func main() {
	var (
		dir        = flag.String("dir", "reports", "directory containing benchmark result JSON files")
		maxResults = flag.Int("n", 5, "number of top configurations to print")
		device     = flag.String("device", "", "only consider records for this device")
	)
	flag.Parse()

	choices, err := loadRecords(*dir)
	if err != nil {
		fatalf("load results: %v", err)
	}
	if *device != "" {
		choices = filterDevice(choices, *device)
	}
	if len(choices) == 0 {
		fatalf("no benchmark records found in %s", *dir)
	}

	// Higher real-time factor is better; ties go to the shorter run.
	sort.Slice(choices, func(i, j int) bool {
		a, b := choices[i].Record, choices[j].Record
		if a.RealTimeFactor != b.RealTimeFactor {
			return a.RealTimeFactor > b.RealTimeFactor
		}
		return a.TranscriptionTime < b.TranscriptionTime
	})

	if *maxResults > len(choices) {
		*maxResults = len(choices)
	}

	for i := 0; i < *maxResults; i++ {
		c := choices[i]
		r := c.Record
		fmt.Printf("%d) %s#%d\n", i+1, c.Path, c.Index)
		fmt.Printf("   model=%s device=%s compute=%s\n", r.ModelSize, r.Device, r.ComputeType)
		fmt.Printf("   rtf=%.2fx time=%.2fs duration=%.2fs segments=%d\n",
			r.RealTimeFactor, r.TranscriptionTime, r.AudioDuration, r.SegmentsCount)
	}
}

func loadRecords(dir string) ([]Choice, error) {
	var out []Choice
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		var records []benchreport.Record
		if err := json.NewDecoder(f).Decode(&records); err != nil {
			// Not a benchmark result array, skip it
			return nil
		}
		for i, r := range records {
			out = append(out, Choice{Path: path, Index: i, Record: r})
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, err
	}
	return out, nil
}

func filterDevice(in []Choice, device string) []Choice {
	var out []Choice
	for _, c := range in {
		if strings.EqualFold(c.Record.Device, device) {
			out = append(out, c)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
