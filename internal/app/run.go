package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ciricc/whisper-bench/internal/audiofile"
	"github.com/ciricc/whisper-bench/internal/batch"
	"github.com/ciricc/whisper-bench/internal/bench"
	"github.com/ciricc/whisper-bench/internal/history"
	"github.com/ciricc/whisper-bench/internal/monitor"
	"github.com/ciricc/whisper-bench/internal/transcribe"
	"github.com/ciricc/whisper-bench/pkg/benchreport"
)

// RunFile transcribes a single audio file. With an output path the full
// result is written as JSON; otherwise a human-readable report goes to
// stdout. Any failure is returned to the caller and is fatal there.
func (a *Application) RunFile(ctx context.Context, inputPath, outputPath string) error {
	t, err := a.NewTranscriber(a.ModelConfig())
	if err != nil {
		return err
	}
	defer t.Close()

	out, err := t.Transcribe(ctx, inputPath)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := writeOutcomeJSON(outputPath, out); err != nil {
			return err
		}
		a.Logger.Info("Results saved", "path", outputPath)
		return nil
	}

	writeOutcomeReport(os.Stdout, out)
	return nil
}

// RunBatch transcribes every supported audio file in inputDir concurrently.
// Each file's JSON lands next to the input, or in outputDir when set. Files
// fail independently; the returned counts feed the final summary and the
// exit code stays zero.
func (a *Application) RunBatch(ctx context.Context, inputDir, outputDir string) (succeeded, failed int, err error) {
	paths, err := audiofile.ListDir(inputDir)
	if err != nil {
		return 0, 0, err
	}
	if len(paths) == 0 {
		a.Logger.Warn("No audio files found", "dir", inputDir)
		return 0, 0, nil
	}

	a.Logger.Info("Processing files", "count", len(paths), "max_concurrency", a.Config.Batch.MaxConcurrency)

	loadMonitor := monitor.NewSemaphoreLoadMonitor(int64(a.Config.Batch.MaxConcurrency))
	processor := batch.NewProcessor(func() (*transcribe.Transcriber, error) {
		return a.NewTranscriber(a.ModelConfig())
	}, loadMonitor, a.Logger)

	for _, res := range processor.Run(ctx, paths) {
		if res.Err != nil {
			failed++
			continue
		}

		outPath := transcriptionPath(res.Path, outputDir)
		if err := writeOutcomeJSON(outPath, res.Outcome); err != nil {
			a.Logger.Error("Failed to write result", "path", outPath, "error", err)
			failed++
			continue
		}

		a.Logger.Info("Completed", "path", res.Path, "output", outPath)
		succeeded++
	}

	a.Logger.Info("Batch complete", "succeeded", succeeded, "failed", failed)
	return succeeded, failed, nil
}

// RunBenchmark runs the default sweep over a single audio file, prints the
// comparison table and optionally saves the records. A directory input is
// rejected before any benchmark work starts.
func (a *Application) RunBenchmark(ctx context.Context, inputPath, outputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("%w: file does not exist: %s", transcribe.ErrInvalidPath, inputPath)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: benchmark mode requires a single audio file, got directory: %s", transcribe.ErrInvalidPath, inputPath)
	}

	accelerator := a.Accelerator()
	sweep := bench.DefaultSweep(accelerator)
	runner := bench.NewRunner(a.NewTranscriber, a.Logger)

	records := runner.Run(ctx, sweep, inputPath)

	benchreport.WriteComparison(os.Stdout, records, accelerator)

	if outputPath == "" {
		outputPath = a.Config.Benchmark.OutputPath
	}
	if outputPath != "" {
		if err := benchreport.Save(records, outputPath); err != nil {
			return err
		}
		a.Logger.Info("Benchmark results saved", "path", outputPath)
	}

	if a.History != nil {
		meta := history.NewRunMeta(inputPath, accelerator)
		runID, err := a.History.AppendRun(ctx, meta, records)
		if err != nil {
			a.Logger.Warn("Failed to record benchmark run", "error", err)
		} else {
			a.Logger.Info("Benchmark run recorded", "run_id", runID)
		}
	}
	return nil
}

// Check builds the configured engine and loads the model once, reporting
// whether the stack is ready to transcribe.
func (a *Application) Check(ctx context.Context) error {
	t, err := a.NewTranscriber(a.ModelConfig())
	if err != nil {
		return err
	}
	defer t.Close()

	if err := t.WarmUp(ctx); err != nil {
		return err
	}

	a.Logger.Info("Engine ready",
		"backend", a.Config.Engine.Backend,
		"config", t.Config().String(),
	)
	return nil
}

// transcriptionPath derives the per-file output path: <stem>_transcription.json
// next to the input, or inside dir when given.
func transcriptionPath(inputPath, dir string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := stem + "_transcription.json"
	if dir != "" {
		return filepath.Join(dir, name)
	}
	return filepath.Join(filepath.Dir(inputPath), name)
}

func writeOutcomeJSON(path string, out *transcribe.Outcome) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func writeOutcomeReport(w io.Writer, out *transcribe.Outcome) {
	fmt.Fprintln(w, "\n=== Transcription Results ===")
	fmt.Fprintf(w, "Language: %s (confidence: %.2f%%)\n", out.Language, out.LanguageProbability*100)
	fmt.Fprintf(w, "Duration: %.2fs\n", out.Duration)
	fmt.Fprintf(w, "Transcription Time: %.2fs\n", out.TranscriptionTime)
	fmt.Fprintf(w, "Real-time Factor: %.2fx\n", out.RealTimeFactor)
	fmt.Fprintf(w, "\nFull Text:\n%s\n", out.FullText)

	if len(out.Segments) > 0 {
		fmt.Fprintln(w, "\n=== Segments ===")
		for i, seg := range out.Segments {
			fmt.Fprintf(w, "[%03d] [%.2fs -> %.2fs] %s\n", i+1, seg.Start, seg.End, seg.Text)
		}
	}
}
