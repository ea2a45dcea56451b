package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ciricc/whisper-bench/internal/app"
	"github.com/ciricc/whisper-bench/internal/config"
)

func main() {
	var (
		inputPath   string
		outputPath  string
		modelSize   string
		device      string
		computeType string
		engineName  string
		language    string
		configPath  string
		benchmark   bool
		check       bool
		useHistory  bool
	)

	flag.StringVar(&inputPath, "i", "", "input audio file or directory")
	flag.StringVar(&inputPath, "input", "", "input audio file or directory")
	flag.StringVar(&outputPath, "o", "", "output file or directory for JSON results")
	flag.StringVar(&outputPath, "output", "", "output file or directory for JSON results")
	flag.StringVar(&modelSize, "m", "", "model size: tiny, base, small, medium, large-v2, large-v3 (default base)")
	flag.StringVar(&modelSize, "model", "", "model size: tiny, base, small, medium, large-v2, large-v3 (default base)")
	flag.StringVar(&device, "d", "", "device: auto, cpu, cuda, mps (default auto)")
	flag.StringVar(&device, "device", "", "device: auto, cpu, cuda, mps (default auto)")
	flag.StringVar(&computeType, "c", "", "compute type: float16, float32, int8 (default float16)")
	flag.StringVar(&computeType, "compute-type", "", "compute type: float16, float32, int8 (default float16)")
	flag.BoolVar(&benchmark, "b", false, "run the benchmark sweep comparing devices, model sizes and compute types")
	flag.BoolVar(&benchmark, "benchmark", false, "run the benchmark sweep comparing devices, model sizes and compute types")
	flag.StringVar(&engineName, "engine", "", "engine backend: fasterwhisper, server, whispercpp, stub")
	flag.StringVar(&language, "lang", "", "language code hint, empty for auto-detect")
	flag.StringVar(&configPath, "config", "", "path to YAML config file (default config.yaml when present)")
	flag.BoolVar(&check, "check", false, "verify the engine can load the model, then exit")
	flag.BoolVar(&useHistory, "history", false, "record benchmark runs in the local history database")
	flag.Parse()

	if configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			configPath = "config.yaml"
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	// Flags win over file and environment.
	if modelSize != "" {
		cfg.Model.Size = modelSize
	}
	if device != "" {
		cfg.Model.Device = device
	}
	if computeType != "" {
		cfg.Model.ComputeType = computeType
	}
	if engineName != "" {
		cfg.Engine.Backend = engineName
	}
	if language != "" {
		cfg.Model.Language = language
	}
	if useHistory {
		cfg.History.Enabled = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		fatalf("init error: %v", err)
	}
	defer application.Close(ctx)

	if check {
		if err := application.Check(ctx); err != nil {
			fatalf("engine not ready: %v", err)
		}
		return
	}

	if inputPath == "" {
		fmt.Fprintln(os.Stderr, "an input path is required")
		flag.Usage()
		os.Exit(2)
	}

	if benchmark {
		if err := application.RunBenchmark(ctx, inputPath, outputPath); err != nil {
			fatalf("benchmark failed: %v", err)
		}
		return
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		fatalf("input path does not exist: %s", inputPath)
	}

	if info.IsDir() {
		if _, _, err := application.RunBatch(ctx, inputPath, outputPath); err != nil {
			fatalf("batch failed: %v", err)
		}
		return
	}

	if err := application.RunFile(ctx, inputPath, outputPath); err != nil {
		fatalf("transcription failed: %v", err)
	}
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
