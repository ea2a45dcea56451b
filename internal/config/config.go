package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type EngineConfig struct {
	// Backend is one of fasterwhisper, server, whispercpp, stub.
	Backend   string `yaml:"backend"`
	PythonExe string `yaml:"python_exe"`
	ServerURL string `yaml:"server_url"`
	APIKey    string `yaml:"api_key"`
	ModelPath string `yaml:"model_path"`
}

// ModelConfig mirrors the model selection triple plus the language hint.
// The triple is deliberately not validated here; the transcriber checks it
// at run time so that broken values can flow through benchmark sweeps.
type ModelConfig struct {
	Size        string `yaml:"size"`
	Device      string `yaml:"device"`
	ComputeType string `yaml:"compute_type"`
	Language    string `yaml:"language"`
}

type BenchmarkConfig struct {
	// Accelerator is the non-cpu device used in device comparisons.
	// Empty selects the platform default.
	Accelerator string `yaml:"accelerator"`
	OutputPath  string `yaml:"output_path"`
}

type BatchConfig struct {
	MaxConcurrency int `yaml:"max_concurrency"`
}

type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
	MaxRuns       int    `yaml:"max_runs"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
	Stdout       bool   `yaml:"stdout"`
	Environment  string `yaml:"environment"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Model     ModelConfig     `yaml:"model"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Batch     BatchConfig     `yaml:"batch"`
	History   HistoryConfig   `yaml:"history"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

func Default() Config {
	return Config{
		Engine: EngineConfig{
			Backend:   "fasterwhisper",
			PythonExe: "python3",
		},
		Model: ModelConfig{
			Size:        "base",
			Device:      "auto",
			ComputeType: "float16",
		},
		Batch: BatchConfig{
			MaxConcurrency: 4,
		},
		History: HistoryConfig{
			Enabled:       false,
			Path:          "./data/whisper-bench.db",
			RetentionDays: 30,
			MaxRuns:       1000,
		},
		Telemetry: TelemetryConfig{
			OTLPInsecure: true,
			Environment:  "development",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// WHISPER_BENCH_* environment overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Engine.Backend, "WHISPER_BENCH_ENGINE_BACKEND")
	overrideString(&cfg.Engine.PythonExe, "WHISPER_BENCH_ENGINE_PYTHON")
	overrideString(&cfg.Engine.ServerURL, "WHISPER_BENCH_ENGINE_SERVER_URL")
	overrideString(&cfg.Engine.APIKey, "WHISPER_BENCH_ENGINE_API_KEY")
	overrideString(&cfg.Engine.ModelPath, "WHISPER_BENCH_ENGINE_MODEL_PATH")
	overrideString(&cfg.Model.Size, "WHISPER_BENCH_MODEL_SIZE")
	overrideString(&cfg.Model.Device, "WHISPER_BENCH_MODEL_DEVICE")
	overrideString(&cfg.Model.ComputeType, "WHISPER_BENCH_MODEL_COMPUTE_TYPE")
	overrideString(&cfg.Model.Language, "WHISPER_BENCH_MODEL_LANGUAGE")
	overrideString(&cfg.Benchmark.Accelerator, "WHISPER_BENCH_ACCELERATOR")
	overrideString(&cfg.Benchmark.OutputPath, "WHISPER_BENCH_OUTPUT")
	overrideInt(&cfg.Batch.MaxConcurrency, "WHISPER_BENCH_BATCH_MAX_CONCURRENCY")
	overrideBool(&cfg.History.Enabled, "WHISPER_BENCH_HISTORY_ENABLED")
	overrideString(&cfg.History.Path, "WHISPER_BENCH_HISTORY_PATH")
	overrideInt(&cfg.History.RetentionDays, "WHISPER_BENCH_HISTORY_RETENTION_DAYS")
	overrideInt(&cfg.History.MaxRuns, "WHISPER_BENCH_HISTORY_MAX_RUNS")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "WHISPER_BENCH_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "WHISPER_BENCH_TELEMETRY_OTLP_INSECURE")
	overrideBool(&cfg.Telemetry.Stdout, "WHISPER_BENCH_TELEMETRY_STDOUT")
	overrideString(&cfg.Telemetry.Environment, "WHISPER_BENCH_TELEMETRY_ENVIRONMENT")
	overrideString(&cfg.Log.Level, "WHISPER_BENCH_LOG_LEVEL")
	overrideString(&cfg.Log.Format, "WHISPER_BENCH_LOG_FORMAT")
}

func validate(cfg Config) error {
	switch cfg.Engine.Backend {
	case "fasterwhisper", "server", "whispercpp", "stub":
	default:
		return fmt.Errorf("unknown engine backend: %s", cfg.Engine.Backend)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Log.Format)
	}

	if cfg.Batch.MaxConcurrency < 1 {
		return fmt.Errorf("batch max_concurrency must be at least 1, got %d", cfg.Batch.MaxConcurrency)
	}
	return nil
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}
