// Package bench generates configuration sweeps and runs them strictly
// sequentially against a single audio file.
package bench

import (
	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// Sweep is an ordered list of configurations to benchmark in one run.
// Generators only append, so sweeps compose by calling them in sequence.
type Sweep struct {
	configs     []transcribe.Config
	accelerator string
}

// NewSweep returns an empty sweep whose device comparisons use accelerator
// as the counterpart of cpu. An empty accelerator falls back to the
// platform default.
func NewSweep(accelerator string) *Sweep {
	if accelerator == "" {
		accelerator = transcribe.DefaultAccelerator()
	}
	return &Sweep{accelerator: accelerator}
}

// Configs returns the accumulated configurations in insertion order.
func (s *Sweep) Configs() []transcribe.Config {
	return s.configs
}

func (s *Sweep) Accelerator() string {
	return s.accelerator
}

func (s *Sweep) Len() int {
	return len(s.configs)
}

// Add appends one configuration as-is. Validation happens at run time, so
// deliberately broken configurations can ride along.
func (s *Sweep) Add(config transcribe.Config) {
	s.configs = append(s.configs, config)
}

// AddDeviceComparison appends a cpu configuration followed by the same
// model and precision on the accelerator.
func (s *Sweep) AddDeviceComparison(modelSize, computeType string) {
	s.Add(transcribe.NewConfig(modelSize, transcribe.DeviceCPU, computeType))
	s.Add(transcribe.NewConfig(modelSize, s.accelerator, computeType))
}

// AddModelSizeComparison appends the fixed tiny, base, small, medium
// progression, passing device and precision through unchanged.
func (s *Sweep) AddModelSizeComparison(device, computeType string) {
	for _, size := range []string{
		transcribe.ModelTiny,
		transcribe.ModelBase,
		transcribe.ModelSmall,
		transcribe.ModelMedium,
	} {
		s.Add(transcribe.NewConfig(size, device, computeType))
	}
}

// AddComputeTypeComparison appends float16 and float32 variants of the
// given model and device.
func (s *Sweep) AddComputeTypeComparison(modelSize, device string) {
	for _, computeType := range []string{transcribe.ComputeFloat16, transcribe.ComputeFloat32} {
		s.Add(transcribe.NewConfig(modelSize, device, computeType))
	}
}

// DefaultSweep is the stock benchmark: a device comparison of the base
// model at float16, the model size ladder on the accelerator, and a
// precision comparison of base on the accelerator.
func DefaultSweep(accelerator string) *Sweep {
	s := NewSweep(accelerator)
	s.AddDeviceComparison(transcribe.ModelBase, transcribe.ComputeFloat16)
	s.AddModelSizeComparison(s.accelerator, transcribe.ComputeFloat16)
	s.AddComputeTypeComparison(transcribe.ModelBase, s.accelerator)
	return s
}
