package transcribe

import (
	"fmt"
	"runtime"

	"github.com/samber/lo"
)

// Model sizes every backend understands.
const (
	ModelTiny    = "tiny"
	ModelBase    = "base"
	ModelSmall   = "small"
	ModelMedium  = "medium"
	ModelLargeV2 = "large-v2"
	ModelLargeV3 = "large-v3"
)

// Devices a model can be placed on.
const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
	DeviceMPS  = "mps"
)

// Compute precisions.
const (
	ComputeFloat16 = "float16"
	ComputeFloat32 = "float32"
	ComputeInt8    = "int8"
)

var (
	modelSizes   = []string{ModelTiny, ModelBase, ModelSmall, ModelMedium, ModelLargeV2, ModelLargeV3}
	devices      = []string{DeviceAuto, DeviceCPU, DeviceCUDA, DeviceMPS}
	computeTypes = []string{ComputeFloat16, ComputeFloat32, ComputeInt8}
)

// Config selects which model checkpoint to load, where to place it and at
// which precision to run it. Building one never validates; callers decide
// when (and whether) to call Validate, so deliberately invalid configs can
// flow through a benchmark sweep.
type Config struct {
	ModelSize   string `json:"model_size" yaml:"model_size"`
	Device      string `json:"device" yaml:"device"`
	ComputeType string `json:"compute_type" yaml:"compute_type"`
}

func NewConfig(modelSize, device, computeType string) Config {
	return Config{
		ModelSize:   modelSize,
		Device:      device,
		ComputeType: computeType,
	}
}

// DefaultConfig matches the CLI defaults.
func DefaultConfig() Config {
	return Config{
		ModelSize:   ModelBase,
		Device:      DeviceAuto,
		ComputeType: ComputeFloat16,
	}
}

// Validate checks the fields in order and reports the first invalid one.
func (c Config) Validate() error {
	if !lo.Contains(modelSizes, c.ModelSize) {
		return fmt.Errorf("%w: invalid model size: %s", ErrInvalidConfiguration, c.ModelSize)
	}
	if !lo.Contains(devices, c.Device) {
		return fmt.Errorf("%w: invalid device: %s", ErrInvalidConfiguration, c.Device)
	}
	if !lo.Contains(computeTypes, c.ComputeType) {
		return fmt.Errorf("%w: invalid compute type: %s", ErrInvalidConfiguration, c.ComputeType)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%s/%s/%s", c.ModelSize, c.Device, c.ComputeType)
}

// DefaultAccelerator picks the non-CPU device most likely to exist on this
// host. Used as the counterpart of cpu in device comparisons.
func DefaultAccelerator() string {
	if runtime.GOOS == "darwin" {
		return DeviceMPS
	}
	return DeviceCUDA
}
