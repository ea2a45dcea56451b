//go:build !whispercpp

package engine

import (
	"fmt"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// NativeAvailable reports whether this binary carries the whisper.cpp
// backend.
func NativeAvailable() bool {
	return false
}

// NewNative always fails in builds without the whispercpp tag.
func NewNative(params Params) (transcribe.Engine, error) {
	return nil, fmt.Errorf("%w: binary built without whispercpp support", transcribe.ErrModelInitialization)
}
