package engine

import (
	"fmt"

	"github.com/ciricc/whisper-bench/internal/transcribe"
)

// Backend names accepted by New.
const (
	BackendFasterWhisper = "fasterwhisper"
	BackendServer        = "server"
	BackendWhisperCPP    = "whispercpp"
	BackendStub          = "stub"
)

// New builds the backend named by name. An empty name selects the
// fasterwhisper backend.
func New(name string, params Params) (transcribe.Engine, error) {
	switch name {
	case BackendFasterWhisper, "":
		return NewFasterWhisper(params), nil
	case BackendServer:
		return NewServer(params)
	case BackendWhisperCPP:
		if !NativeAvailable() {
			return nil, fmt.Errorf("%w: binary built without whispercpp support", transcribe.ErrModelInitialization)
		}
		return NewNative(params)
	case BackendStub:
		return NewStub(params), nil
	default:
		return nil, fmt.Errorf("%w: unknown engine backend: %s", transcribe.ErrModelInitialization, name)
	}
}
