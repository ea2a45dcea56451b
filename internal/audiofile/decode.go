package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadSamples decodes a 16 kHz mono PCM16 WAV file into float32 samples in
// the -1..1 range expected by the native model runtime.
func ReadSamples(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}
	dec.ReadInfo()

	if dec.WavAudioFormat != 1 {
		return nil, fmt.Errorf("unsupported wav format: %d, need PCM=1", dec.WavAudioFormat)
	}
	if dec.NumChans != 1 {
		return nil, fmt.Errorf("unsupported channels: %d, need mono=1", dec.NumChans)
	}
	if dec.SampleRate != 16000 {
		return nil, fmt.Errorf("unsupported sample rate: %d, need 16000", dec.SampleRate)
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d, need 16", dec.BitDepth)
	}

	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           make([]int, 16000*30),
		SourceBitDepth: 16,
	}

	var samples []float32
	for {
		intBuf.Data = intBuf.Data[:cap(intBuf.Data)]
		n, err := dec.PCMBuffer(intBuf)
		if n > 0 {
			fb := intBuf.AsFloat32Buffer()
			samples = append(samples, fb.Data[:n]...)
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode wav: %w", err)
		}
	}
	return samples, nil
}
