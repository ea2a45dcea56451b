package audiofile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ProbeWAVDuration reads a WAV file and returns its duration in seconds.
// The PCM payload is streamed to count frames, so the value is exact even
// when the header length field is wrong.
func ProbeWAVDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, errors.New("invalid wav file")
	}
	dec.ReadInfo()
	if dec.SampleRate == 0 || dec.NumChans == 0 || dec.BitDepth == 0 {
		return 0, errors.New("invalid wav header")
	}

	frames, err := countFrames(dec)
	if err != nil {
		return 0, err
	}
	return float64(frames) / float64(dec.SampleRate), nil
}

// countFrames streams PCM buffers until EOF and counts frames. The decoder
// advances, so the caller must have opened a fresh reader.
func countFrames(dec *wav.Decoder) (int, error) {
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: int(dec.NumChans), SampleRate: int(dec.SampleRate)},
		Data:           make([]int, 16000*60),
		SourceBitDepth: int(dec.BitDepth),
	}

	var total int
	for {
		n, err := dec.PCMBuffer(intBuf)
		if n > 0 {
			total += n
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	return total / int(dec.NumChans), nil
}

// SHA256 returns the hex digest of the file at path.
func SHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
