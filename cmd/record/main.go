package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ciricc/whisper-bench/internal/app"
	"github.com/ciricc/whisper-bench/internal/config"
	"github.com/gen2brain/malgo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const targetSampleRate = 16000

func main() {
	var (
		outPath    = flag.String("o", "recording.wav", "output WAV path")
		seconds    = flag.Int("seconds", 5, "seconds of audio to record")
		transcribe = flag.Bool("transcribe", false, "transcribe the recording right away")
		engineName = flag.String("engine", "", "engine backend for -transcribe: fasterwhisper, server, whispercpp, stub")
	)
	flag.Parse()

	if *seconds <= 0 {
		fatalf("seconds must be positive, got %d", *seconds)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	samples, err := capture(ctx, *seconds)
	if err != nil {
		fatalf("capture: %v", err)
	}
	if len(samples) == 0 {
		fatalf("no audio captured")
	}

	if err := writeWAV(*outPath, samples); err != nil {
		fatalf("write wav: %v", err)
	}
	fmt.Printf("Recorded %.1fs to %s\n", float64(len(samples))/targetSampleRate, *outPath)

	if !*transcribe {
		return
	}

	cfg, err := config.Load("")
	if err != nil {
		fatalf("load config: %v", err)
	}
	if *engineName != "" {
		cfg.Engine.Backend = *engineName
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		fatalf("init error: %v", err)
	}
	defer application.Close(ctx)

	if err := application.RunFile(ctx, *outPath, ""); err != nil {
		fatalf("transcription failed: %v", err)
	}
}

// capture records from the default input device until the duration elapses
// or the context is cancelled, returning 16 kHz mono samples.
func capture(ctx context.Context, seconds int) ([]float32, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {})
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	defer audioCtx.Uninit()

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Channels = 1
	cfg.Capture.Format = malgo.FormatS16
	cfg.SampleRate = targetSampleRate

	var stopped atomic.Bool
	var accum []float32
	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutput, pInput []byte, frameCount uint32) {
			if stopped.Load() {
				return
			}
			for i := 0; i+1 < len(pInput); i += 2 {
				v := int16(binary.LittleEndian.Uint16(pInput[i : i+2]))
				accum = append(accum, float32(v)/32768.0)
			}
		},
	}

	device, err := malgo.InitDevice(audioCtx.Context, cfg, callbacks)
	if err != nil {
		return nil, fmt.Errorf("init device: %w", err)
	}
	defer device.Uninit()

	deviceRate := targetSampleRate
	if sr := int(device.SampleRate()); sr > 0 {
		deviceRate = sr
	}

	if err := device.Start(); err != nil {
		return nil, fmt.Errorf("start device: %w", err)
	}

	fmt.Printf("Recording %ds from the default input device...\n", seconds)
	select {
	case <-time.After(time.Duration(seconds) * time.Second):
	case <-ctx.Done():
	}

	stopped.Store(true)
	_ = device.Stop()

	if deviceRate != targetSampleRate {
		accum = resampleMonoFloat32(accum, deviceRate, targetSampleRate)
	}
	return accum, nil
}

func writeWAV(path string, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, targetSampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		v := int(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		data[i] = v
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: targetSampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func resampleMonoFloat32(in []float32, inRate, outRate int) []float32 {
	if inRate == outRate || len(in) == 0 {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}
	ratio := float64(outRate) / float64(inRate)
	outLen := int(math.Round(float64(len(in)) * ratio))
	if outLen <= 0 {
		return nil
	}
	out := make([]float32, outLen)
	for i := 0; i < outLen; i++ {
		x := float64(i) / ratio
		ix := int(math.Floor(x))
		fx := float32(x - float64(ix))
		if ix >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		v0 := in[ix]
		v1 := in[ix+1]
		out[i] = v0 + (v1-v0)*fx
	}
	return out
}

func fatalf(format string, a ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
