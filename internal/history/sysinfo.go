package history

import (
	"bufio"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/ciricc/whisper-bench/internal/audiofile"
)

// NewRunMeta gathers host facts for one benchmark run. Everything here is
// best effort; a field that cannot be detected stays empty.
func NewRunMeta(audioPath, accelerator string) RunMeta {
	hostname, _ := os.Hostname()

	meta := RunMeta{
		AudioPath:   audioPath,
		Accelerator: accelerator,
		Hostname:    hostname,
		CPUModel:    detectCPUModel(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
	}

	if sum, err := audiofile.SHA256(audioPath); err == nil {
		meta.AudioSHA256 = sum
	}
	if dur, err := audiofile.ProbeWAVDuration(audioPath); err == nil {
		meta.AudioDuration = dur
	}
	return meta
}

func detectCPUModel() string {
	if runtime.GOOS == "darwin" {
		out, err := exec.Command("sysctl", "-n", "machdep.cpu.brand_string").Output()
		if err == nil {
			return strings.TrimSpace(string(out))
		}
	}
	if runtime.GOOS == "linux" {
		f, err := os.Open("/proc/cpuinfo")
		if err == nil {
			defer f.Close()
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				line := sc.Text()
				if strings.HasPrefix(line, "model name") {
					parts := strings.SplitN(line, ":", 2)
					if len(parts) == 2 {
						return strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}
	return runtime.GOARCH + " CPU"
}
