package media

import (
	"bytes"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeDurationMinutes reads the media duration with ffprobe and returns
// it in minutes.
func ProbeDurationMinutes(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out.String()), 64)
	if err != nil {
		return 0, err
	}
	return seconds / 60, nil
}
