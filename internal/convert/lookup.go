// Package convert merges and transcodes downloaded streams with ffmpeg.
package convert

import (
	"fmt"
	"os"
	"os/exec"

	"mediagrab/internal/domain/errs"
	"mediagrab/internal/utils/logging"
)

// BinaryEnv names the environment variable checked for an ffmpeg binary.
const BinaryEnv = "FFMPEG_BINARY"

// Lookup finds an ffmpeg binary: the explicit path first, then $FFMPEG_BINARY,
// then ffmpeg or ffmpeg.exe on PATH.
func Lookup(explicit string) (string, error) {
	candidates := []string{explicit, os.Getenv(BinaryEnv), "ffmpeg", "ffmpeg.exe"}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		path, err := exec.LookPath(c)
		if err != nil {
			logging.D(2, "ffmpeg candidate %q not usable: %v", c, err)
			continue
		}
		logging.D(1, "Using ffmpeg binary %q", path)
		return path, nil
	}
	return "", fmt.Errorf("no ffmpeg binary found: %w", errs.ErrConverterUnavailable)
}
