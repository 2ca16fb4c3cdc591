// Package deps reports the availability of the external binaries the
// pipeline invokes.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"slidecast/internal/config"
)

// Requirement defines an external dependency slidecast relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements builds the dependency list for the given configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "Slide renderer", Command: cfg.Tools.Renderer, Description: "Exports slides to PNG images"},
		{Name: "Speech synthesizer", Command: cfg.Tools.TTS, Description: "Synthesizes narration audio from notes"},
		{Name: "FFmpeg", Command: cfg.Tools.FFmpeg, Description: "Composes clips and concatenates the final video"},
		{Name: "FFprobe", Command: cfg.Tools.FFprobe, Description: "Probes narration audio duration"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
