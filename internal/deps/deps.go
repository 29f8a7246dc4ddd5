// Package deps enumerates the external binaries recut shells out to and
// reports their availability and versions.
package deps

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"recut/internal/config"
	"recut/internal/services/toolexec"
)

// Requirement defines an external dependency recut relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// VersionArgs and VersionRE probe the installed version; empty
	// VersionRE skips probing.
	VersionArgs []string
	VersionRE   string
	// JarPath marks java-hosted tools whose jar must also exist.
	JarPath string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// Requirements returns the dependency list for the given configuration.
// Only the tools the configured container and encoders actually invoke are
// required; the rest are reported as optional.
func Requirements(cfg *config.Config) []Requirement {
	mp4 := cfg.Video.Container == "mp4"
	reqs := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Required for splitting, joining, and encoding",
			VersionArgs: []string{"-version"},
			VersionRE:   `([Ff]+mpeg[^,]*)`,
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Required for media inspection",
			VersionArgs: []string{"-version"},
			VersionRE:   `([Ff]+probe[^,]*)`,
		},
		{
			Name:        "Project-X",
			Command:     cfg.Tools.Java,
			JarPath:     cfg.Tools.ProjectXJar,
			Description: "Required for demultiplexing the joined stream",
			VersionArgs: []string{"-jar", cfg.Tools.ProjectXJar, "-?"},
			VersionRE:   `(ProjectX [0-9/.]+)`,
		},
		{
			Name:        "CCExtractor",
			Command:     cfg.Tools.CCExtractor,
			Description: "Extracts closed captions",
			Optional:    !cfg.Subtitles.Enabled,
			VersionRE:   `(CCExtractor [0-9]+\.[0-9]+)`,
		},
		{
			Name:        "MP4Box",
			Command:     cfg.Tools.MP4Box,
			Description: "Remuxes MPEG-4 output",
			Optional:    !mp4,
			VersionArgs: []string{"-version"},
			VersionRE:   `version\s*([0-9.DEV]+)`,
		},
		{
			Name:        "mkvmerge",
			Command:     cfg.Tools.MKVMerge,
			Description: "Remuxes Matroska output",
			Optional:    mp4,
			VersionArgs: []string{"--version"},
			VersionRE:   `\sv([0-9.]+)`,
		},
		{
			Name:        "neroAacEnc",
			Command:     cfg.Tools.NeroAacEnc,
			Description: "AAC audio encoder",
			Optional:    cfg.Audio.Encoder != "nero",
			VersionArgs: []string{"-help"},
			VersionRE:   `(Nero AAC Encoder[^,]*)`,
		},
		{
			Name:        "AtomicParsley",
			Command:     cfg.Tools.AtomicParsley,
			Description: "Tags MPEG-4 output",
			Optional:    !mp4 || !cfg.Metadata.Enabled,
			VersionArgs: []string{"--help"},
			VersionRE:   `(AtomicParsley)`,
		},
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports
// availability, probing versions where a pattern is configured.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	executor := toolexec.NewCommandExecutor()
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, checkOne(ctx, executor, req))
	}
	return results
}

func checkOne(ctx context.Context, executor toolexec.Executor, req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(cmd); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	if req.JarPath != "" {
		if _, err := os.Stat(req.JarPath); err != nil {
			status.Detail = fmt.Sprintf("jar %q not found", req.JarPath)
			return status
		}
	}
	status.Available = true
	if req.VersionRE != "" {
		if version, ok := toolexec.Version(ctx, executor, cmd, req.VersionArgs, req.VersionRE); ok {
			status.Version = version
		}
	}
	return status
}

// MissingRequired returns the unavailable non-optional statuses.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}
