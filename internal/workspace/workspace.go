// Package workspace manages the per-run scratch directory holding every
// intermediate artifact between the source copy and the final remux.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"recut/internal/fileutil"
)

// Workspace is one run's scratch directory. Artifact paths are derived from
// the recording base name so a directory listing reads chronologically
// through the pipeline.
type Workspace struct {
	// Dir is the run directory under the configured work dir.
	Dir string
	// Base is the recording base name used as the artifact prefix.
	Base string
	// RunID correlates log lines and the directory name.
	RunID string

	lockPath string
	lock     *flock.Flock
}

// New creates a run directory under workDir and takes an exclusive lock on
// the work directory. Runs are serialized: intermediate artifacts for one
// recording can fill the disk on their own.
func New(workDir, base string) (*Workspace, error) {
	base = sanitizeBase(base)
	if base == "" {
		return nil, fmt.Errorf("workspace: empty recording base name")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	lockPath := filepath.Join(workDir, "recut.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work dir lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another recut run owns %s; wait for it to finish", workDir)
	}

	runID := shortRunID()
	dir := filepath.Join(workDir, base+"-"+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create run dir: %w", err)
	}

	return &Workspace{
		Dir:      dir,
		Base:     base,
		RunID:    runID,
		lockPath: lockPath,
		lock:     lock,
	}, nil
}

func shortRunID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func sanitizeBase(base string) string {
	base = strings.TrimSpace(filepath.Base(base))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Map(func(r rune) rune {
		if r == os.PathSeparator || r == ':' {
			return '-'
		}
		return r
	}, base)
}

func (w *Workspace) path(suffix string) string {
	return filepath.Join(w.Dir, w.Base+suffix)
}

// Original is the verified copy of the raw recording.
func (w *Workspace) Original() string { return w.path("-orig.ts") }

// SegmentFile names the extracted clip for a zero-based segment index.
func (w *Workspace) SegmentFile(index int) string {
	return w.path(fmt.Sprintf("-%d.ts", index))
}

// Joined is the reassembled commercial-free transport stream.
func (w *Workspace) Joined() string { return w.path("-join.ts") }

// DemuxBase is the prefix the demultiplexer writes elementary streams under.
func (w *Workspace) DemuxBase() string { return w.path("-demux") }

// DemuxLog is the demultiplexer's log file.
func (w *Workspace) DemuxLog() string { return w.DemuxBase() + "_log.txt" }

// Captions is the extracted and resynchronized SRT track.
func (w *Workspace) Captions() string { return w.path(".srt") }

// WAV is the intermediate PCM decode for the nero audio encoder.
func (w *Workspace) WAV() string { return w.path(".wav") }

// EncodedVideo names the video encode output for the container extension.
func (w *Workspace) EncodedVideo(ext string) string { return w.path("-video." + ext) }

// EncodedAudio names the audio encode output for the encoder extension.
func (w *Workspace) EncodedAudio(ext string) string { return w.path("-audio." + ext) }

// ChaptersFile names the rendered chapter document for the container.
func (w *Workspace) ChaptersFile(ext string) string { return w.path("-chapters." + ext) }

// TagsFile names the rendered Matroska global-tags document.
func (w *Workspace) TagsFile() string { return w.path("-tags.xml") }

// Cleanup removes the run directory and releases the work dir lock. When
// keep is set the artifacts stay for inspection and only the lock is
// released.
func (w *Workspace) Cleanup(keep bool) error {
	var removeErr error
	if !keep {
		removeErr = os.RemoveAll(w.Dir)
	}
	if w.lock != nil {
		if err := w.lock.Unlock(); err != nil && removeErr == nil {
			removeErr = fmt.Errorf("release work dir lock: %w", err)
		}
		w.lock = nil
	}
	return removeErr
}

// RemovePassLogs deletes two-pass encoder state files left in the run
// directory.
func (w *Workspace) RemovePassLogs() error {
	if err := fileutil.RemoveGlob(filepath.Join(w.Dir, "*2pass*")); err != nil {
		return err
	}
	return fileutil.RemoveGlob(filepath.Join(w.Dir, "ffmpeg2pass*"))
}
