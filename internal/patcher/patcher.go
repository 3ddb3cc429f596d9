/*
	Inserts a markup fragment after a marker in a text file and swaps one
	attribute value for another, then writes the file back in place.
	Intended for one-off edits like pointing a logo's fills at a gradient.
*/

package patcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var ErrInvalidJob = errors.New("invalid patch job")

const (
	MissingMarkerMsg = "Could not find insertion point for gradient defs"
	BackupSuffix     = ".bak"
)

// Job describes one patch of one file.
type Job struct {
	Path        string
	Marker      string
	Fragment    string
	Target      string
	Replacement string
}

func (j Job) Validate() error {
	if j.Path == "" {
		return fmt.Errorf("%w: path is empty", ErrInvalidJob)
	}
	if j.Target == "" {
		return fmt.Errorf("%w: target is empty", ErrInvalidJob)
	}
	return nil
}

type Options struct {
	DryRun bool
	Backup bool
}

type Result struct {
	Content  string
	Inserted bool
	Replaced int
}

// Apply inserts the fragment after the first occurrence of the marker, if
// any, and then replaces every occurrence of the target. The replacement also
// sees the inserted fragment.
func Apply(content string, job Job) Result {
	var res Result

	if i := strings.Index(content, job.Marker); job.Marker != "" && i >= 0 {
		end := i + len(job.Marker)
		content = content[:end] + job.Fragment + content[end:]
		res.Inserted = true
	}

	if job.Target != "" {
		res.Replaced = strings.Count(content, job.Target)
		content = strings.ReplaceAll(content, job.Target, job.Replacement)
	}

	res.Content = content
	return res
}

type Patcher struct {
	fs  afero.Fs
	out io.Writer
	log *zap.Logger
}

func New(fs afero.Fs, out io.Writer, log *zap.Logger) *Patcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Patcher{fs: fs, out: out, log: log}
}

// Patch reads job.Path, applies the job and writes the file back. Nothing is
// written if the read fails. The write truncates the file in place, so a
// failure halfway through can leave it damaged unless Backup is set.
func (p *Patcher) Patch(job Job, opts Options) (Result, error) {
	if err := job.Validate(); err != nil {
		return Result{}, err
	}

	log := p.log.With(zap.String("path", job.Path))

	raw, err := afero.ReadFile(p.fs, job.Path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", job.Path, err)
	}
	log.Debug("read file", zap.Int("bytes", len(raw)))

	res := Apply(string(raw), job)
	if !res.Inserted {
		fmt.Fprintln(p.out, MissingMarkerMsg)
		log.Warn("insertion marker not found", zap.String("marker", job.Marker))
	} else {
		log.Debug("inserted fragment", zap.Int("fragment_bytes", len(job.Fragment)))
	}
	log.Debug("replaced target", zap.String("target", job.Target), zap.Int("count", res.Replaced))

	name := filepath.Base(job.Path)

	if opts.DryRun {
		fmt.Fprint(p.out, res.Content)
		fmt.Fprintf(p.out, "Dry run, %s not written\n", name)
		return res, nil
	}

	if opts.Backup {
		if err := p.backup(job.Path, raw); err != nil {
			return Result{}, err
		}
	}

	if err := afero.WriteFile(p.fs, job.Path, []byte(res.Content), os.FileMode(0644)); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", job.Path, err)
	}
	log.Debug("wrote file", zap.Int("bytes", len(res.Content)))

	fmt.Fprintf(p.out, "Successfully updated %s\n", name)
	return res, nil
}

func (p *Patcher) backup(path string, raw []byte) error {
	bak := path + BackupSuffix
	if err := afero.WriteFile(p.fs, bak, raw, os.FileMode(0644)); err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	p.log.Debug("wrote backup", zap.String("backup", bak))
	return nil
}
