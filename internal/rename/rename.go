// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rename assigns sequential volume numbers to the files of a
// directory. Every direct child file becomes "<new name> vol<NN><suffix>",
// where NN is the first two-digit run found in the file's path, or the next
// value of a run-wide counter for files that carry no such run.
package rename

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/pdiddy/bookbinder/internal/logger"
	"github.com/pdiddy/bookbinder/internal/volume"
	"github.com/pdiddy/bookbinder/pkg/types"
)

// ErrDirectoryNotFound is returned when the folder path does not name an
// existing directory. No file is touched in that case.
var ErrDirectoryNotFound = errors.New("directory not found")

// Origin records where a volume number came from.
type Origin string

const (
	OriginPath    Origin = "path"
	OriginCounter Origin = "counter"
)

// Status is the outcome of one file.
type Status string

const (
	StatusRenamed     Status = "renamed"
	StatusWouldRename Status = "would-rename"
	StatusFailed      Status = "failed"
)

// Entry is one planned rename and its outcome.
type Entry struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Volume      string `json:"volume" yaml:"volume"`
	Origin      Origin `json:"origin" yaml:"origin"`
	Status      Status `json:"status" yaml:"status"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result holds the outcome of a rename run.
type Result struct {
	// Processed counts every file a rename was attempted for, including
	// files whose rename failed.
	Processed int
	// Renamed counts successful renames, or reported renames in dry-run mode.
	Renamed int
	// Errors lists human-readable per-file problems in the order they occurred.
	Errors  []string
	Entries []Entry
}

// HasErrors reports whether any per-file error was recorded.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Run renames the direct child files of cfg.FolderPath in sorted path order.
// Per-file failures are collected in the result and never stop the run; only
// a missing directory or an unreadable listing returns an error.
//
// A destination that already exists is recorded as an error but the rename
// is still attempted, so the existing file may be replaced.
func Run(fsys afero.Fs, cfg types.RenameConfig, w io.Writer, log *slog.Logger) (Result, error) {
	if log == nil {
		log = logger.Discard()
	}

	dir := cfg.FolderPath
	if ok, _ := afero.IsDir(fsys, dir); !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	files, err := listFiles(fsys, dir)
	if err != nil {
		return Result{}, err
	}
	log.Info("rename.start", "dir", dir, "files", len(files), "dry_run", cfg.DryRun)

	var result Result
	counter := 1
	for _, src := range files {
		entry := plan(src, cfg.NewName, &counter)
		result.Processed++

		if entry.Destination != src {
			if exists, _ := afero.Exists(fsys, entry.Destination); exists {
				result.Errors = append(result.Errors,
					fmt.Sprintf("Cannot rename: %s already exists", filepath.Base(entry.Destination)))
				log.Warn("rename.collision", "src", src, "dst", entry.Destination)
			}
		}

		oldName, newName := filepath.Base(src), filepath.Base(entry.Destination)
		if cfg.DryRun {
			fmt.Fprintf(w, "Would rename: %s → %s\n", oldName, newName)
			entry.Status = StatusWouldRename
			result.Renamed++
			result.Entries = append(result.Entries, entry)
			continue
		}

		if err := move(fsys, src, entry.Destination); err != nil {
			msg := describeFailure(src, err)
			result.Errors = append(result.Errors, msg)
			entry.Status = StatusFailed
			entry.Error = err.Error()
			result.Entries = append(result.Entries, entry)
			log.Warn("rename.failed", "src", src, "dst", entry.Destination, "error", err)
			continue
		}

		fmt.Fprintf(w, "Renamed: %s → %s\n", oldName, newName)
		entry.Status = StatusRenamed
		result.Renamed++
		result.Entries = append(result.Entries, entry)
		log.Debug("rename.done", "src", src, "dst", entry.Destination, "origin", entry.Origin)
	}

	log.Info("rename.finish", "processed", result.Processed, "renamed", result.Renamed, "errors", len(result.Errors))
	return result, nil
}

// plan computes the destination of src. The counter advances only when the
// path carries no two-digit run.
func plan(src, newName string, counter *int) Entry {
	entry := Entry{Source: src}
	if label := volume.FirstLabel(src); label.Found() {
		entry.Volume = label.String()
		entry.Origin = OriginPath
	} else {
		entry.Volume = volume.Counter(*counter)
		entry.Origin = OriginCounter
		*counter++
	}
	name := volume.FileName(newName, entry.Volume, volume.Suffix(filepath.Base(src)))
	entry.Destination = filepath.Join(filepath.Dir(src), name)
	return entry
}

func move(fsys afero.Fs, src, dst string) error {
	if src == dst {
		return nil
	}
	return fsys.Rename(src, dst)
}

func describeFailure(src string, err error) string {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Sprintf("Permission denied: %s", src)
	}
	return fmt.Sprintf("Error processing %s: %v", src, err)
}

// listFiles returns the paths of the regular files directly inside dir,
// sorted lexicographically. Symlinks count when they resolve to a file.
func listFiles(fsys afero.Fs, dir string) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, info := range infos {
		path := filepath.Join(dir, info.Name())
		st, err := fsys.Stat(path)
		if err != nil || !st.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// PrintSummary writes the end-of-run summary block.
func PrintSummary(w io.Writer, r Result) {
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "Files processed: %d\n", r.Processed)
	if !r.HasErrors() {
		return
	}
	fmt.Fprintln(w, "\nErrors encountered:")
	for _, e := range r.Errors {
		fmt.Fprintf(w, "- %s\n", e)
	}
}
