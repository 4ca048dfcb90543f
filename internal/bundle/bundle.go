// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bundle collects image files into groups and writes one PDF per
// group. A directory without subdirectories is a single group written to
// "<name>.pdf"; otherwise each subdirectory is a group written to
// "<name>_<NN>.pdf", NN being the first two-digit run in the subdirectory's
// path.
package bundle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/afero"

	"github.com/pdiddy/bookbinder/internal/convert"
	"github.com/pdiddy/bookbinder/internal/logger"
	"github.com/pdiddy/bookbinder/internal/volume"
	"github.com/pdiddy/bookbinder/pkg/types"
)

var (
	// ErrNoVolumeLabel is returned when a subdirectory holding images has no
	// two-digit run anywhere in its path. The run stops at that group.
	ErrNoVolumeLabel = errors.New("no two-digit volume label in path")
	// ErrEmptyPDFName is returned when the output base name is empty.
	ErrEmptyPDFName = errors.New("pdf name is required")
)

// imageSuffixes lists the recognized extensions. Mixed-case variants such as
// ".Jpg" are deliberately not matched.
var imageSuffixes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".JPG":  true,
	".JPEG": true,
	".PNG":  true,
}

// IsImage reports whether name carries a recognized image suffix.
func IsImage(name string) bool {
	return imageSuffixes[volume.Suffix(name)]
}

// Mode tells how the input directory was grouped.
type Mode string

const (
	ModeFlat           Mode = "flat"
	ModeSubdirectories Mode = "subdirectories"
)

// Output describes one written PDF.
type Output struct {
	Dir    string `json:"dir" yaml:"dir"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Images int    `json:"images" yaml:"images"`
	Path   string `json:"path" yaml:"path"`
	Pages  int    `json:"pages" yaml:"pages"`
}

// Result holds the outcome of a bundling run. On failure it still lists the
// PDFs written before the failing group.
type Result struct {
	Mode      Mode
	OutputDir string
	Outputs   []Output
}

// group is one image group awaiting conversion.
type group struct {
	dir    string
	images []string
}

// Run bundles the images under cfg.InputPath. Any error aborts the run;
// PDFs already written stay on disk. When progress is non-nil a progress bar
// over the groups is drawn on it.
func Run(fsys afero.Fs, conv convert.Converter, cfg types.BundleConfig, progress io.Writer, log *slog.Logger) (Result, error) {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.PDFName == "" {
		return Result{}, ErrEmptyPDFName
	}

	outDir, err := resolveOutputDir(fsys, cfg)
	if err != nil {
		return Result{}, err
	}
	result := Result{OutputDir: outDir}

	subdirs, files, err := listDir(fsys, cfg.InputPath)
	if err != nil {
		return result, err
	}

	var groups []group
	if len(subdirs) == 0 {
		result.Mode = ModeFlat
		groups = []group{{dir: cfg.InputPath, images: filterImages(files)}}
	} else {
		result.Mode = ModeSubdirectories
		for _, d := range subdirs {
			groups = append(groups, group{dir: d})
		}
	}
	log.Info("bundle.start", "input", cfg.InputPath, "output", outDir, "mode", result.Mode, "groups", len(groups))

	var bar *pb.ProgressBar
	if progress != nil {
		bar = pb.New(len(groups)).
			SetTemplateString(`{{ bar . " " "━" "━" " " " "}} {{counters .}} {{percent .}}`).
			SetWriter(progress).
			Start()
		defer bar.Finish()
	}

	written := map[string]bool{}
	for _, g := range groups {
		out, ok, err := bundleGroup(fsys, conv, cfg.PDFName, outDir, result.Mode, g, log)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			log.Error("bundle.failed", "dir", g.dir, "error", err)
			return result, err
		}
		if !ok {
			continue
		}
		if written[out.Path] {
			log.Warn("bundle.overwrite", "path", out.Path, "dir", g.dir)
		}
		written[out.Path] = true
		result.Outputs = append(result.Outputs, out)
	}

	log.Info("bundle.finish", "written", len(result.Outputs))
	return result, nil
}

// bundleGroup converts one group and writes its PDF. It reports false when
// the group holds no images and nothing was written.
func bundleGroup(fsys afero.Fs, conv convert.Converter, name, outDir string, mode Mode, g group, log *slog.Logger) (Output, bool, error) {
	images := g.images
	if mode == ModeSubdirectories {
		_, files, err := listDir(fsys, g.dir)
		if err != nil {
			return Output{}, false, err
		}
		images = filterImages(files)
		sort.Strings(images)
	}
	if len(images) == 0 {
		log.Debug("bundle.skip_empty", "dir", g.dir)
		return Output{}, false, nil
	}

	out := Output{Dir: g.dir, Images: len(images)}
	fileName := name + ".pdf"
	if mode == ModeSubdirectories {
		label := volume.FirstLabel(g.dir)
		if !label.Found() {
			return Output{}, false, fmt.Errorf("%w: %s", ErrNoVolumeLabel, g.dir)
		}
		out.Label = label.String()
		fileName = name + "_" + out.Label + ".pdf"
	}
	out.Path = filepath.Join(outDir, fileName)

	data, err := conv.Convert(images)
	if err != nil {
		return Output{}, false, fmt.Errorf("converting %s: %w", g.dir, err)
	}
	if err := afero.WriteFile(fsys, out.Path, data, 0o644); err != nil {
		return Output{}, false, fmt.Errorf("writing %s: %w", out.Path, err)
	}

	if pages, err := convert.PageCount(data); err != nil {
		log.Warn("bundle.page_count", "path", out.Path, "error", err)
	} else {
		out.Pages = pages
	}
	log.Info("bundle.written", "path", out.Path, "images", out.Images, "pages", out.Pages)
	return out, true, nil
}

// resolveOutputDir returns the input directory for the sentinel output path,
// and otherwise creates the requested directory with its parents.
func resolveOutputDir(fsys afero.Fs, cfg types.BundleConfig) (string, error) {
	if cfg.OutputPath == "" || cfg.OutputPath == types.OutputSameAsInput {
		return cfg.InputPath, nil
	}
	if err := fsys.MkdirAll(cfg.OutputPath, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", cfg.OutputPath, err)
	}
	return cfg.OutputPath, nil
}

// listDir splits the direct children of dir into subdirectory paths and
// non-directory paths, both in listing order. Symlinks are classified by
// their targets.
func listDir(fsys afero.Fs, dir string) (subdirs, files []string, err error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	for _, info := range infos {
		path := filepath.Join(dir, info.Name())
		if st, err := fsys.Stat(path); err == nil && st.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		files = append(files, path)
	}
	return subdirs, files, nil
}

func filterImages(paths []string) []string {
	var images []string
	for _, p := range paths {
		if IsImage(filepath.Base(p)) {
			images = append(images, p)
		}
	}
	return images
}
