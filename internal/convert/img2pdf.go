// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/pdiddy/bookbinder/internal/container"
)

const (
	binImg2pdf   = "img2pdf"
	imageImg2pdf = "img2pdf:latest"
)

// commandRunner abstracts local process execution for testing.
type commandRunner interface {
	LookPath(file string) (string, error)
	Output(name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osRunner) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Img2pdfConverter delegates encoding to the img2pdf tool, which embeds
// JPEG data without re-encoding. It runs the local binary when one is on
// PATH, otherwise the img2pdf container image with the image directories
// mounted read-only.
type Img2pdfConverter struct {
	runner  commandRunner
	runtime container.Runtime
}

// NewImg2pdfConverter locates img2pdf on PATH or in a local container image.
func NewImg2pdfConverter() (*Img2pdfConverter, error) {
	return newImg2pdfConverter(osRunner{}, container.DetectRuntime)
}

func newImg2pdfConverter(r commandRunner, detect func() (container.Runtime, error)) (*Img2pdfConverter, error) {
	if _, err := r.LookPath(binImg2pdf); err == nil {
		return &Img2pdfConverter{runner: r}, nil
	}

	rt, err := detect()
	if err != nil {
		return nil, fmt.Errorf("%w: %s not on PATH and %v", ErrBackendUnavailable, binImg2pdf, err)
	}
	if err := rt.ImageExists(imageImg2pdf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return &Img2pdfConverter{runtime: rt}, nil
}

// Convert implements Converter.
func (c *Img2pdfConverter) Convert(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, ErrNoImages
	}

	var out []byte
	if c.runtime != nil {
		abs, mounts, err := containerArgs(paths)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := c.runtime.Run(imageImg2pdf, mounts, abs, &buf); err != nil {
			return nil, fmt.Errorf("converting %d image(s) with img2pdf: %w", len(paths), err)
		}
		out = buf.Bytes()
	} else {
		b, err := c.runner.Output(binImg2pdf, paths...)
		if err != nil {
			return nil, fmt.Errorf("converting %d image(s) with img2pdf: %w", len(paths), err)
		}
		out = b
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("img2pdf produced empty output for %d image(s)", len(paths))
	}
	return out, nil
}

// containerArgs resolves paths to absolute form and returns one read-only
// mount per distinct parent directory, mapped to the same path inside the
// container.
func containerArgs(paths []string) ([]string, []container.Mount, error) {
	abs := make([]string, len(paths))
	dirs := map[string]bool{}
	for i, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		abs[i] = a
		dirs[filepath.Dir(a)] = true
	}

	keys := make([]string, 0, len(dirs))
	for d := range dirs {
		keys = append(keys, d)
	}
	sort.Strings(keys)

	mounts := make([]container.Mount, len(keys))
	for i, d := range keys {
		mounts[i] = container.Mount{Source: d, Target: d, ReadOnly: true}
	}
	return abs, mounts, nil
}
