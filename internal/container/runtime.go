// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs the img2pdf image under docker or podman for hosts
// that lack a local img2pdf binary. Image directories are bind-mounted at
// their host paths so the tool sees the same file names it was given.
package container

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrNoRuntime is returned by DetectRuntime when no engine answers.
var ErrNoRuntime = errors.New("no container runtime available")

// Mount binds a host directory into the container.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// flag renders the mount as a -v argument value.
func (m Mount) flag() string {
	v := m.Source + ":" + m.Target
	if m.ReadOnly {
		v += ":ro"
	}
	return v
}

// Runtime is a usable container engine.
type Runtime interface {
	// Name is the engine binary, "docker" or "podman".
	Name() string

	// Available reports whether the engine is on PATH and its daemon or
	// service answers "info".
	Available() bool

	// ImageExists returns nil when image is present locally.
	ImageExists(image string) error

	// Run starts a throwaway container of image with mounts, passing args to
	// its entrypoint, and copies the container's stdout to stdout.
	Run(image string, mounts []Mount, args []string, stdout io.Writer) error
}

// commander runs engine binaries. Tests substitute a recorder.
type commander interface {
	LookPath(file string) (string, error)
	Quiet(name string, args ...string) error
	Capture(name string, args []string, stdout io.Writer) error
}

type osCommander struct{}

func (osCommander) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osCommander) Quiet(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osCommander) Capture(name string, args []string, stdout io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	return cmd.Run()
}

// engineSpec names an engine and its local image check, in detection order.
type engineSpec struct {
	bin     string
	inspect []string
}

var engineSpecs = []engineSpec{
	{bin: "docker", inspect: []string{"image", "inspect"}},
	{bin: "podman", inspect: []string{"image", "exists"}},
}

// engine implements Runtime for one binary.
type engine struct {
	engineSpec
	cmd commander
}

func (e *engine) Name() string { return e.bin }

func (e *engine) Available() bool {
	if _, err := e.cmd.LookPath(e.bin); err != nil {
		return false
	}
	return e.cmd.Quiet(e.bin, "info") == nil
}

func (e *engine) ImageExists(image string) error {
	args := append(append([]string(nil), e.inspect...), image)
	if err := e.cmd.Quiet(e.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, e.bin, err)
	}
	return nil
}

// Run has no network and no stdin; img2pdf only reads the mounted images.
func (e *engine) Run(image string, mounts []Mount, args []string, stdout io.Writer) error {
	cmdArgs := []string{"run", "--rm", "--network=none"}
	for _, m := range mounts {
		cmdArgs = append(cmdArgs, "-v", m.flag())
	}
	cmdArgs = append(cmdArgs, image)
	cmdArgs = append(cmdArgs, args...)

	if err := e.cmd.Capture(e.bin, cmdArgs, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", e.bin, image, err)
	}
	return nil
}

func newEngine(bin string, cmd commander) *engine {
	for _, s := range engineSpecs {
		if s.bin == bin {
			return &engine{engineSpec: s, cmd: cmd}
		}
	}
	return nil
}

// DetectRuntime returns the first available engine, docker before podman.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(osCommander{})
}

func detectRuntime(cmd commander) (Runtime, error) {
	tried := make([]string, 0, len(engineSpecs))
	for _, s := range engineSpecs {
		e := &engine{engineSpec: s, cmd: cmd}
		if e.Available() {
			return e, nil
		}
		tried = append(tried, s.bin)
	}
	return nil, fmt.Errorf("%w: tried %s", ErrNoRuntime, strings.Join(tried, ", "))
}
