// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rpdf "rsc.io/pdf"

	"github.com/pdiddy/bookbinder/internal/container"
	"github.com/pdiddy/bookbinder/pkg/types"
)

// opaqueImage returns a solid w×h image so PNG encodes without alpha.
func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	return img
}

// writeImage encodes a test image at path, choosing the codec by extension.
func writeImage(t *testing.T, fsys afero.Fs, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		require.NoError(t, png.Encode(&buf, opaqueImage(w, h)))
	} else {
		require.NoError(t, jpeg.Encode(&buf, opaqueImage(w, h), nil))
	}
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, buf.Bytes(), 0o644))
}

func TestFPDFConverter_OnePagePerImage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeImage(t, fsys, "/scans/p1.png", 40, 60)
	writeImage(t, fsys, "/scans/p2.JPG", 60, 40)
	writeImage(t, fsys, "/scans/p3.jpeg", 20, 20)

	data, err := NewFPDFConverter(fsys, 0).Convert([]string{"/scans/p1.png", "/scans/p2.JPG", "/scans/p3.jpeg"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	pages, err := PageCount(data)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
}

func TestFPDFConverter_Errors(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/scans", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/scans/notes.gif", []byte("GIF89a"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/scans/broken.png", []byte("not a png"), 0o644))
	conv := NewFPDFConverter(fsys, 300)

	_, err := conv.Convert(nil)
	require.ErrorIs(t, err, ErrNoImages)

	_, err = conv.Convert([]string{"/scans/notes.gif"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")

	_, err = conv.Convert([]string{"/scans/missing.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening image")

	_, err = conv.Convert([]string{"/scans/broken.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading image /scans/broken.png")
}

// pageSize reads the MediaBox of page n, falling back to the page tree's.
func pageSize(t *testing.T, data []byte, n int) (w, h float64) {
	t.Helper()
	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	page := doc.Page(n)
	box := page.V.Key("MediaBox")
	if box.IsNull() {
		box = page.V.Key("Parent").Key("MediaBox")
	}
	require.Equal(t, 4, box.Len())
	return box.Index(2).Float64() - box.Index(0).Float64(), box.Index(3).Float64() - box.Index(1).Float64()
}

func TestFPDFConverter_DPIAppliesToEveryImage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeImage(t, fsys, "/scans/p.png", 144, 288)
	writeImage(t, fsys, "/scans/q.jpg", 144, 72)

	tests := []struct {
		dpi    float64
		pw, ph float64
		qw, qh float64
	}{
		{72, 144, 288, 144, 72},
		{144, 72, 144, 72, 36},
		{288, 36, 72, 36, 18},
	}
	for _, tt := range tests {
		data, err := NewFPDFConverter(fsys, tt.dpi).Convert([]string{"/scans/p.png", "/scans/q.jpg"})
		require.NoError(t, err)

		w, h := pageSize(t, data, 1)
		assert.InDelta(t, tt.pw, w, 0.01, "dpi %v", tt.dpi)
		assert.InDelta(t, tt.ph, h, 0.01, "dpi %v", tt.dpi)
		w, h = pageSize(t, data, 2)
		assert.InDelta(t, tt.qw, w, 0.01, "dpi %v", tt.dpi)
		assert.InDelta(t, tt.qh, h, 0.01, "dpi %v", tt.dpi)
	}
}

func TestNewFPDFConverter_DefaultDPI(t *testing.T) {
	assert.Equal(t, float64(types.DefaultDPI), NewFPDFConverter(afero.NewMemMapFs(), -1).dpi)
	assert.Equal(t, 300.0, NewFPDFConverter(afero.NewMemMapFs(), 300).dpi)
}

func TestPageCount_Garbage(t *testing.T) {
	_, err := PageCount([]byte("definitely not a pdf"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	c, err := New(types.BackendFPDF, afero.NewMemMapFs(), 0)
	require.NoError(t, err)
	assert.IsType(t, &FPDFConverter{}, c)

	c, err = New("", afero.NewMemMapFs(), 0)
	require.NoError(t, err)
	assert.IsType(t, &FPDFConverter{}, c)

	_, err = New("ghostscript", afero.NewMemMapFs(), 0)
	require.ErrorIs(t, err, ErrUnknownBackend)
}

// fakeRunner stands in for the local img2pdf binary.
type fakeRunner struct {
	onPath bool
	out    []byte
	err    error
	gotCmd string
	gotArg []string
}

func (f *fakeRunner) LookPath(file string) (string, error) {
	if f.onPath {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found")
}

func (f *fakeRunner) Output(name string, args ...string) ([]byte, error) {
	f.gotCmd, f.gotArg = name, args
	return f.out, f.err
}

// fakeRuntime stands in for a container runtime with the img2pdf image.
type fakeRuntime struct {
	imageErr  error
	gotMounts []container.Mount
	gotArgs   []string
}

func (f *fakeRuntime) Name() string    { return "docker" }
func (f *fakeRuntime) Available() bool { return true }
func (f *fakeRuntime) ImageExists(string) error {
	return f.imageErr
}

func (f *fakeRuntime) Run(_ string, mounts []container.Mount, args []string, stdout io.Writer) error {
	f.gotMounts, f.gotArgs = mounts, args
	_, err := io.WriteString(stdout, "%PDF-1.3 from container")
	return err
}

func noRuntime() (container.Runtime, error) { return nil, errors.New("no container runtime available") }

func TestImg2pdf_LocalBinary(t *testing.T) {
	r := &fakeRunner{onPath: true, out: []byte("%PDF-1.3")}
	conv, err := newImg2pdfConverter(r, noRuntime)
	require.NoError(t, err)

	data, err := conv.Convert([]string{"ch01/a.jpg", "ch01/b.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
	assert.Equal(t, "img2pdf", r.gotCmd)
	assert.Equal(t, []string{"ch01/a.jpg", "ch01/b.jpg"}, r.gotArg)

	_, err = conv.Convert(nil)
	require.ErrorIs(t, err, ErrNoImages)
}

func TestImg2pdf_EmptyOutputAndFailure(t *testing.T) {
	conv, err := newImg2pdfConverter(&fakeRunner{onPath: true}, noRuntime)
	require.NoError(t, err)
	_, err = conv.Convert([]string{"a.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty output")

	conv, err = newImg2pdfConverter(&fakeRunner{onPath: true, err: errors.New("exit status 2")}, noRuntime)
	require.NoError(t, err)
	_, err = conv.Convert([]string{"a.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 2")
}

func TestImg2pdf_ContainerFallback(t *testing.T) {
	rt := &fakeRuntime{}
	conv, err := newImg2pdfConverter(&fakeRunner{}, func() (container.Runtime, error) { return rt, nil })
	require.NoError(t, err)

	data, err := conv.Convert([]string{"/scans/ch02/b.png", "/scans/ch01/a.png", "/scans/ch01/c.png"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 from container", string(data))
	assert.Equal(t, []string{"/scans/ch02/b.png", "/scans/ch01/a.png", "/scans/ch01/c.png"}, rt.gotArgs)
	assert.Equal(t, []container.Mount{
		{Source: "/scans/ch01", Target: "/scans/ch01", ReadOnly: true},
		{Source: "/scans/ch02", Target: "/scans/ch02", ReadOnly: true},
	}, rt.gotMounts)
}

func TestImg2pdf_Unavailable(t *testing.T) {
	_, err := newImg2pdfConverter(&fakeRunner{}, noRuntime)
	require.ErrorIs(t, err, ErrBackendUnavailable)

	rt := &fakeRuntime{imageErr: errors.New("image img2pdf:latest not found in docker")}
	_, err = newImg2pdfConverter(&fakeRunner{}, func() (container.Runtime, error) { return rt, nil })
	require.ErrorIs(t, err, ErrBackendUnavailable)
}
