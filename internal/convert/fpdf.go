// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/spf13/afero"

	"github.com/pdiddy/bookbinder/pkg/types"
)

const creator = "bookbinder"

// FPDFConverter encodes images with the pure-Go fpdf library. Every image
// becomes one page exactly the size of the image at the configured DPI; the
// configured DPI replaces whatever resolution the image file records.
type FPDFConverter struct {
	fs  afero.Fs
	dpi float64
}

// NewFPDFConverter returns a converter reading images from fsys. A
// non-positive dpi falls back to types.DefaultDPI.
func NewFPDFConverter(fsys afero.Fs, dpi float64) *FPDFConverter {
	if dpi <= 0 {
		dpi = types.DefaultDPI
	}
	return &FPDFConverter{fs: fsys, dpi: dpi}
}

// Convert implements Converter.
func (c *FPDFConverter) Convert(paths []string) ([]byte, error) {
	if len(paths) == 0 {
		return nil, ErrNoImages
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(creator, false)

	for _, p := range paths {
		if err := c.addPage(pdf, p); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("encoding PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *FPDFConverter) addPage(pdf *fpdf.Fpdf, path string) error {
	imgType, err := imageType(path)
	if err != nil {
		return err
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	opts := fpdf.ImageOptions{ImageType: imgType}
	info := pdf.RegisterImageOptionsReader(path, opts, f)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("reading image %s: %w", path, err)
	}
	// Overrides any resolution fpdf read from the image.
	info.SetDpi(c.dpi)

	w, h := info.Width(), info.Height()
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	pdf.ImageOptions(path, 0, 0, w, h, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("placing image %s: %w", path, err)
	}
	return nil
}

// imageType maps a file extension to the fpdf image type name.
func imageType(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "jpg", "jpeg":
		return "jpg", nil
	case "png":
		return "png", nil
	default:
		return "", fmt.Errorf("unsupported image type %q for %s", ext, path)
	}
}
