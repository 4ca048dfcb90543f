// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert encodes ordered lists of image files into PDF documents.
// Backends (the pure-Go fpdf encoder, the external img2pdf tool) implement
// the Converter interface; callers own file discovery, ordering, and where
// the returned bytes are written.
package convert

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/pdiddy/bookbinder/pkg/types"
)

var (
	// ErrNoImages is returned when Convert is called with an empty list.
	ErrNoImages = errors.New("no images to convert")
	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown conversion backend")
	// ErrBackendUnavailable is returned when a backend's tooling is missing.
	ErrBackendUnavailable = errors.New("conversion backend unavailable")
)

// Converter turns image files into a single PDF, one page per image, in the
// order given.
type Converter interface {
	// Convert reads the images at paths and returns the PDF bytes.
	Convert(paths []string) ([]byte, error)
}

// New returns the converter for the named backend. The fpdf backend reads
// images through fsys; img2pdf always reads the host filesystem.
func New(backend types.ConversionBackend, fsys afero.Fs, dpi float64) (Converter, error) {
	switch backend {
	case types.BackendFPDF, "":
		return NewFPDFConverter(fsys, dpi), nil
	case types.BackendImg2pdf:
		return NewImg2pdfConverter()
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)",
			ErrUnknownBackend, backend, types.BackendFPDF, types.BackendImg2pdf)
	}
}
