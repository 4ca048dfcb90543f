// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the configuration shared by the volrename and
// imgbundle commands.
package types

// LogConfig holds diagnostic logging settings shared by both tools.
type LogConfig struct {
	// File is the path of a JSON-lines log file. Empty disables logging.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Verbose lowers the log level to debug and records source locations.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// RenameConfig holds settings for the volume renamer.
type RenameConfig struct {
	// FolderPath is the directory whose direct child files are renamed.
	FolderPath string `json:"folder_path" yaml:"folder_path"`

	// NewName is the base name placed before " vol<NN>".
	NewName string `json:"new_name" yaml:"new_name"`

	// DryRun reports planned renames without touching the filesystem.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// ReportPath, when set, receives a YAML report of the run.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`
}

// OutputSameAsInput is the output path sentinel that makes the bundler write
// PDFs into the input directory.
const OutputSameAsInput = "default"

// DefaultPDFName is the base name used for output PDFs when none is given.
const DefaultPDFName = "name"

// ConversionBackend identifies the image-to-PDF encoder.
type ConversionBackend string

const (
	BackendFPDF    ConversionBackend = "fpdf"
	BackendImg2pdf ConversionBackend = "img2pdf"
)

// DefaultDPI is the resolution the fpdf backend applies to every image when
// none is configured. Resolution metadata inside the image is ignored.
const DefaultDPI = 96

// BundleConfig holds settings for the image-to-PDF bundler.
type BundleConfig struct {
	// InputPath is the directory holding images or image subdirectories.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the directory for generated PDFs, or OutputSameAsInput.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// PDFName is the base file name of the generated PDFs.
	PDFName string `json:"pdf_name" yaml:"pdf_name"`

	// Backend selects the conversion tool: fpdf or img2pdf.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// DPI sizes every page from its image's pixel dimensions (fpdf backend),
	// overriding any resolution recorded in the image.
	DPI float64 `json:"dpi" yaml:"dpi"`

	// Progress shows a progress bar over image groups.
	Progress bool `json:"progress" yaml:"progress"`

	// ReportPath, when set, receives a YAML report of the run.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`
}
