// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookbinder/internal/bundle"
	"github.com/pdiddy/bookbinder/internal/convert"
	"github.com/pdiddy/bookbinder/internal/logger"
	"github.com/pdiddy/bookbinder/internal/report"
	"github.com/pdiddy/bookbinder/pkg/types"
)

func runBundle(cmd *cobra.Command, args []string) error {
	cfg := types.BundleConfig{
		InputPath:  args[0],
		OutputPath: viper.GetString("bundle.output_path"),
		PDFName:    viper.GetString("bundle.pdf_name"),
		Backend:    types.ConversionBackend(viper.GetString("bundle.backend")),
		DPI:        viper.GetFloat64("bundle.dpi"),
		Progress:   viper.GetBool("bundle.progress"),
		ReportPath: viper.GetString("bundle.report"),
	}
	logCfg := types.LogConfig{
		File:    viper.GetString("log.file"),
		Verbose: viper.GetBool("log.verbose"),
	}

	log, closeLog, err := logger.Setup(logCfg)
	if err != nil {
		return err
	}
	defer closeLog()

	fsys := afero.NewOsFs()
	conv, err := convert.New(cfg.Backend, fsys, cfg.DPI)
	if err != nil {
		return err
	}

	var progress io.Writer
	if cfg.Progress {
		progress = os.Stderr
	}
	return execute(fsys, conv, cfg, progress, log)
}

// execute runs the bundler and writes the optional report. The report is
// written even when the run aborts, recording the groups finished before the
// failure.
func execute(fsys afero.Fs, conv convert.Converter, cfg types.BundleConfig, progress io.Writer, log *slog.Logger) error {
	rep := report.New("imgbundle", map[string]string{
		"input_path":  cfg.InputPath,
		"output_path": cfg.OutputPath,
		"pdf_name":    cfg.PDFName,
		"backend":     string(cfg.Backend),
	})

	result, runErr := bundle.Run(fsys, conv, cfg, progress, log)

	if cfg.ReportPath != "" {
		var errs []string
		if runErr != nil {
			errs = []string{runErr.Error()}
		}
		rep.Finish(result.Outputs, errs, runErr)
		if err := report.Write(fsys, rep, cfg.ReportPath); err != nil {
			return errors.Join(runErr, fmt.Errorf("writing report: %w", err))
		}
	}
	return runErr
}
