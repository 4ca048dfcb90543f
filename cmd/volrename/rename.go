// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookbinder/internal/logger"
	"github.com/pdiddy/bookbinder/internal/rename"
	"github.com/pdiddy/bookbinder/internal/report"
	"github.com/pdiddy/bookbinder/pkg/types"
)

func runRename(cmd *cobra.Command, args []string) error {
	cfg := types.RenameConfig{
		FolderPath: args[0],
		NewName:    args[1],
		DryRun:     viper.GetBool("rename.dry_run"),
		ReportPath: viper.GetString("rename.report"),
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

	return execute(afero.NewOsFs(), cfg, cmd.OutOrStdout(), log)
}

// execute runs the renamer, prints the summary, and writes the optional
// report. It returns errFilesFailed when per-file errors were recorded.
func execute(fsys afero.Fs, cfg types.RenameConfig, w io.Writer, log *slog.Logger) error {
	rep := report.New("volrename", map[string]string{
		"folder_path": cfg.FolderPath,
		"new_name":    cfg.NewName,
		"dry_run":     fmt.Sprint(cfg.DryRun),
	})

	result, err := rename.Run(fsys, cfg, w, log)
	if err != nil {
		return err
	}
	rename.PrintSummary(w, result)

	if cfg.ReportPath != "" {
		rep.Finish(result.Entries, result.Errors, nil)
		if err := report.Write(fsys, rep, cfg.ReportPath); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if result.HasErrors() {
		return errFilesFailed
	}
	return nil
}
