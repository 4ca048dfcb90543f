// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bookbinder/internal/report"
	"github.com/pdiddy/bookbinder/pkg/types"
)

func newDir(t *testing.T, names ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/books", 0o755))
	for _, n := range names {
		require.NoError(t, afero.WriteFile(fsys, "/books/"+n, []byte(n), 0o644))
	}
	return fsys
}

func TestExecute_SuccessPrintsSummary(t *testing.T) {
	fsys := newDir(t, "a.txt", "b.txt")
	var out bytes.Buffer

	err := execute(fsys, types.RenameConfig{FolderPath: "/books", NewName: "Book"}, &out, nil)
	require.NoError(t, err)

	assert.Equal(t, "Renamed: a.txt → Book vol01.txt\n"+
		"Renamed: b.txt → Book vol02.txt\n"+
		"\nSummary:\nFiles processed: 2\n", out.String())
}

func TestExecute_PerFileErrorsReturnSentinel(t *testing.T) {
	fsys := newDir(t, "a.txt", "Book vol01.txt")
	var out bytes.Buffer

	// "Book vol01.txt" carries the label 01 from its own name, and a.txt is
	// numbered 01 by the counter, so one of them collides.
	err := execute(fsys, types.RenameConfig{FolderPath: "/books", NewName: "Book", DryRun: true}, &out, nil)
	require.ErrorIs(t, err, errFilesFailed)
	assert.Contains(t, out.String(), "Errors encountered:")
	assert.Contains(t, out.String(), "- Cannot rename: Book vol01.txt already exists")
}

func TestExecute_MissingDirectory(t *testing.T) {
	var out bytes.Buffer
	err := execute(afero.NewMemMapFs(), types.RenameConfig{FolderPath: "/nope", NewName: "Book"}, &out, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errFilesFailed)
	assert.Contains(t, err.Error(), "directory not found")
	assert.Empty(t, out.String())
}

func TestExecute_WritesReport(t *testing.T) {
	fsys := newDir(t, "scan12.txt")
	var out bytes.Buffer

	cfg := types.RenameConfig{FolderPath: "/books", NewName: "Book", ReportPath: "/reports/rename.yaml"}
	require.NoError(t, execute(fsys, cfg, &out, nil))

	rep, err := report.Read(fsys, "/reports/rename.yaml")
	require.NoError(t, err)
	assert.Equal(t, "volrename", rep.Tool)
	assert.Equal(t, "Book", rep.Inputs["new_name"])
	entries, ok := rep.Entries.([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
	e := entries[0].(map[string]any)
	assert.Equal(t, "/books/Book vol12.txt", e["destination"])
	assert.Equal(t, "path", e["origin"])
}

func TestRootCmd_RequiresTwoArgs(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, []string{"/books"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"/books", "Book"}))
}

func TestRootCmd_HelpListsEnvironment(t *testing.T) {
	for _, key := range []string{"rename.dry_run", "rename.report", "log.file", "log.verbose"} {
		env := "BOOKBINDER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		assert.Contains(t, rootCmd.Long, env)
	}
	assert.Contains(t, rootCmd.Long, "bookbinder.yaml")
}
