// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for volrename, which gives the files of a
// directory sequential volume numbers.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// errFilesFailed marks a run that finished but recorded per-file errors.
// Those errors are already listed in the summary, so main prints nothing more.
var errFilesFailed = errors.New("one or more files could not be renamed")

// rootCmd is the volrename command.
var rootCmd = &cobra.Command{
	Use:   "volrename <folder_path> <new_name>",
	Short: "Rename the files of a directory to \"<new_name> volNN\"",
	Long: `volrename renames every file directly inside folder_path to
"<new_name> vol<NN><suffix>". NN is the first two-digit run found anywhere in
the file's path (parent directories included); files without one are numbered
01, 02, ... in sorted path order. Subdirectories are left alone.

Per-file failures are collected and listed in the summary; the exit status is
1 when any occurred.

Settings may also come from a YAML config file (--config, ./bookbinder.yaml
or ~/.config/bookbinder/config.yaml) and from the environment. Flags win over
both. Recognized variables:

  BOOKBINDER_RENAME_DRY_RUN   same as --dry-run
  BOOKBINDER_RENAME_REPORT    same as --report
  BOOKBINDER_LOG_FILE         same as --log-file
  BOOKBINDER_LOG_VERBOSE      same as --verbose`,
	Args:          cobra.ExactArgs(2),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRename,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookbinder.yaml or ~/.config/bookbinder/config.yaml)")

	rootCmd.Flags().Bool("dry-run", false, "show what would be renamed without renaming")
	rootCmd.Flags().String("report", "", "write a YAML report of the run to this file")
	rootCmd.Flags().String("log-file", "", "write JSON diagnostic logs to this file")
	rootCmd.Flags().Bool("verbose", false, "log at debug level")

	viper.BindPFlag("rename.dry_run", rootCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("rename.report", rootCmd.Flags().Lookup("report"))
	viper.BindPFlag("log.file", rootCmd.Flags().Lookup("log-file"))
	viper.BindPFlag("log.verbose", rootCmd.Flags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookbinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookbinder"))
		}
	}

	viper.SetEnvPrefix("BOOKBINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFilesFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
