// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for imgbundle, which turns the images of a
// directory, or of each of its subdirectories, into PDFs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookbinder/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the imgbundle command.
var rootCmd = &cobra.Command{
	Use:   "imgbundle <input_path>",
	Short: "Bundle directory images into PDFs",
	Long: `imgbundle converts the JPEG and PNG images in input_path into PDFs.

If input_path has no subdirectories its images become a single
"<pdf_name>.pdf". Otherwise each subdirectory becomes "<pdf_name>_<NN>.pdf",
NN being the first two-digit run in the subdirectory's path; a subdirectory
with images but no such run stops the run with an error. Images inside a
subdirectory are ordered by name.

Backends: fpdf (built in) or img2pdf (local binary, or the img2pdf:latest
image under docker or podman).

Settings may also come from a YAML config file (--config, ./bookbinder.yaml
or ~/.config/bookbinder/config.yaml) and from the environment. Flags win over
both. Recognized variables:

  BOOKBINDER_BUNDLE_OUTPUT_PATH   same as --output_path
  BOOKBINDER_BUNDLE_PDF_NAME      same as --pdf_name
  BOOKBINDER_BUNDLE_BACKEND       same as --backend
  BOOKBINDER_BUNDLE_DPI           same as --dpi
  BOOKBINDER_BUNDLE_PROGRESS      same as --progress
  BOOKBINDER_BUNDLE_REPORT        same as --report
  BOOKBINDER_LOG_FILE             same as --log-file
  BOOKBINDER_LOG_VERBOSE          same as --verbose`,
	Args:          cobra.ExactArgs(1),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runBundle,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookbinder.yaml or ~/.config/bookbinder/config.yaml)")

	rootCmd.Flags().StringP("output_path", "o", types.OutputSameAsInput, `output directory ("default" writes next to the images)`)
	rootCmd.Flags().StringP("pdf_name", "n", types.DefaultPDFName, "base name of the generated PDFs")
	rootCmd.Flags().String("backend", string(types.BackendFPDF), "conversion backend: fpdf or img2pdf")
	rootCmd.Flags().Float64("dpi", types.DefaultDPI, "resolution applied to every image to size its page (fpdf)")
	rootCmd.Flags().Bool("progress", false, "show a progress bar on stderr")
	rootCmd.Flags().String("report", "", "write a YAML report of the run to this file")
	rootCmd.Flags().String("log-file", "", "write JSON diagnostic logs to this file")
	rootCmd.Flags().Bool("verbose", false, "log at debug level")

	viper.BindPFlag("bundle.output_path", rootCmd.Flags().Lookup("output_path"))
	viper.BindPFlag("bundle.pdf_name", rootCmd.Flags().Lookup("pdf_name"))
	viper.BindPFlag("bundle.backend", rootCmd.Flags().Lookup("backend"))
	viper.BindPFlag("bundle.dpi", rootCmd.Flags().Lookup("dpi"))
	viper.BindPFlag("bundle.progress", rootCmd.Flags().Lookup("progress"))
	viper.BindPFlag("bundle.report", rootCmd.Flags().Lookup("report"))
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
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
