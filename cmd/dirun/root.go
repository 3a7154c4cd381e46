// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI for dirun.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jdm3/dirun/internal/config"
	"github.com/jdm3/dirun/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Flags. Boolean flags track whether they were set explicitly so config
	// file values only apply when the flag is absent.
	flagDir     string
	flagFilter  string
	flagRecurse bool
	flagCollect bool
	flagWorkDir string
	flagRuntime string
	flagCommand string
	verbose     bool
	cfgFile     string

	// cfg is the loaded configuration, merged with flags in runRoot.
	cfg *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "dirun [flags] [-- command...]",
		Short: "Run a command against every matching file in a directory tree",
		Long: TitleStyle.Render("dirun") + SubtitleStyle.Render(" - run a command per file, concurrently") + `

dirun scans a directory tree for files matching a filter and launches a
command chain against each one in parallel, reporting per-file pass/fail.

The command supports redirection (` + "`>`, `>>`, `<`, `2>&1`" + `), four chain
operators (` + "`|`, `&`, `&&`, `||`" + `), and per-file variables such as
%DIRUN_FPATH% and %DIRUN_FNAME% (see below). Escape a control character
with ^ to pass it through literally.

` + SubtitleStyle.Render("Variables:") + `
  %DIRUN_FNAME%      file name without extension
  %DIRUN_FEXT%       extension without the leading dot
  %DIRUN_FPATH%      absolute file path
  %DIRUN_DPATH%      absolute containing directory
  %DIRUN_FPATH_REL%  file path relative to the search root
  %DIRUN_DPATH_REL%  directory relative to the search root

` + SubtitleStyle.Render("Examples:") + `
  dirun -r -f "*.go" -- gofmt -l %DIRUN_FPATH%
  dirun -f "*.csv" -x "convert %DIRUN_FPATH% > %DIRUN_FNAME%.json"
  dirun -r -f "*.txt" -o -- grep -c TODO %DIRUN_FPATH_REL%`,
		Args: cobra.ArbitraryArgs,
		RunE: runRoot,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.Flags().StringVarP(&flagDir, "dir", "d", ".", "directory to scan")
	rootCmd.Flags().StringVarP(&flagFilter, "filter", "f", "", "file name filter pattern (default \"*\")")
	rootCmd.Flags().BoolVarP(&flagRecurse, "recurse", "r", false, "descend into subdirectories")
	rootCmd.Flags().BoolVarP(&flagCollect, "collect", "o", false, "capture and print per-file output")
	rootCmd.Flags().StringVarP(&flagWorkDir, "workdir", "w", "", "working directory for commands (may contain variables)")
	rootCmd.Flags().StringVar(&flagRuntime, "runtime", "", "execution runtime: native or virtual")
	rootCmd.Flags().StringVarP(&flagCommand, "command", "x", "", "command chain as a single string (alternative to -- tokens)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/dirun/config.toml)")
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling. The interrupt signal only
	// cancels the context, which gates starting new directory scans; running
	// processes are never terminated.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file if present.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		if card, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("auto"); renderErr == nil {
			fmt.Fprint(os.Stderr, card)
		}
	}

	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their Format method; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
