// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jdm3/dirun/internal/cmdchain"
	"github.com/jdm3/dirun/internal/config"
	"github.com/jdm3/dirun/internal/issue"
	"github.com/jdm3/dirun/internal/runtime"
	"github.com/jdm3/dirun/internal/scan"
	"github.com/jdm3/dirun/internal/subst"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// runRoot wires the parsed chain, the traversal engine, and the execution
// coordinator together, then blocks on the completion gate until every
// dispatched per-file execution has finished.
func runRoot(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		cfg = config.Default()
	}

	chain, err := parseChain(cmd, args)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(flagDir)
	if err != nil {
		return issue.WrapWithContext(err, "resolve scan directory", flagDir)
	}

	pattern := cfg.Filter
	if flagFilter != "" {
		pattern = flagFilter
	}

	mode := cfg.Runtime
	if flagRuntime != "" {
		mode = config.RuntimeMode(flagRuntime)
	}
	if !mode.IsValid() {
		return &config.InvalidRuntimeModeError{Value: mode}
	}

	workDir := cfg.WorkDir
	if flagWorkDir != "" {
		workDir = flagWorkDir
	}
	// A working directory without variable markers can be validated right
	// away; one with markers resolves per file and is checked at launch.
	if workDir != "" && !subst.ContainsMarker(workDir) {
		if _, err := os.Stat(workDir); err != nil {
			return issue.WrapWithContext(err, "open working directory", workDir)
		}
	}

	collect := cfg.Collect || flagCollect
	recurse := cfg.Recurse || flagRecurse

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	rep := newReporter(os.Stdout, collect)
	comp := scan.NewCompletion()

	engine := &scan.Engine{
		Lister: scan.OSLister{},
		Log:    logger,
	}
	if !chain.Empty() {
		logger.Debug("parsed command chain", "chain", chain.String(), "runtime", mode)
		engine.Exec = &runtime.Coordinator{
			Chain:       chain,
			Spawner:     spawnerFor(mode),
			Root:        root,
			WorkDir:     workDir,
			Collect:     collect,
			OnCompleted: rep.FileCompleted,
			Tracker:     comp,
		}
	}

	node, err := engine.Walk(cmd.Context(), scan.Options{
		Root:    root,
		Pattern: pattern,
		Recurse: recurse,
	}, comp)
	if err != nil {
		return fatalScanError(err, pattern, root)
	}

	comp.Wait()

	if chain.Empty() {
		rep.Listing(node)
		return nil
	}

	rep.Summary(node.FileCount())
	if hasPipe(chain) {
		renderIssueCard(issue.PipeNotImplementedId)
	}
	if rep.FailedCount() > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// parseChain builds the command chain from --command or from the tokens
// after --. Both at once is an error.
func parseChain(cmd *cobra.Command, args []string) (*cmdchain.Chain, error) {
	dash := cmd.ArgsLenAtDash()
	tokens := args
	if dash >= 0 {
		tokens = args[dash:]
	}

	if flagCommand != "" {
		if len(tokens) > 0 {
			return nil, fmt.Errorf("pass the command either via --command or after --, not both")
		}
		return cmdchain.ParseString(flagCommand), nil
	}
	return cmdchain.Parse(tokens, 0, len(tokens)), nil
}

func spawnerFor(mode config.RuntimeMode) runtime.Spawner {
	if mode == config.RuntimeVirtual {
		return runtime.VirtualSpawner{}
	}
	return runtime.NativeSpawner{}
}

// fatalScanError dresses a traversal-aborting error for display. Only the
// invalid filter pattern is expected here; denied directories are handled
// inside the engine.
func fatalScanError(err error, pattern, root string) error {
	if errors.Is(err, scan.ErrInvalidPattern) {
		renderIssueCard(issue.InvalidFilterPatternId)
		return issue.WrapWithContext(err, "scan directory tree", root).
			WithSuggestions(fmt.Sprintf("Check the filter pattern %q", pattern))
	}
	return issue.WrapWithContext(err, "scan directory tree", root)
}

func renderIssueCard(id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	if card, err := entry.Render("auto"); err == nil {
		fmt.Fprint(os.Stderr, card)
	}
}

func hasPipe(chain *cmdchain.Chain) bool {
	for i := range chain.Steps {
		if chain.Steps[i].Continuation == cmdchain.ChainPipe {
			return true
		}
	}
	return false
}
