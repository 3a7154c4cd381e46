// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	// InvalidFilterPatternId covers a file filter pattern that cannot be
	// compiled. Fatal to the whole run.
	InvalidFilterPatternId Id = iota + 1
	// PipeNotImplementedId covers a chain containing the pipe operator,
	// which is parsed but has no execution support.
	PipeNotImplementedId
	// ConfigLoadFailedId covers a config file that exists but cannot be read
	// or decoded.
	ConfigLoadFailedId
)

// MarkdownMsg is markdown text rendered for the terminal.
type MarkdownMsg string

// HttpLink points at external documentation for an issue.
type HttpLink string

// Issue is one catalog entry: a rendered help card shown alongside a fatal
// error.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	extLinks []HttpLink
}

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw markdown text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// ExtLinks returns external links that may help the user.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue's help card rendered for the terminal.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	invalidFilterPatternIssue = &Issue{
		id: InvalidFilterPatternId,
		mdMsg: `
# Invalid file filter pattern!

The filter passed via --filter (or configured as the default) is not a valid
file name pattern, so no directory can be scanned.

## Pattern syntax:
- ` + "`*`" + ` matches any run of characters except the path separator
- ` + "`?`" + ` matches any single character
- ` + "`[a-z]`" + ` matches a character range

## Things you can try:
- Quote the pattern so your shell does not expand it:
~~~
$ dirun -r -f "*.txt" -- cat %DIRUN_FPATH%
~~~
- Check for an unclosed character class like ` + "`[abc`" + ``,
	}

	pipeNotImplementedIssue = &Issue{
		id: PipeNotImplementedId,
		mdMsg: `
# Pipe chaining is not implemented!

The command chain contains the ` + "`|`" + ` operator. dirun parses it but
cannot connect one step's output to the next step's input yet, so every file
the chain ran against was aborted with exit code -1.

## Things you can try:
- Chain the steps with ` + "`&`" + ` and an intermediate redirect file:
~~~
$ dirun -f "*.log" -- grep ERROR %DIRUN_FPATH% ^> tmp.out ^& sort tmp.out
~~~
- Wrap the pipeline in a shell script and run that script per file`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file exists but could not be read or decoded, so defaults were
used instead.

## Things you can try:
- Check the TOML syntax of the file
- Point at a different file explicitly:
~~~
$ dirun --config /path/to/config.toml ...
~~~
- Remove the file to fall back to defaults`,
	}

	issues = map[Id]*Issue{
		invalidFilterPatternIssue.Id(): invalidFilterPatternIssue,
		pipeNotImplementedIssue.Id():   pipeNotImplementedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

// Values returns every catalog entry.
func Values() []*Issue {
	return maps.Values(issues)
}

// Get returns the catalog entry for id, or nil if none exists.
func Get(id Id) *Issue {
	return issues[id]
}
