// SPDX-License-Identifier: MPL-2.0

package cmdchain

// Handle digit assignments. Every handle is addressable on the command line by
// its single decimal digit (e.g. `2>err.log`, `3>&1`).
const (
	// HandleInput is the process input slot (digit 0).
	HandleInput Handle = iota
	// HandleStdOut is the standard output slot (digit 1).
	HandleStdOut
	// HandleStdErr is the standard error slot (digit 2).
	HandleStdErr
	// HandleWarning is the warning stream slot (digit 3).
	HandleWarning
	// HandleVerbose is the verbose stream slot (digit 4).
	HandleVerbose
	// HandleDebug is the debug stream slot (digit 5).
	HandleDebug
	// HandleInfo is the info stream slot (digit 6).
	HandleInfo
	// HandleAux7, HandleAux8 and HandleAux9 are reserved numbered slots.
	HandleAux7
	HandleAux8
	HandleAux9

	// HandleCount is the size of a step's redirection table.
	HandleCount = int(HandleAux9) + 1
)

// Chain continuation operators, in the order they bind a step to its successor.
const (
	// ChainTerminate ends the chain after the step.
	ChainTerminate Continuation = iota
	// ChainPipe (`|`) feeds the step's output to the next step. Parsed but not
	// supported at execution time.
	ChainPipe
	// ChainAlways (`&`) runs the next step unconditionally.
	ChainAlways
	// ChainIfPass (`&&`) keeps running steps while the exit code is non-zero
	// and stops once a step succeeds.
	ChainIfPass
	// ChainIfFail (`||`) keeps running steps while the exit code is zero and
	// stops once a step fails.
	ChainIfFail
)

// Redirection target kinds.
const (
	// TargetNotSet means the handle is not redirected.
	TargetNotSet TargetKind = iota
	// TargetFile redirects the handle to a file path; an empty path discards
	// the stream.
	TargetFile
	// TargetHandle duplicates another handle.
	TargetHandle
)

type (
	// Handle identifies a redirection source slot. Handles map one-to-one to
	// the decimal digits 0-9.
	Handle int

	// Continuation is the operator joining a step to the one after it.
	Continuation int

	// TargetKind discriminates what a Redirection points at.
	TargetKind int

	// Redirection describes where one handle of a step is routed.
	Redirection struct {
		// Kind selects between no redirection, a file target, and a
		// duplicated handle.
		Kind TargetKind
		// Path is the file target. Empty with Kind == TargetFile means
		// discard. May contain variable markers.
		Path string
		// Dup is the handle being duplicated when Kind == TargetHandle.
		Dup Handle
		// Append opens the file target in append mode.
		Append bool
	}

	// Step is one executable element of a chain: a program path, its
	// pre-quoted argument string, the redirection table, and the operator
	// binding it to the next step.
	Step struct {
		// Path is the executable path. May contain variable markers.
		Path string
		// Args is the argument string with quoting already applied.
		Args string
		// Continuation tells whether and when the next step runs.
		Continuation Continuation
		// Redirections is indexed by source handle digit.
		Redirections [HandleCount]Redirection
	}

	// Chain is an ordered sequence of steps. The zero value (no steps) is
	// valid and means "no command configured".
	Chain struct {
		Steps []Step
	}
)

// IsValid reports whether h is one of the ten addressable handles.
func (h Handle) IsValid() bool {
	return h >= HandleInput && int(h) < HandleCount
}

// Digit returns the decimal digit addressing this handle.
func (h Handle) Digit() byte {
	return byte('0' + int(h))
}

// String returns the handle's name for diagnostics.
func (h Handle) String() string {
	switch h {
	case HandleInput:
		return "input"
	case HandleStdOut:
		return "stdout"
	case HandleStdErr:
		return "stderr"
	case HandleWarning:
		return "warning"
	case HandleVerbose:
		return "verbose"
	case HandleDebug:
		return "debug"
	case HandleInfo:
		return "info"
	}
	if h.IsValid() {
		return "handle" + string(h.Digit())
	}
	return "invalid"
}

// Operator returns the command-line spelling of the continuation, or the
// empty string for ChainTerminate.
func (c Continuation) Operator() string {
	switch c {
	case ChainPipe:
		return "|"
	case ChainAlways:
		return "&"
	case ChainIfPass:
		return "&&"
	case ChainIfFail:
		return "||"
	}
	return ""
}

// IsSet reports whether the redirection routes its handle anywhere.
func (r Redirection) IsSet() bool {
	return r.Kind != TargetNotSet
}

// IsDiscard reports whether the redirection drops the stream.
func (r Redirection) IsDiscard() bool {
	return r.Kind == TargetFile && r.Path == ""
}

// Empty reports whether no command is configured.
func (c *Chain) Empty() bool {
	return c == nil || len(c.Steps) == 0
}
