// SPDX-License-Identifier: MPL-2.0

package cmdchain

import "strings"

// discardToken is the literal a discard target renders as. Parsing maps it
// back to a discard regardless of case.
const discardToken = "NUL"

// String renders the chain back to a single command line. The result is
// semantically re-parseable, though not necessarily byte-identical to the
// original input.
func (c *Chain) String() string {
	if c.Empty() {
		return ""
	}
	var b strings.Builder
	for i := range c.Steps {
		if i > 0 {
			b.WriteByte(' ')
		}
		c.Steps[i].render(&b)
		if op := c.Steps[i].Continuation.Operator(); op != "" {
			b.WriteByte(' ')
			b.WriteString(op)
		}
	}
	return b.String()
}

// render writes one step: quoted path, argument string, then every set
// redirection in fixed handle order. Control characters are re-escaped so
// the parser reads them back as literal text, not operators.
func (s *Step) render(b *strings.Builder) {
	b.WriteString(quoteArg(escapeControls(s.Path)))
	if s.Args != "" {
		b.WriteByte(' ')
		b.WriteString(escapeControls(s.Args))
	}

	for h := 0; h < HandleCount; h++ {
		r := s.Redirections[h]
		if !r.IsSet() {
			continue
		}
		b.WriteByte(' ')
		renderRedirection(b, Handle(h), r)
	}
}

func renderRedirection(b *strings.Builder, src Handle, r Redirection) {
	if src == HandleInput {
		b.WriteByte('<')
		if r.Kind == TargetHandle {
			b.WriteByte('&')
			b.WriteByte(r.Dup.Digit())
			return
		}
		b.WriteByte(' ')
		b.WriteString(renderTarget(r))
		return
	}

	if src != HandleStdOut {
		b.WriteByte(src.Digit())
	}
	b.WriteByte('>')
	if r.Append {
		b.WriteByte('>')
	}

	if r.Kind == TargetHandle {
		b.WriteByte('&')
		b.WriteByte(r.Dup.Digit())
		return
	}
	b.WriteByte(' ')
	b.WriteString(renderTarget(r))
}

func renderTarget(r Redirection) string {
	if r.IsDiscard() {
		return discardToken
	}
	path := escapeControls(r.Path)
	if needsQuoting(r.Path) {
		return quoteArg(path)
	}
	return path
}

// escapeControls prefixes every chain control character with the escape
// character. Quoting cannot protect them: the parser scans for operators
// after quote stripping.
func escapeControls(w string) string {
	if !strings.ContainsAny(w, "><|&") {
		return w
	}
	var b strings.Builder
	for i := 0; i < len(w); i++ {
		if isControl(w[i]) {
			b.WriteByte(escapeChar)
		}
		b.WriteByte(w[i])
	}
	return b.String()
}
