// SPDX-License-Identifier: MPL-2.0

package cmdchain

import (
	"strings"

	"github.com/jdm3/dirun/internal/subst"
)

// escapeChar makes the following control character literal text.
const escapeChar = '^'

// Parse parses the token range tokens[begin:end) into a Chain. Parsing never
// fails; malformed operator sequences degrade to literal text, and an empty
// range yields an empty chain.
func Parse(tokens []string, begin, end int) *Chain {
	if begin < 0 {
		begin = 0
	}
	if end > len(tokens) {
		end = len(tokens)
	}

	p := &parser{chain: &Chain{}}
	for i := begin; i < end; i++ {
		p.scanToken(tokens[i])
	}
	p.finish()
	return p.chain
}

// ParseString splits line with quote-aware whitespace splitting and parses
// the resulting tokens.
func ParseString(line string) *Chain {
	tokens := SplitTokens(line)
	return Parse(tokens, 0, len(tokens))
}

// parser is the single left-to-right scan state: the step being assembled,
// the redirection waiting for its target, and the word accumulated since the
// last boundary.
type parser struct {
	chain *Chain

	step    *Step
	pathSet bool

	pending    Redirection
	pendingSrc Handle
	hasPending bool

	word          []byte
	wordFromStart bool
}

func (p *parser) scanToken(tok string) {
	p.wordFromStart = true

	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch c {
		case escapeChar:
			if i+1 < len(tok) && isControl(tok[i+1]) {
				p.word = append(p.word, tok[i+1])
				i++
			} else {
				p.word = append(p.word, c)
			}

		case '>':
			src := HandleStdOut
			if p.wordFromStart && len(p.word) == 1 && isDigit(p.word[0]) {
				src = Handle(p.word[0] - '0')
				p.word = p.word[:0]
			} else {
				p.flushWord()
			}
			app := false
			if i+1 < len(tok) && tok[i+1] == '>' {
				app = true
				i++
			}
			p.openRedirect(src, app)
			p.wordFromStart = false

		case '<':
			p.flushWord()
			p.openRedirect(HandleInput, false)
			p.wordFromStart = false

		case '|':
			p.flushWord()
			if i+1 < len(tok) && tok[i+1] == '|' {
				p.completeStep(ChainIfFail)
				i++
			} else {
				p.completeStep(ChainPipe)
			}
			p.wordFromStart = false

		case '&':
			if d, ok := p.dupTarget(tok, i); ok {
				p.completeDup(d)
				i++
			} else {
				p.flushWord()
				if i+1 < len(tok) && tok[i+1] == '&' {
					p.completeStep(ChainIfPass)
					i++
				} else {
					p.completeStep(ChainAlways)
				}
			}
			p.wordFromStart = false

		default:
			p.word = append(p.word, c)
		}
	}

	// A token boundary is whitespace, so it always ends the current word.
	p.flushWord()
}

// dupTarget reports whether the '&' at tok[i] introduces a handle
// duplication: a pending non-append redirection, an empty word, and a digit
// sitting at a word boundary right after the '&'.
func (p *parser) dupTarget(tok string, i int) (Handle, bool) {
	if !p.hasPending || p.pending.Append || len(p.word) != 0 {
		return 0, false
	}
	if i+1 >= len(tok) || !isDigit(tok[i+1]) {
		return 0, false
	}
	if i+2 < len(tok) && !isControl(tok[i+2]) {
		return 0, false
	}
	return Handle(tok[i+1] - '0'), true
}

// flushWord routes the accumulated word: pending redirection target first,
// then the step's executable path, then an argument.
func (p *parser) flushWord() {
	if len(p.word) == 0 {
		return
	}
	w := string(p.word)
	p.word = p.word[:0]

	p.ensureStep()

	switch {
	case p.hasPending:
		if !strings.EqualFold(w, "NUL") {
			p.pending.Path = w
		}
		p.closePending()
	case !p.pathSet:
		p.step.Path = w
		p.pathSet = true
	default:
		arg := w
		if needsQuoting(w) {
			arg = quoteArg(w)
		}
		if p.step.Args != "" {
			p.step.Args += " "
		}
		p.step.Args += arg
	}
}

// openRedirect begins a redirection on the given source handle. Any previous
// redirection still waiting for a target is completed as a discard.
func (p *parser) openRedirect(src Handle, app bool) {
	p.ensureStep()
	p.closePending()
	if !src.IsValid() {
		src = HandleStdOut
	}
	p.pending = Redirection{Kind: TargetFile, Append: app}
	p.pendingSrc = src
	p.hasPending = true
}

// completeDup resolves the pending redirection as a duplication of another
// handle.
func (p *parser) completeDup(dup Handle) {
	p.pending.Kind = TargetHandle
	p.pending.Path = ""
	p.pending.Dup = dup
	p.closePending()
}

// closePending stores the pending redirection into the step's table.
func (p *parser) closePending() {
	if !p.hasPending {
		return
	}
	p.step.Redirections[p.pendingSrc] = p.pending
	p.pending = Redirection{}
	p.hasPending = false
}

// completeStep seals the open step with the given continuation and appends it
// to the chain. Operators with no open step are dropped.
func (p *parser) completeStep(cont Continuation) {
	if p.step == nil {
		return
	}
	p.closePending()
	p.step.Continuation = cont
	p.chain.Steps = append(p.chain.Steps, *p.step)
	p.step = nil
	p.pathSet = false
}

func (p *parser) finish() {
	p.flushWord()
	p.completeStep(ChainTerminate)
}

func (p *parser) ensureStep() {
	if p.step == nil {
		p.step = &Step{}
		p.pathSet = false
	}
}

func isControl(c byte) bool {
	return c == '>' || c == '<' || c == '|' || c == '&'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// needsQuoting reports whether an argument must be re-quoted when stored in a
// step's argument string.
func needsQuoting(w string) bool {
	return strings.ContainsAny(w, " \t\"") || subst.ContainsMarker(w)
}

// quoteArg wraps w in double quotes, doubling any quote it contains.
func quoteArg(w string) string {
	return `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
}
