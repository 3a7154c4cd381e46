// SPDX-License-Identifier: MPL-2.0

package cmdchain

import "testing"

func TestParseEscapedControlCharIsLiteral(t *testing.T) {
	chain := ParseString("foo.exe ^> res.out")

	if len(chain.Steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(chain.Steps))
	}
	step := chain.Steps[0]
	if step.Path != "foo.exe" {
		t.Errorf("Path = %q, want %q", step.Path, "foo.exe")
	}
	if step.Args != "> res.out" {
		t.Errorf("Args = %q, want %q", step.Args, "> res.out")
	}
	for h, r := range step.Redirections {
		if r.IsSet() {
			t.Errorf("handle %d unexpectedly redirected: %+v", h, r)
		}
	}
}

func TestParseStdOutRedirection(t *testing.T) {
	chain := ParseString("foo.exe > out.txt")

	if len(chain.Steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(chain.Steps))
	}
	r := chain.Steps[0].Redirections[HandleStdOut]
	if r.Kind != TargetFile || r.Path != "out.txt" || r.Append {
		t.Errorf("stdout redirection = %+v, want file out.txt without append", r)
	}
}

func TestParseAppendRedirection(t *testing.T) {
	chain := ParseString("foo.exe >> out.txt")

	r := chain.Steps[0].Redirections[HandleStdOut]
	if r.Kind != TargetFile || r.Path != "out.txt" || !r.Append {
		t.Errorf("stdout redirection = %+v, want file out.txt with append", r)
	}
}

func TestParseInputRedirection(t *testing.T) {
	chain := ParseString("foo.exe < in.txt")

	r := chain.Steps[0].Redirections[HandleInput]
	if r.Kind != TargetFile || r.Path != "in.txt" {
		t.Errorf("input redirection = %+v, want file in.txt", r)
	}
}

func TestParseNumberedHandleRedirection(t *testing.T) {
	chain := ParseString("foo.exe 3>log.txt")

	step := chain.Steps[0]
	r := step.Redirections[HandleWarning]
	if r.Kind != TargetFile || r.Path != "log.txt" {
		t.Errorf("handle 3 redirection = %+v, want file log.txt", r)
	}
	if step.Redirections[HandleStdOut].IsSet() {
		t.Error("stdout redirected, want only handle 3")
	}
}

func TestParseDigitInsideWordIsNotAHandle(t *testing.T) {
	chain := ParseString("foo.exe abc3>out.txt")

	step := chain.Steps[0]
	if step.Args != "abc3" {
		t.Errorf("Args = %q, want %q", step.Args, "abc3")
	}
	r := step.Redirections[HandleStdOut]
	if r.Kind != TargetFile || r.Path != "out.txt" {
		t.Errorf("stdout redirection = %+v, want file out.txt", r)
	}
}

func TestParseHandleDuplication(t *testing.T) {
	chain := ParseString("foo.exe > out.txt 2>&1")

	r := chain.Steps[0].Redirections[HandleStdErr]
	if r.Kind != TargetHandle || r.Dup != HandleStdOut {
		t.Errorf("stderr redirection = %+v, want duplication of stdout", r)
	}
}

func TestParseDiscardTarget(t *testing.T) {
	for _, target := range []string{"NUL", "nul", "Nul"} {
		chain := ParseString("foo.exe > " + target)
		r := chain.Steps[0].Redirections[HandleStdOut]
		if !r.IsDiscard() {
			t.Errorf("redirection to %q = %+v, want discard", target, r)
		}
	}
}

func TestParseChainOperators(t *testing.T) {
	tests := []struct {
		op   string
		want Continuation
	}{
		{"&&", ChainIfPass},
		{"||", ChainIfFail},
		{"&", ChainAlways},
		{"|", ChainPipe},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			chain := ParseString("a.exe " + tt.op + " b.exe")
			if len(chain.Steps) != 2 {
				t.Fatalf("got %d steps, want 2", len(chain.Steps))
			}
			if got := chain.Steps[0].Continuation; got != tt.want {
				t.Errorf("first continuation = %v, want %v", got, tt.want)
			}
			if got := chain.Steps[1].Continuation; got != ChainTerminate {
				t.Errorf("last continuation = %v, want ChainTerminate", got)
			}
			if chain.Steps[0].Path != "a.exe" || chain.Steps[1].Path != "b.exe" {
				t.Errorf("paths = %q, %q, want a.exe, b.exe",
					chain.Steps[0].Path, chain.Steps[1].Path)
			}
		})
	}
}

func TestParseQuotedArgumentIsRequoted(t *testing.T) {
	chain := ParseString(`foo.exe --arg="""has spaces"""`)

	step := chain.Steps[0]
	want := `"--arg=""has spaces"""`
	if step.Args != want {
		t.Errorf("Args = %q, want %q", step.Args, want)
	}
}

func TestParseArgumentWithMarkerIsQuoted(t *testing.T) {
	chain := ParseString("foo.exe %DIRUN_FPATH%")

	if got, want := chain.Steps[0].Args, `"%DIRUN_FPATH%"`; got != want {
		t.Errorf("Args = %q, want %q", got, want)
	}
}

func TestParseEmptyInputYieldsEmptyChain(t *testing.T) {
	if chain := ParseString(""); !chain.Empty() {
		t.Errorf("ParseString(\"\") = %+v, want empty chain", chain)
	}
	if chain := Parse(nil, 0, 0); !chain.Empty() {
		t.Errorf("Parse(nil) = %+v, want empty chain", chain)
	}
}

func TestParseTokenRange(t *testing.T) {
	tokens := []string{"--recurse", "--", "foo.exe", "--flag"}
	chain := Parse(tokens, 2, len(tokens))

	if len(chain.Steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(chain.Steps))
	}
	if chain.Steps[0].Path != "foo.exe" || chain.Steps[0].Args != "--flag" {
		t.Errorf("step = %+v, want foo.exe --flag", chain.Steps[0])
	}
}

func TestParseStrayOperatorsDegrade(t *testing.T) {
	chain := ParseString("&& foo.exe")

	if len(chain.Steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(chain.Steps))
	}
	if chain.Steps[0].Path != "foo.exe" {
		t.Errorf("Path = %q, want foo.exe", chain.Steps[0].Path)
	}
}

func TestParseAppendBlocksDuplication(t *testing.T) {
	// After >>, the &1 is not a duplication target: & chains and 1 starts
	// the next step.
	chain := ParseString("foo.exe >>&1")

	if len(chain.Steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(chain.Steps))
	}
	if got := chain.Steps[0].Continuation; got != ChainAlways {
		t.Errorf("continuation = %v, want ChainAlways", got)
	}
	if chain.Steps[1].Path != "1" {
		t.Errorf("second path = %q, want %q", chain.Steps[1].Path, "1")
	}
}
