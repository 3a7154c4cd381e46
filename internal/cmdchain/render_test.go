// SPDX-License-Identifier: MPL-2.0

package cmdchain

import (
	"reflect"
	"testing"
)

func TestChainStringEmpty(t *testing.T) {
	if got := (&Chain{}).String(); got != "" {
		t.Errorf("empty chain String() = %q, want \"\"", got)
	}
}

func TestChainStringRendersRedirections(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "stdout to file",
			line: "foo.exe > out.txt",
			want: `"foo.exe" > out.txt`,
		},
		{
			name: "append",
			line: "foo.exe >> out.txt",
			want: `"foo.exe" >> out.txt`,
		},
		{
			name: "numbered handle",
			line: "foo.exe 3>log.txt",
			want: `"foo.exe" 3> log.txt`,
		},
		{
			name: "input",
			line: "foo.exe < in.txt",
			want: `"foo.exe" < in.txt`,
		},
		{
			name: "duplication",
			line: "foo.exe 2>&1",
			want: `"foo.exe" 2>&1`,
		},
		{
			name: "discard",
			line: "foo.exe > nul",
			want: `"foo.exe" > NUL`,
		},
		{
			name: "escaped control char stays literal",
			line: "foo.exe ^> res.out",
			want: `"foo.exe" ^> res.out`,
		},
		{
			name: "control char in path",
			line: "a^&b.exe",
			want: `"a^&b.exe"`,
		},
		{
			name: "input duplication",
			line: "foo.exe <&1",
			want: `"foo.exe" <&1`,
		},
		{
			name: "chain operators",
			line: "a.exe && b.exe || c.exe",
			want: `"a.exe" && "b.exe" || "c.exe"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseString(tt.line).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Rendering must be semantically re-parseable, not byte-identical: parsing
// the rendered form has to yield the same chain.
func TestChainStringRoundTrip(t *testing.T) {
	lines := []string{
		"foo.exe --flag value > out.txt 2>&1",
		`convert "my file.txt" >> "out dir.log"`,
		"a.exe && b.exe | c.exe || d.exe & e.exe",
		"foo.exe 3>log.txt 4> nul < in.txt",
		`foo.exe --arg="""has spaces"""`,
		"foo.exe %DIRUN_FPATH%",
		"foo.exe ^> res.out",
		"a^&b.exe x^|y ^< z",
		`foo.exe "x ^> y"`,
		"foo.exe <&1",
	}

	for _, line := range lines {
		first := ParseString(line)
		second := ParseString(first.String())
		if !reflect.DeepEqual(first, second) {
			t.Errorf("round trip of %q changed the chain:\nfirst:  %+v\nsecond: %+v",
				line, first, second)
		}
	}
}
