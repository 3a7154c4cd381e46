// SPDX-License-Identifier: MPL-2.0

package cmdchain

import (
	"reflect"
	"testing"
)

func TestSplitTokens(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain words",
			line: "foo.exe --flag value",
			want: []string{"foo.exe", "--flag", "value"},
		},
		{
			name: "quoted run keeps whitespace",
			line: `convert "my file.txt" out`,
			want: []string{"convert", "my file.txt", "out"},
		},
		{
			name: "doubled quote inside quoted run is literal",
			line: `--arg="""has spaces"""`,
			want: []string{`--arg="has spaces"`},
		},
		{
			name: "empty quoted token",
			line: `a "" b`,
			want: []string{"a", "", "b"},
		},
		{
			name: "tabs and repeated spaces collapse",
			line: "a \t b   c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty line",
			line: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTokens(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitTokens(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}
