package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want [][]string
	}{
		{
			name: "simple rows",
			text: "a,b,c\nd,e,f",
			want: [][]string{{"a", "b", "c"}, {"d", "e", "f"}},
		},
		{
			name: "windows line endings",
			text: "a,b\r\nc,d\r\n",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "bare carriage returns",
			text: "a,b\rc,d",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "leading byte-order mark",
			text: "\uFEFFDate,Description\n2026-02-01,COFFEE",
			want: [][]string{{"Date", "Description"}, {"2026-02-01", "COFFEE"}},
		},
		{
			name: "quoted field with embedded comma",
			text: `2026-02-01,"SMITH, JOHN",25.50`,
			want: [][]string{{"2026-02-01", "SMITH, JOHN", "25.50"}},
		},
		{
			name: "doubled quote is one literal quote",
			text: `a,"say ""hi""",b`,
			want: [][]string{{"a", `say "hi"`, "b"}},
		},
		{
			name: "quoted field with embedded newline",
			text: "a,\"line one\nline two\",b",
			want: [][]string{{"a", "line one\nline two", "b"}},
		},
		{
			name: "blank lines are dropped",
			text: "a,b\n\n   \nc,d\n",
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "unbalanced quote consumes to end of input",
			text: "a,\"unterminated,field\nstill inside",
			want: [][]string{{"a", "unterminated,field\nstill inside"}},
		},
		{
			name: "fields are trimmed",
			text: " a , b ,  c\n",
			want: [][]string{{"a", "b", "c"}},
		},
		{
			name: "trailing empty field survives when row is not blank",
			text: "a,b,\n",
			want: [][]string{{"a", "b", ""}},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}
