package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCardDescription(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "uber descriptions collapse to the fixed label",
			raw:  "UBER TRIP TORONTO ON",
			want: "Uber",
		},
		{
			name: "uber eats too",
			raw:  "UBER* EATS",
			want: "Uber",
		},
		{
			name: "noise prefix stripped",
			raw:  "POS PURCHASE TIM HORTONS",
			want: "TIM HORTONS",
		},
		{
			name: "preauth prefix stripped",
			raw:  "PREAUTH NETFLIX.COM",
			want: "NETFLIX.COM",
		},
		{
			name: "trailing province code stripped",
			raw:  "TIM HORTONS #2151 TORONTO ON",
			want: "TIM HORTONS #2151 TORONTO",
		},
		{
			name: "trailing phone number stripped",
			raw:  "AIR CANADA 888-247-2262",
			want: "AIR CANADA",
		},
		{
			name: "trailing reference blob stripped, then the CA suffix",
			raw:  "AMZN MKTP CA 701234567890",
			want: "AMZN MKTP",
		},
		{
			name: "stacked suffixes all stripped",
			raw:  "SHELL C01234 705-555-1234 ON",
			want: "SHELL",
		},
		{
			name: "internal whitespace collapsed",
			raw:  "METRO   ETOBICOKE    STORE",
			want: "METRO ETOBICOKE STORE",
		},
		{
			name: "prefix only degrades to placeholder",
			raw:  "PURCHASE",
			want: "Card Transaction",
		},
		{
			name: "too short after cleanup",
			raw:  "POS PURCHASE AB ON",
			want: "Card Transaction",
		},
		{
			name: "empty input",
			raw:  "",
			want: "Card Transaction",
		},
		{
			name: "prefix-like merchant names are kept",
			raw:  "PURCHASES R US STORE",
			want: "PURCHASES R US STORE",
		},
		{
			name: "plain merchant untouched",
			raw:  "CANADIAN TIRE",
			want: "CANADIAN TIRE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCardDescription(tt.raw))
		})
	}
}
