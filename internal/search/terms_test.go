package search

import (
	"reflect"
	"testing"
)

func TestLikePatterns(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  []string
	}{
		{
			name: "plain term gets implied wildcards",
			raw:  "gold",
			want: []string{"%gold%"},
		},
		{
			name: "multiple terms produce one pattern each",
			raw:  "stuck tower",
			want: []string{"%stuck%", "%tower%"},
		},
		{
			name: "explicit leading star kept",
			raw:  "*seller",
			want: []string{"%seller%"},
		},
		{
			name: "interior star becomes percent",
			raw:  "gold*seller",
			want: []string{"%gold%seller%"},
		},
		{
			name: "quoted term is a literal substring",
			raw:  `"gold seller"`,
			want: []string{"%gold seller%"},
		},
		{
			name: "quoted phrase mixes with plain terms",
			raw:  `gold "real money" seller`,
			want: []string{"%gold%", "%real money%", "%seller%"},
		},
		{
			name: "quoted term escapes like metacharacters",
			raw:  `"50%_off"`,
			want: []string{`%50\%\_off%`},
		},
		{
			name: "patterns are lower-cased",
			raw:  "GoldSeller",
			want: []string{"%goldseller%"},
		},
		{
			name: "underscore in glob term is escaped",
			raw:  "mach_ident",
			want: []string{`%mach\_ident%`},
		},
		{
			name: "empty input yields no patterns",
			raw:  "   ",
			want: nil,
		},
		{
			name: "empty quotes are dropped",
			raw:  `""`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LikePatterns(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LikePatterns(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}
