package anki

import "testing"

func TestQuery(t *testing.T) {
	tests := []struct {
		name  string
		query *Query
		want  string
	}{
		{
			name:  "deck only",
			query: DeckQuery("Deutsche Lernen::Wortschatz"),
			want:  `deck:"Deutsche Lernen::Wortschatz"`,
		},
		{
			name:  "existence check",
			query: DeckQuery("Deutsch").Model("Basic (and reversed card)_main").Field("base_de", "Haus"),
			want:  `deck:"Deutsch" note:"Basic (and reversed card)\_main" "base\_de:Haus"`,
		},
		{
			name:  "quotes in value",
			query: NewQuery().Field("front", `say "hallo"`),
			want:  `"front:say \"hallo\""`,
		},
		{
			name:  "colon and wildcards in value",
			query: NewQuery().Field("front", "a:b*c_d"),
			want:  `"front:a\:b\*c\_d"`,
		},
		{
			name:  "backslash in value",
			query: NewQuery().Field("front", `a\b`),
			want:  `"front:a\\b"`,
		},
		{
			name:  "tag",
			query: NewQuery().Tag("b1"),
			want:  `"tag:b1"`,
		},
		{
			name:  "empty",
			query: NewQuery(),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}
