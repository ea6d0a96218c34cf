package match

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Smith General Theory 1999", "smith general theory 1999"},
		{"Théorie: du Tout!", "theorie du tout"},
		{"Ça va—bien", "ca vabien"},
		{"Vol. 2, 1999", "vol 2 1999"},
		{"ﬁnal", "final"},
		{"Gödel, Escher, Bach", "godel escher bach"},
		{"a\tb", "ab"},
		{"  spaced  out ", "  spaced  out "},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := Normalize(tt.input)
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Smith General Theory 1999",
		"Œuvres complètes, tome 3",
		"İstanbul: a tale of two cities",
		"Ærøskøbing – ½ day",
		"東京 物語",
		"ﬁnal ＡＢＣ",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeRemovesPunctuation(t *testing.T) {
	inputs := []string{
		"Hello, world! (2nd ed.)",
		"\"Quoted\" — 'text'; with: punctuation?",
		"a.b,c;d:e!f?g-h_i[j]k{l}m/n\\o",
	}
	for _, in := range inputs {
		for _, r := range Normalize(in) {
			assert.False(t, unicode.IsPunct(r), "punctuation %q left in Normalize(%q)", r, in)
		}
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"general", "theory"}, Tokenize("  general   theory "))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
	for _, tok := range Tokenize(Normalize("a , b ; c")) {
		assert.NotEmpty(t, tok)
	}
}
