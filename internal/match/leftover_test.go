package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		remainder []string
		authors   []string
		years     []string
		want      Verdict
	}{
		{
			name:      "author and year explained",
			remainder: []string{"smith", "1999"},
			authors:   []string{"John Smith"},
			years:     []string{"1999"},
			want:      Verdict{MatchedAuthor: true, MatchedYear: true, HasYearLikeToken: true},
		},
		{
			name:      "year contradicts record",
			remainder: []string{"smith", "1999"},
			authors:   []string{"John Smith"},
			years:     []string{"2001"},
			want:      Verdict{MatchedAuthor: true, HasYearLikeToken: true, Unexplained: []string{"1999"}},
		},
		{
			name:      "one stated year matches, another does not",
			remainder: []string{"1999", "2005"},
			years:     []string{"1999"},
			want:      Verdict{MatchedYear: true, HasYearLikeToken: true, Unexplained: []string{"2005"}},
		},
		{
			name:      "author is whole token not substring",
			remainder: []string{"smith"},
			authors:   []string{"Jane Smithson"},
			want:      Verdict{Unexplained: []string{"smith"}},
		},
		{
			name:      "accented author name",
			remainder: []string{"nunez"},
			authors:   []string{"José Núñez"},
			want:      Verdict{MatchedAuthor: true},
		},
		{
			name:      "not year shaped",
			remainder: []string{"19a9", "12345", "199"},
			years:     []string{"1999"},
			want:      Verdict{Unexplained: []string{"19a9", "12345", "199"}},
		},
		{
			name:      "author checked before year",
			remainder: []string{"2001"},
			authors:   []string{"Space Odyssey 2001"},
			years:     []string{"1968"},
			want:      Verdict{MatchedAuthor: true},
		},
		{
			name: "empty remainder",
			want: Verdict{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.remainder, tt.authors, tt.years)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerdictYearMismatch(t *testing.T) {
	assert.True(t, Verdict{HasYearLikeToken: true}.YearMismatch())
	assert.False(t, Verdict{HasYearLikeToken: true, MatchedYear: true}.YearMismatch())
	assert.False(t, Verdict{}.YearMismatch())
}

func TestHasAuthor(t *testing.T) {
	authors := []string{"Albert Einstein", "Leopold Infeld"}
	assert.True(t, HasAuthor(authors, "einstein"))
	assert.True(t, HasAuthor(authors, "leopold"))
	assert.False(t, HasAuthor(authors, "Einstein"))
	assert.False(t, HasAuthor(authors, "ein"))
	assert.False(t, HasAuthor(nil, "einstein"))
}
