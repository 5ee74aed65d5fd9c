package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompatible(t *testing.T) {
	tests := []struct {
		name string
		p1   Prefs
		p2   Prefs
		want bool
	}{
		{
			name: "both wildcard",
			p1:   DefaultPrefs(),
			p2:   DefaultPrefs(),
			want: true,
		},
		{
			name: "same language strict",
			p1:   Prefs{Language: "en", Country: Wildcard, Gender: Wildcard},
			p2:   Prefs{Language: "en", Country: Wildcard, Gender: Wildcard},
			want: true,
		},
		{
			name: "different language strict",
			p1:   Prefs{Language: "en", Country: Wildcard, Gender: Wildcard},
			p2:   Prefs{Language: "fr", Country: Wildcard, Gender: Wildcard},
			want: false,
		},
		{
			name: "one side wildcard absorbs language",
			p1:   Prefs{Language: Wildcard, Country: Wildcard, Gender: Wildcard},
			p2:   Prefs{Language: "fr", Country: Wildcard, Gender: Wildcard},
			want: true,
		},
		{
			name: "all axes must hold",
			p1:   Prefs{Language: "en", Country: "us", Gender: "f"},
			p2:   Prefs{Language: "en", Country: "us", Gender: "m"},
			want: false,
		},
		{
			name: "mixed wildcards across axes",
			p1:   Prefs{Language: "en", Country: Wildcard, Gender: "f"},
			p2:   Prefs{Language: Wildcard, Country: "de", Gender: "f"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compatible(tt.p1, tt.p2))
			// Compatibility is symmetric for every pair.
			assert.Equal(t, Compatible(tt.p1, tt.p2), Compatible(tt.p2, tt.p1))
		})
	}
}

func TestPrefs_Normalized(t *testing.T) {
	p := Prefs{Language: "en"}.Normalized()
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, Wildcard, p.Country)
	assert.Equal(t, Wildcard, p.Gender)

	assert.Equal(t, DefaultPrefs(), Prefs{}.Normalized())
}
