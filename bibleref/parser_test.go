package bibleref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		input string
		want  Reference
	}{
		{"John 3:16-18", Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 18}},
		{"1 Cor 13", Reference{Book: "1 Corinthians", Chapter: 13}},
		{"1John1", Reference{Book: "1 John", Chapter: 1}},
		{"1corinthians13:4", Reference{Book: "1 Corinthians", Chapter: 13, Verse: 4, EndVerse: 4}},
		{"  john   3:16 ", Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 16}},
		{"Song of Solomon 2:1-3", Reference{Book: "Song of Solomon", Chapter: 2, Verse: 1, EndVerse: 3}},
		{"Ps 23", Reference{Book: "Psalms", Chapter: 23}},
		{"Psalm119:105", Reference{Book: "Psalms", Chapter: 119, Verse: 105, EndVerse: 105}},
		{"Gen.1.1", Reference{Book: "Genesis", Chapter: 1, Verse: 1, EndVerse: 1}},
		{"John 3:16–18", Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 18}},
		{"John 3 : 16 - 18", Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 18}},
		{"1 Pet 5:7", Reference{Book: "1 Peter", Chapter: 5, Verse: 7, EndVerse: 7}},
		{"rev22", Reference{Book: "Revelation", Chapter: 22}},
		{"Obadiah 1:3-3", Reference{Book: "Obadiah", Chapter: 1, Verse: 3, EndVerse: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReference(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReference_InvalidFormat(t *testing.T) {
	for _, input := range []string{
		"not a verse",
		"",
		"   ",
		"3:16",
		"John",
		"John 3 16",
		"John 0",
		"John 3:0",
		"John 3:18-16",
		"John 3:16-",
		"John 99999999999999999999",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseReference(input)
			var invalid *InvalidReferenceFormatError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, input, invalid.Input)
			assert.True(t, IsReferenceError(err))
		})
	}
}

func TestParseReference_UnknownBookPropagates(t *testing.T) {
	for _, input := range []string{"Foo 3:16", "1j 1", "1k 2:3", "Hezekiah 4"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseReference(input)
			var unknown *UnknownBookError
			require.ErrorAs(t, err, &unknown)

			var invalid *InvalidReferenceFormatError
			assert.NotErrorAs(t, err, &invalid)
		})
	}
}

func TestParseReference_GrammarOrder(t *testing.T) {
	// The verse grammar must win over the chapter grammar.
	ref, err := ParseReference("Jude 1:4")
	require.NoError(t, err)
	assert.True(t, ref.HasVerse())

	ref, err = ParseReference("Jude 1")
	require.NoError(t, err)
	assert.False(t, ref.HasVerse())
	assert.Zero(t, ref.EndVerse)
}

func TestMatchGrammar(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John 3:16-18", "chapter-verse"},
		{"1corinthians13:4", "chapter-verse"},
		{"1 Cor 13", "chapter"},
		{"Song of Solomon 2", "chapter"},
		{"1John1", "compact-chapter"},
		{"rev22", "compact-chapter"},
		{"ps23", "compact-chapter"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			g, _, ok := matchGrammar(normalizeInput(tt.input))
			require.True(t, ok)
			assert.Equal(t, tt.want, g.name)
		})
	}

	_, _, ok := matchGrammar("John 3 16")
	assert.False(t, ok)
}

func TestReference_StringRoundTrip(t *testing.T) {
	for _, input := range []string{"1 Cor 13", "1John1", "John 3:16-18", "ps 23:1", "Song 1:1-4"} {
		ref, err := ParseReference(input)
		require.NoError(t, err)

		again, err := ParseReference(ref.String())
		require.NoError(t, err, "formatted %q", ref.String())
		assert.Equal(t, ref, again)
	}
}

func TestReference_String(t *testing.T) {
	assert.Equal(t, "John 3", Reference{Book: "John", Chapter: 3}.String())
	assert.Equal(t, "John 3:16", Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 16}.String())
	assert.Equal(t, "John 3:16-18", Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 18}.String())
	assert.Equal(t, "1 John 4:8", FormatVerse("1 John", 4, 8))
	assert.True(t, Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 18}.IsRange())
	assert.False(t, Reference{Book: "John", Chapter: 3, Verse: 16, EndVerse: 16}.IsRange())
}
