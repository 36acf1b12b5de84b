package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleSetMatchBilingual(t *testing.T) {
	lex := DefaultLexicon()

	// Both languages normalize to the same value
	mat1, ok1 := lex.Material.Match("kivimaja")
	mat2, ok2 := lex.Material.Match("stone house")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, mat1, mat2)
	assert.Equal(t, "stone", mat1)

	cond1, ok1 := lex.Condition.Match("renoveeritud")
	cond2, ok2 := lex.Condition.Match("renovated")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, cond1, cond2)
	assert.Equal(t, "renovated", cond1)
}

func TestRuleSetMatchWithinText(t *testing.T) {
	lex := DefaultLexicon()

	v, ok := lex.Condition.Match("Hubane kodu, renoveeritud 2019, kohe vaba")
	assert.True(t, ok)
	assert.Equal(t, "renovated", v)

	v, ok = lex.Material.Match("A cozy home in a STONE HOUSE near the sea")
	assert.True(t, ok)
	assert.Equal(t, "stone", v)
}

func TestRuleSetNoPartialMatches(t *testing.T) {
	lex := DefaultLexicon()

	// "kivimaja" must not trip the standalone "maja" (house) pattern
	v, ok := lex.PropertyType.Match("kivimaja")
	assert.False(t, ok, "got %q", v)

	_, ok = lex.Condition.Match("unrenovated something")
	assert.False(t, ok)

	_, ok = lex.Condition.Match("")
	assert.False(t, ok)
}

func TestRuleSetOrderWins(t *testing.T) {
	rs := RuleSet{
		{Patterns: []string{"uusarendus"}, Value: "new"},
		{Patterns: []string{"renoveeritud"}, Value: "renovated"},
	}

	v, ok := rs.Match("uusarendus, renoveeritud")
	assert.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestRecommendedHeading(t *testing.T) {
	lex := DefaultLexicon()

	assert.True(t, lex.IsRecommendedHeading("Soovitatud kuulutused"))
	assert.True(t, lex.IsRecommendedHeading("Recommended listings"))
	assert.False(t, lex.IsRecommendedHeading("Otsingutulemused"))
	assert.False(t, lex.IsRecommendedHeading(""))
}

func TestReservationPhrase(t *testing.T) {
	lex := DefaultLexicon()

	assert.True(t, lex.IsReservation("Broneeritud"))
	assert.True(t, lex.IsReservation("RESERVED"))
	assert.False(t, lex.IsReservation("Aktiivne"))
}

func TestLexiconExtension(t *testing.T) {
	// Tables are data: extending them needs no matcher changes
	lex := DefaultLexicon()
	lex.Material = append(RuleSet{
		{Patterns: []string{"betoonmaja", "concrete house"}, Value: "concrete"},
	}, lex.Material...)

	v, ok := lex.Material.Match("betoonmaja")
	assert.True(t, ok)
	assert.Equal(t, "concrete", v)

	v, ok = lex.Material.Match("kivimaja")
	assert.True(t, ok)
	assert.Equal(t, "stone", v)
}
