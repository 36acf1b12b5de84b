package extractor

import (
	"strings"
	"unicode"
)

// Rule maps a set of bilingual phrases to one normalized value. Patterns
// are matched as whole phrases against canonicalized text; there is no
// partial-word guessing.
type Rule struct {
	Patterns []string
	Value    string
}

// RuleSet is an ordered list of rules. The first matching rule wins.
type RuleSet []Rule

// Match scans the text for any pattern of any rule and returns the
// normalized value of the first rule that matches. Patterns match on
// whole-word boundaries, so "maja" never matches inside "kivimaja". The
// boolean result distinguishes "no rule matched" from a matched empty
// value.
func (rs RuleSet) Match(text string) (string, bool) {
	words := tokenize(text)
	if len(words) == 0 {
		return "", false
	}
	for _, rule := range rs {
		for _, p := range rule.Patterns {
			if containsPhrase(words, p) {
				return rule.Value, true
			}
		}
	}
	return "", false
}

// tokenize canonicalizes the text and splits it into lower-case words,
// treating punctuation as a separator.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsPhrase reports whether the phrase occurs in words as a
// contiguous whole-word sequence.
func containsPhrase(words []string, phrase string) bool {
	want := tokenize(phrase)
	if len(want) == 0 || len(want) > len(words) {
		return false
	}
	for i := 0; i+len(want) <= len(words); i++ {
		match := true
		for j, w := range want {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Lexicon carries the bilingual synonym tables consumed by the extractor.
// It is passed in at construction so tests can substitute fixtures; the
// matching algorithm never changes when tables are extended.
type Lexicon struct {
	Condition    RuleSet
	Material     RuleSet
	PropertyType RuleSet

	// Headings that introduce the secondary "recommended" block on a
	// results page. Cards at or after such a heading are not query results.
	RecommendedHeadings []string

	// Phrases marking a reserved listing (card overlay or meta-table).
	ReservationPhrases []string

	// Meta-table row labels on detail pages.
	ConditionLabels []string
	MaterialLabels  []string
	EnergyLabels    []string
	BuildYearLabels []string
	FloorLabels     []string
	RoomsLabels     []string
}

// containsAny reports whether the text contains any of the given phrases
// as a whole-word sequence.
func containsAny(text string, phrases []string) bool {
	words := tokenize(text)
	if len(words) == 0 {
		return false
	}
	for _, p := range phrases {
		if containsPhrase(words, p) {
			return true
		}
	}
	return false
}

// IsRecommendedHeading reports whether the heading text introduces the
// recommended-listings block, in either language.
func (l Lexicon) IsRecommendedHeading(text string) bool {
	return containsAny(text, l.RecommendedHeadings)
}

// IsReservation reports whether the text carries the reservation phrase.
func (l Lexicon) IsReservation(text string) bool {
	return containsAny(text, l.ReservationPhrases)
}

// DefaultLexicon returns the production synonym tables for kv.ee, which
// serves Estonian and English variants of the same markup.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Condition: RuleSet{
			{Patterns: []string{"uusarendus", "new development", "uus korter", "brand new"}, Value: "new"},
			{Patterns: []string{"renoveeritud", "renovated", "san. remont tehtud"}, Value: "renovated"},
			{Patterns: []string{"vajab renoveerimist", "needs renovation", "needs complete renovation"}, Value: "needs_renovation"},
			{Patterns: []string{"vajab sanitaarremonti", "needs decoration"}, Value: "needs_decoration"},
			{Patterns: []string{"heas korras", "good condition"}, Value: "good"},
			{Patterns: []string{"rahuldavas korras", "satisfactory condition"}, Value: "satisfactory"},
			{Patterns: []string{"ehitusjärgus", "under construction"}, Value: "under_construction"},
		},
		Material: RuleSet{
			{Patterns: []string{"kivimaja", "stone house", "kivist"}, Value: "stone"},
			{Patterns: []string{"paneelmaja", "panel house", "paneelist"}, Value: "panel"},
			{Patterns: []string{"tellismaja", "brick house", "tellistest"}, Value: "brick"},
			{Patterns: []string{"palkmaja", "log house", "palgist"}, Value: "log"},
			{Patterns: []string{"puitmaja", "wooden house", "puidust"}, Value: "wood"},
		},
		PropertyType: RuleSet{
			{Patterns: []string{"korter", "apartment", "flat"}, Value: "apartment"},
			{Patterns: []string{"ridaelamu", "terraced house", "paarismaja", "semi-detached"}, Value: "house"},
			{Patterns: []string{"suvila", "summer cottage", "cottage"}, Value: "cottage"},
			{Patterns: []string{"maja", "house"}, Value: "house"},
			{Patterns: []string{"maatükk", "krunt", "land", "plot"}, Value: "land"},
			{Patterns: []string{"äripind", "commercial premises", "commercial space"}, Value: "commercial"},
		},
		RecommendedHeadings: []string{
			"soovitatud kuulutused",
			"sulle võivad huvi pakkuda",
			"recommended listings",
			"you may also be interested",
		},
		ReservationPhrases: []string{"broneeritud", "reserved"},

		ConditionLabels: []string{"seisukord", "condition"},
		MaterialLabels:  []string{"ehitusmaterjal", "materjal", "building material", "material"},
		EnergyLabels:    []string{"energiamärgis", "energiaklass", "energy certificate", "energy class", "energy label"},
		BuildYearLabels: []string{"ehitusaasta", "build year", "year built", "year of construction"},
		FloorLabels:     []string{"korrus", "korruseid", "floor", "floors"},
		RoomsLabels:     []string{"tube", "tubade arv", "rooms", "number of rooms"},
	}
}
