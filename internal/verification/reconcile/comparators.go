package reconcile

import (
	"math"
	"strings"
	"time"
)

// comparison is the outcome of one field comparator.
type comparison struct {
	match      bool
	confidence int
}

const fuzzyMatchThreshold = 80

func noMatch() comparison { return comparison{} }

// compareIdentifier treats case, whitespace and separator variants as the
// same identifier.
func compareIdentifier(submitted, returned string) comparison {
	if strings.TrimSpace(submitted) == strings.TrimSpace(returned) {
		return comparison{match: true, confidence: 100}
	}
	a, b := normalizeIdentifier(submitted), normalizeIdentifier(returned)
	if a == "" || b == "" {
		return noMatch()
	}
	if a == b {
		return comparison{match: true, confidence: 95}
	}
	if len(a) >= 5 && levenshtein([]rune(a), []rune(b)) == 1 {
		return comparison{confidence: 60}
	}
	return noMatch()
}

// compareText is a tolerant comparator for names and course titles.
func compareText(submitted, returned string) comparison {
	if submitted == returned {
		return comparison{match: true, confidence: 100}
	}
	a, b := foldName(submitted), foldName(returned)
	if a == "" || b == "" {
		return noMatch()
	}
	if a == b {
		return comparison{match: true, confidence: 97}
	}
	ta, tb := tokenSet(a), tokenSet(b)
	if sameSet(ta, tb) {
		return comparison{match: true, confidence: 95}
	}
	small, large := ta, tb
	if len(small) > len(large) {
		small, large = large, small
	}
	if len(small) >= 2 && isSubset(small, large) {
		return comparison{match: true, confidence: 90}
	}
	sim := 0.6*levenshteinRatio(a, b) + 0.4*jaccard(ta, tb)
	conf := int(math.Round(sim * 100))
	return comparison{match: conf >= fuzzyMatchThreshold, confidence: conf}
}

// compareStudentName also accepts the name recorded under the applicant's
// maiden surname.
func compareStudentName(name, maiden, returned string) comparison {
	best := compareText(name, returned)
	if strings.TrimSpace(maiden) == "" || best.confidence == 100 {
		return best
	}
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return best
	}
	tokens[len(tokens)-1] = strings.TrimSpace(maiden)
	alt := compareText(strings.Join(tokens, " "), returned)
	if alt.confidence > best.confidence {
		return alt
	}
	return best
}

// Each group lists a canonical key first, followed by its aliases. Keys are
// folded with spaces removed.
var degreeGroups = [][]string{
	{"bsc", "bachelorofscience", "bs"},
	{"ba", "bachelorofarts"},
	{"beng", "bachelorofengineering"},
	{"bed", "bachelorofeducation"},
	{"llb", "bacheloroflaws"},
	{"msc", "masterofscience", "ms"},
	{"ma", "masterofarts"},
	{"meng", "masterofengineering"},
	{"mba", "masterofbusinessadministration"},
	{"llm", "masteroflaws"},
	{"phd", "doctorofphilosophy", "dphil"},
	{"hnd", "highernationaldiploma"},
}

var classificationGroups = [][]string{
	{"first", "1st", "11"},
	{"upper_second", "uppersecond", "21", "2i", "secondupper"},
	{"lower_second", "lowersecond", "22", "2ii", "secondlower"},
	{"third", "3rd"},
	{"pass", "ordinary"},
	{"distinction"},
	{"merit"},
}

var (
	degreeAliases         = aliasIndex(degreeGroups)
	classificationAliases = aliasIndex(classificationGroups)
)

func aliasIndex(groups [][]string) map[string]string {
	idx := make(map[string]string)
	for _, g := range groups {
		for _, alias := range g {
			idx[alias] = g[0]
		}
	}
	return idx
}

func isClassificationNoise(tok string) bool {
	switch tok {
	case "class", "honours", "honors", "hons", "degree", "with", "division":
		return true
	}
	return false
}

func canonicalDegree(s string) (string, bool) {
	key := strings.ReplaceAll(foldName(s), " ", "")
	if c, ok := degreeAliases[key]; ok {
		return c, true
	}
	return key, false
}

func canonicalClassification(s string) (string, bool) {
	var kept []string
	for _, tok := range strings.Fields(foldName(s)) {
		if !isClassificationNoise(tok) {
			kept = append(kept, tok)
		}
	}
	key := strings.Join(kept, "")
	if c, ok := classificationAliases[key]; ok {
		return c, true
	}
	return key, false
}

func compareAlias(submitted, returned string, canonical func(string) (string, bool)) comparison {
	a, _ := canonical(submitted)
	b, _ := canonical(returned)
	if a != "" && a == b {
		return comparison{match: true, confidence: 100}
	}
	return noMatch()
}

// compareGraduationYear accepts only the exact year. A one-year difference
// keeps some confidence so it reads as a near miss rather than a mismatch.
func compareGraduationYear(submitted, returned int, now time.Time) comparison {
	if returned < 1950 || returned > now.Year() {
		return noMatch()
	}
	switch diff := submitted - returned; {
	case diff == 0:
		return comparison{match: true, confidence: 100}
	case diff == 1 || diff == -1:
		return comparison{confidence: 60}
	default:
		return noMatch()
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// parseDate accepts ISO dates and day-first numeric forms.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func compareDateOfBirth(submitted time.Time, returned string) comparison {
	got, ok := parseDate(returned)
	if !ok || submitted.IsZero() {
		return noMatch()
	}
	if sameDay(submitted, got) {
		return comparison{match: true, confidence: 100}
	}
	if got.Year() == submitted.Year() &&
		int(got.Month()) == submitted.Day() && got.Day() == int(submitted.Month()) {
		return comparison{confidence: 50}
	}
	return noMatch()
}
