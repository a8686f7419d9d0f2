package application

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

// minWordSimilarity is the similarity from which a misspoken word still counts
const minWordSimilarity = 0.7

var arabicFolder = strings.NewReplacer("ة", "ه", "ٱ", "ا")

// normalizeArabic strips diacritics and folds letter variants. Decomposing
// first turns hamza carriers (أ إ آ ؤ ئ) into their base letter plus a
// combining mark, so dropping marks also unifies them.
func normalizeArabic(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	folded = arabicFolder.Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// levenshtein counts rune edits between a and b
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j-1]+cost, cur[j-1]+1, prev[j]+1)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// WordSimilarity returns the similarity of two words as a percentage
func WordSimilarity(a, b string) int {
	a, b = normalizeArabic(a), normalizeArabic(b)
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 100
	}
	return int(math.Round((1 - float64(levenshtein(a, b))/float64(longest)) * 100))
}

// CompareRecitation compares a recited transcript with the reference text
// word by word, position against position.
func CompareRecitation(original, recited string) domain.RecitationResult {
	want := strings.Fields(normalizeArabic(original))
	got := strings.Fields(normalizeArabic(recited))

	result := domain.RecitationResult{
		Errors:      []domain.RecitationError{},
		Suggestions: []string{},
	}

	correct := 0
	for i := 0; i < max(len(want), len(got)); i++ {
		var w, g string
		if i < len(want) {
			w = want[i]
		}
		if i < len(got) {
			g = got[i]
		}

		switch {
		case g == "":
			result.Errors = append(result.Errors, domain.RecitationError{
				WordNumber: i + 1, Expected: w, Type: domain.RecitationMissing,
			})
			result.Suggestions = append(result.Suggestions, fmt.Sprintf("missing word %q", w))
		case w == "":
			result.Errors = append(result.Errors, domain.RecitationError{
				WordNumber: i + 1, Received: g, Type: domain.RecitationExtra,
			})
			result.Suggestions = append(result.Suggestions, fmt.Sprintf("extra word %q", g))
		case w == g:
			correct++
		default:
			longest := max(len([]rune(w)), len([]rune(g)))
			similarity := 1 - float64(levenshtein(w, g))/float64(longest)
			if similarity >= minWordSimilarity {
				correct++
				continue
			}
			result.Errors = append(result.Errors, domain.RecitationError{
				WordNumber: i + 1, Expected: w, Received: g, Type: domain.RecitationWrong,
			})
			result.Suggestions = append(result.Suggestions, fmt.Sprintf("expected %q, heard %q", w, g))
		}
	}

	accuracy := 0.0
	if len(want) > 0 {
		accuracy = float64(correct) / float64(len(want)) * 100
	}

	switch {
	case accuracy < 50:
		result.Suggestions = append(result.Suggestions, "revise this ayah before testing again")
	case accuracy < 80:
		result.Suggestions = append(result.Suggestions, "good attempt, focus on the difficult words")
	case accuracy < 95:
		result.Suggestions = append(result.Suggestions, "very good, watch the small details")
	default:
		result.Suggestions = append(result.Suggestions, "excellent recitation")
	}

	result.Success = len(result.Errors) == 0
	result.Accuracy = math.Round(accuracy)
	return result
}
