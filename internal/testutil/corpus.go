// Package testutil builds small synthetic Quran corpora for tests.
package testutil

import (
	"fmt"

	"github.com/escalopa/quran-mushaf/internal/adapter/memstore"
	"github.com/escalopa/quran-mushaf/internal/domain"
)

// SurahSpec describes one surah of a synthetic corpus. Ayahs[i] is the
// number of words of ayah i+1, not counting the ayah marker.
type SurahSpec struct {
	Number int
	Ayahs  []int
}

// Words numbers the words of the given surahs sequentially from 1. Every
// ayah ends with a marker word carrying the next word number.
func Words(specs ...SurahSpec) []domain.Word {
	var words []domain.Word
	global := 0
	for _, s := range specs {
		for a, n := range s.Ayahs {
			for w := 1; w <= n+1; w++ {
				global++
				marker := w == n+1
				text := fmt.Sprintf("w%d:%d:%d", s.Number, a+1, w)
				if marker {
					text = fmt.Sprintf("(%d)", a+1)
				}
				words = append(words, domain.Word{
					SurahNumber:  s.Number,
					AyahNumber:   a + 1,
					WordNumber:   w,
					GlobalIndex:  global,
					Text:         text,
					Uthmani:      text,
					IsAyahMarker: marker,
				})
			}
		}
	}
	return words
}

// Layout lays the words out page by page. Each surah opens with a surah_name
// banner and, except for surahs 1 and 9, a basmalah banner. Word lines hold
// at most wordsPerLine words and never cross a surah.
func Layout(words []domain.Word, wordsPerLine, linesPerPage int) []domain.LayoutLine {
	var lines []domain.LayoutLine
	page, line := 1, 0

	next := func(t domain.LineType, start, end *int) {
		line++
		if line > linesPerPage {
			page++
			line = 1
		}
		lines = append(lines, domain.LayoutLine{
			Page:       page,
			Line:       line,
			Type:       t,
			IsCentered: t != domain.LineAyah,
			RangeStart: start,
			RangeEnd:   end,
		})
	}

	for i := 0; i < len(words); {
		surah := words[i].SurahNumber
		next(domain.LineSurahName, intPtr(surah), nil)
		if surah != 1 && surah != 9 {
			next(domain.LineBasmalah, nil, nil)
		}

		j := i
		for j < len(words) && words[j].SurahNumber == surah {
			j++
		}
		for k := i; k < j; k += wordsPerLine {
			end := min(k+wordsPerLine, j) - 1
			next(domain.LineAyah, intPtr(words[k].GlobalIndex), intPtr(words[end].GlobalIndex))
		}
		i = j
	}
	return lines
}

// Store builds a word store from the given surahs with the given layout shape.
func Store(wordsPerLine, linesPerPage int, specs ...SurahSpec) *memstore.Store {
	words := Words(specs...)
	return memstore.New(words, Layout(words, wordsPerLine, linesPerPage))
}

// Uniform returns count surahs numbered from first, each with ayahs ayahs
// of wordsPerAyah words.
func Uniform(first, count, ayahs, wordsPerAyah int) []SurahSpec {
	specs := make([]SurahSpec, count)
	for i := range specs {
		a := make([]int, ayahs)
		for j := range a {
			a[j] = wordsPerAyah
		}
		specs[i] = SurahSpec{Number: first + i, Ayahs: a}
	}
	return specs
}

func intPtr(v int) *int {
	return &v
}
