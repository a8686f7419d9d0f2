// Package memstore keeps the Quran word and layout tables in memory.
package memstore

import (
	"slices"
	"sort"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

type ayahKey struct {
	surah int
	ayah  int
}

// span is a half-open range of positions in Store.words
type span struct {
	lo, hi int
}

// Store is an immutable, indexed view of the word and layout tables. It is
// built once per session and safe for concurrent reads.
type Store struct {
	words      []domain.Word
	ayahStarts []domain.AyahStart
	startIndex map[ayahKey]int
	ayahSpans  map[ayahKey]span
	surahSpans map[int]span

	lines     map[int][]domain.LayoutLine
	pages     []int
	ayahLines []domain.LayoutLine // ayah rows with both bounds, by RangeStart
}

// New indexes the given rows. The inputs are copied and may be in any order.
func New(words []domain.Word, lines []domain.LayoutLine) *Store {
	s := &Store{
		words:      slices.Clone(words),
		startIndex: make(map[ayahKey]int),
		ayahSpans:  make(map[ayahKey]span),
		surahSpans: make(map[int]span),
		lines:      make(map[int][]domain.LayoutLine),
	}

	sort.SliceStable(s.words, func(i, j int) bool {
		return s.words[i].GlobalIndex < s.words[j].GlobalIndex
	})

	for i, w := range s.words {
		key := ayahKey{w.SurahNumber, w.AyahNumber}

		if w.IsAyahStart() {
			s.ayahStarts = append(s.ayahStarts, domain.AyahStart{
				SurahNumber: w.SurahNumber,
				AyahNumber:  w.AyahNumber,
				WordIndex:   w.GlobalIndex,
			})
			if _, ok := s.startIndex[key]; !ok {
				s.startIndex[key] = w.GlobalIndex
			}
		}

		if sp, ok := s.ayahSpans[key]; ok {
			sp.hi = i + 1
			s.ayahSpans[key] = sp
		} else {
			s.ayahSpans[key] = span{lo: i, hi: i + 1}
		}

		if sp, ok := s.surahSpans[w.SurahNumber]; ok {
			sp.hi = i + 1
			s.surahSpans[w.SurahNumber] = sp
		} else {
			s.surahSpans[w.SurahNumber] = span{lo: i, hi: i + 1}
		}
	}

	for _, l := range lines {
		s.lines[l.Page] = append(s.lines[l.Page], l)
		if l.Type == domain.LineAyah && l.HasRange() {
			s.ayahLines = append(s.ayahLines, l)
		}
	}
	for page, pl := range s.lines {
		sort.SliceStable(pl, func(i, j int) bool { return pl[i].Line < pl[j].Line })
		s.pages = append(s.pages, page)
	}
	sort.Ints(s.pages)
	sort.SliceStable(s.ayahLines, func(i, j int) bool {
		return *s.ayahLines[i].RangeStart < *s.ayahLines[j].RangeStart
	})

	return s
}

// Len returns the number of words
func (s *Store) Len() int {
	return len(s.words)
}

func (s *Store) RangeLookup(start, end int) []domain.Word {
	if start > end {
		return nil
	}
	lo := sort.Search(len(s.words), func(i int) bool { return s.words[i].GlobalIndex >= start })
	hi := sort.Search(len(s.words), func(i int) bool { return s.words[i].GlobalIndex > end })
	if lo >= hi {
		return nil
	}
	return slices.Clone(s.words[lo:hi])
}

func (s *Store) AyahStartAtOrBefore(index int) (domain.AyahStart, bool) {
	i := sort.Search(len(s.ayahStarts), func(i int) bool { return s.ayahStarts[i].WordIndex > index })
	if i == 0 {
		return domain.AyahStart{}, false
	}
	return s.ayahStarts[i-1], true
}

func (s *Store) AyahStartAtOrAfter(index int) (domain.AyahStart, bool) {
	i := sort.Search(len(s.ayahStarts), func(i int) bool { return s.ayahStarts[i].WordIndex >= index })
	if i == len(s.ayahStarts) {
		return domain.AyahStart{}, false
	}
	return s.ayahStarts[i], true
}

func (s *Store) WordIndexForAyahStart(surahNumber, ayahNumber int) (int, bool) {
	idx, ok := s.startIndex[ayahKey{surahNumber, ayahNumber}]
	return idx, ok
}

func (s *Store) PageContaining(index int) (int, bool) {
	i := sort.Search(len(s.ayahLines), func(i int) bool { return *s.ayahLines[i].RangeStart > index })
	if i == 0 {
		return 0, false
	}
	l := s.ayahLines[i-1]
	if *l.RangeEnd < index {
		return 0, false
	}
	return l.Page, true
}

func (s *Store) MaxWordIndex() int {
	if len(s.words) == 0 {
		return 0
	}
	return s.words[len(s.words)-1].GlobalIndex
}

func (s *Store) SurahBounds(surahNumber int) (int, int, bool) {
	sp, ok := s.surahSpans[surahNumber]
	if !ok {
		return 0, 0, false
	}
	// words are sorted, so the first and last occurrence are the bounds
	return s.words[sp.lo].GlobalIndex, s.words[sp.hi-1].GlobalIndex, true
}

func (s *Store) AyahWords(surahNumber, ayahNumber int) []domain.Word {
	sp, ok := s.ayahSpans[ayahKey{surahNumber, ayahNumber}]
	if !ok {
		return nil
	}
	return slices.Clone(s.words[sp.lo:sp.hi])
}

func (s *Store) Lines(page int) []domain.LayoutLine {
	return slices.Clone(s.lines[page])
}

func (s *Store) Pages() []int {
	return slices.Clone(s.pages)
}

func (s *Store) PagesOverlapping(start, end int) []int {
	hi := sort.Search(len(s.ayahLines), func(i int) bool { return *s.ayahLines[i].RangeStart > end })

	var pages []int
	for _, l := range s.ayahLines[:hi] {
		if *l.RangeEnd < start {
			continue
		}
		pages = append(pages, l.Page)
	}
	sort.Ints(pages)
	return slices.Compact(pages)
}

var (
	_ domain.WordStore   = (*Store)(nil)
	_ domain.LayoutStore = (*Store)(nil)
)
