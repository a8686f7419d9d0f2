package application

import (
	"strings"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

// LayoutService rebuilds mushaf pages from the word and layout tables
type LayoutService struct {
	words  domain.WordStore
	layout domain.LayoutStore
}

func NewLayoutService(words domain.WordStore, layout domain.LayoutStore) *LayoutService {
	return &LayoutService{
		words:  words,
		layout: layout,
	}
}

// PageLayout builds one page. It reports false when the page has no layout rows.
func (s *LayoutService) PageLayout(pageNumber int) (*domain.MushafPage, bool) {
	rows := s.layout.Lines(pageNumber)
	if len(rows) == 0 {
		return nil, false
	}

	page := &domain.MushafPage{
		PageNumber: pageNumber,
		Lines:      make([]domain.MushafLine, 0, len(rows)),
	}
	for _, row := range rows {
		page.Lines = append(page.Lines, s.resolveLine(row))
	}
	return page, true
}

func (s *LayoutService) resolveLine(row domain.LayoutLine) domain.MushafLine {
	line := domain.MushafLine{LayoutLine: row, Words: []domain.Word{}}

	switch row.Type {
	case domain.LineAyah:
		// a word line without bounds renders as a gap
		if row.HasRange() {
			if words := s.words.RangeLookup(*row.RangeStart, *row.RangeEnd); words != nil {
				line.Words = words
			}
		}
	case domain.LineSurahName:
		if row.RangeStart != nil {
			line.SurahReference = *row.RangeStart
		}
	}
	return line
}

// PagesForSurah returns every page holding a word of the surah, ascending.
func (s *LayoutService) PagesForSurah(surahNumber int) []domain.MushafPage {
	lo, hi, ok := s.words.SurahBounds(surahNumber)
	if !ok {
		return []domain.MushafPage{}
	}

	pageNumbers := s.layout.PagesOverlapping(lo, hi)
	pages := make([]domain.MushafPage, 0, len(pageNumbers))
	for _, n := range pageNumbers {
		if page, ok := s.PageLayout(n); ok {
			pages = append(pages, *page)
		}
	}
	return pages
}

// AyahWords returns the words of an ayah without its marker
func (s *LayoutService) AyahWords(surahNumber, ayahNumber int) []domain.Word {
	words := []domain.Word{}
	for _, w := range s.words.AyahWords(surahNumber, ayahNumber) {
		if !w.IsAyahMarker {
			words = append(words, w)
		}
	}
	return words
}

// AyahText joins the Uthmani text of the words of an ayah
func (s *LayoutService) AyahText(surahNumber, ayahNumber int) (string, bool) {
	words := s.AyahWords(surahNumber, ayahNumber)
	if len(words) == 0 {
		return "", false
	}

	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Uthmani
	}
	return strings.Join(parts, " "), true
}

// PageCount returns the number of pages in the layout
func (s *LayoutService) PageCount() int {
	return len(s.layout.Pages())
}
