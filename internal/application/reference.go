package application

import (
	"sort"
	"time"

	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/logger"
)

// rubFractions are the quarter points tried inside every hizb
var rubFractions = [4]float64{0, 0.25, 0.5, 0.75}

// ReferenceBuilder computes the page, juz, hizb and rub navigation lists
type ReferenceBuilder struct {
	words  domain.WordStore
	layout domain.LayoutStore
	juz    []domain.Boundary
	hizb   []domain.Boundary
	log    *logger.Logger
}

func NewReferenceBuilder(words domain.WordStore, layout domain.LayoutStore, log *logger.Logger) *ReferenceBuilder {
	return &ReferenceBuilder{
		words:  words,
		layout: layout,
		juz:    domain.JuzBoundaries(),
		hizb:   domain.HizbBoundaries(),
		log:    log,
	}
}

// WithBoundaries replaces the juz and hizb tables
func (b *ReferenceBuilder) WithBoundaries(juz, hizb []domain.Boundary) *ReferenceBuilder {
	b.juz = juz
	b.hizb = hizb
	return b
}

// Build computes the full index. Anything that cannot be resolved is left out.
func (b *ReferenceBuilder) Build() domain.ReferenceIndex {
	started := time.Now()

	hizb := b.boundaryReferences(b.hizb, domain.ReferenceHizb)
	index := domain.ReferenceIndex{
		Pages: b.pageReferences(),
		Juz:   b.boundaryReferences(b.juz, domain.ReferenceJuz),
		Hizb:  hizb,
		Rub:   b.rubReferences(hizb),
	}

	b.log.Debug("reference index built",
		"pages", len(index.Pages),
		"juz", len(index.Juz),
		"hizb", len(index.Hizb),
		"rub", len(index.Rub),
		"took", time.Since(started),
	)
	return index
}

func (b *ReferenceBuilder) pageReferences() []domain.ReferencePoint {
	refs := []domain.ReferencePoint{}

	for _, page := range b.layout.Pages() {
		start, ok := pageStart(b.layout.Lines(page))
		if !ok {
			continue
		}

		ayah, ok := b.words.AyahStartAtOrBefore(start)
		if !ok {
			ayah, ok = b.words.AyahStartAtOrAfter(start)
		}
		if !ok {
			continue
		}

		refs = append(refs, domain.ReferencePoint{
			Type:        domain.ReferencePage,
			Index:       page,
			Page:        page,
			SurahNumber: ayah.SurahNumber,
			AyahNumber:  ayah.AyahNumber,
			WordIndex:   ayah.WordIndex,
		})
	}
	return refs
}

// pageStart returns the lowest range start among the ayah lines of a page
func pageStart(lines []domain.LayoutLine) (int, bool) {
	start, found := 0, false
	for _, l := range lines {
		if l.Type != domain.LineAyah || l.RangeStart == nil {
			continue
		}
		if !found || *l.RangeStart < start {
			start, found = *l.RangeStart, true
		}
	}
	return start, found
}

func (b *ReferenceBuilder) boundaryReferences(boundaries []domain.Boundary, t domain.ReferenceType) []domain.ReferencePoint {
	refs := make([]domain.ReferencePoint, 0, len(boundaries))

	for _, boundary := range boundaries {
		wordIndex, ok := b.words.WordIndexForAyahStart(boundary.Surah, boundary.Ayah)
		if !ok {
			b.log.Debug("boundary not resolved", "type", t, "index", boundary.Index,
				"surah", boundary.Surah, "ayah", boundary.Ayah)
			continue
		}

		page, _ := b.words.PageContaining(wordIndex)
		refs = append(refs, domain.ReferencePoint{
			Type:        t,
			Index:       boundary.Index,
			Page:        page,
			SurahNumber: boundary.Surah,
			AyahNumber:  boundary.Ayah,
			WordIndex:   wordIndex,
		})
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].WordIndex < refs[j].WordIndex })
	return refs
}

// rubReferences interpolates the quarter points between consecutive hizb
// starts. The last hizb runs to the end of the corpus.
func (b *ReferenceBuilder) rubReferences(hizb []domain.ReferencePoint) []domain.ReferencePoint {
	refs := []domain.ReferencePoint{}
	if len(hizb) == 0 {
		return refs
	}

	maxWord := b.words.MaxWordIndex()
	seen := make(map[int]struct{})

	for i, current := range hizb {
		end := maxWord + 1
		if i+1 < len(hizb) {
			end = hizb[i+1].WordIndex
		}
		length := max(end-current.WordIndex, 1)

		for _, fraction := range rubFractions {
			target := current.WordIndex + int(float64(length)*fraction)
			target = min(max(target, current.WordIndex), end-1)

			ayah, ok := b.words.AyahStartAtOrAfter(target)
			// an ayah start at the next hizb belongs to that hizb
			if !ok || ayah.WordIndex >= end {
				continue
			}
			if _, dup := seen[ayah.WordIndex]; dup {
				continue
			}
			seen[ayah.WordIndex] = struct{}{}

			page, ok := b.words.PageContaining(ayah.WordIndex)
			if !ok {
				page = current.Page
			}
			refs = append(refs, domain.ReferencePoint{
				Type:        domain.ReferenceRub,
				Page:        page,
				SurahNumber: ayah.SurahNumber,
				AyahNumber:  ayah.AyahNumber,
				WordIndex:   ayah.WordIndex,
			})
		}
	}

	sort.SliceStable(refs, func(i, j int) bool { return refs[i].WordIndex < refs[j].WordIndex })
	for i := range refs {
		refs[i].Index = i + 1
	}
	return refs
}
