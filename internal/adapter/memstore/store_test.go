package memstore_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-mushaf/internal/adapter/memstore"
	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/testutil"
)

// Surah 1: ayah 1 = words 1-4, ayah 2 = words 5-7. Surah 2: ayah 1 = words 8-10.
//
//	page 1: l1 surah_name(1)  l2 ayah 1-3  l3 ayah 4-6
//	page 2: l1 ayah 7-7       l2 surah_name(2)  l3 basmalah
//	page 3: l1 ayah 8-10
func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	return testutil.Store(3, 3,
		testutil.SurahSpec{Number: 1, Ayahs: []int{3, 2}},
		testutil.SurahSpec{Number: 2, Ayahs: []int{2}},
	)
}

func globalIndices(words []domain.Word) []int {
	out := make([]int, len(words))
	for i, w := range words {
		out[i] = w.GlobalIndex
	}
	return out
}

func TestRangeLookup(t *testing.T) {
	s := newStore(t)

	assert.Equal(t, []int{2, 3, 4, 5}, globalIndices(s.RangeLookup(2, 5)))
	assert.Equal(t, []int{10}, globalIndices(s.RangeLookup(10, 40)))
	assert.Empty(t, s.RangeLookup(5, 2))
	assert.Empty(t, s.RangeLookup(11, 20))
}

func TestAyahStartSearch(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name   string
		search func(int) (domain.AyahStart, bool)
		index  int
		want   domain.AyahStart
		found  bool
	}{
		{"before inside ayah", s.AyahStartAtOrBefore, 6, domain.AyahStart{SurahNumber: 1, AyahNumber: 2, WordIndex: 5}, true},
		{"before exact", s.AyahStartAtOrBefore, 8, domain.AyahStart{SurahNumber: 2, AyahNumber: 1, WordIndex: 8}, true},
		{"before corpus", s.AyahStartAtOrBefore, 0, domain.AyahStart{}, false},
		{"after inside ayah", s.AyahStartAtOrAfter, 6, domain.AyahStart{SurahNumber: 2, AyahNumber: 1, WordIndex: 8}, true},
		{"after exact", s.AyahStartAtOrAfter, 1, domain.AyahStart{SurahNumber: 1, AyahNumber: 1, WordIndex: 1}, true},
		{"after corpus", s.AyahStartAtOrAfter, 9, domain.AyahStart{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.search(tt.index)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWordIndexForAyahStart(t *testing.T) {
	s := newStore(t)

	idx, ok := s.WordIndexForAyahStart(1, 2)
	require.True(t, ok)
	assert.Equal(t, 5, idx)

	_, ok = s.WordIndexForAyahStart(3, 1)
	assert.False(t, ok)
}

func TestPageContaining(t *testing.T) {
	s := newStore(t)

	for index, want := range map[int]int{1: 1, 4: 1, 6: 1, 7: 2, 8: 3, 10: 3} {
		page, ok := s.PageContaining(index)
		assert.True(t, ok, "index %d", index)
		assert.Equal(t, want, page, "index %d", index)
	}

	_, ok := s.PageContaining(0)
	assert.False(t, ok)
	_, ok = s.PageContaining(11)
	assert.False(t, ok)
}

func TestBounds(t *testing.T) {
	s := newStore(t)

	assert.Equal(t, 10, s.MaxWordIndex())
	assert.Equal(t, 10, s.Len())

	lo, hi, ok := s.SurahBounds(1)
	require.True(t, ok)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 7, hi)

	lo, hi, ok = s.SurahBounds(2)
	require.True(t, ok)
	assert.Equal(t, 8, lo)
	assert.Equal(t, 10, hi)

	_, _, ok = s.SurahBounds(3)
	assert.False(t, ok)

	empty := memstore.New(nil, nil)
	assert.Equal(t, 0, empty.MaxWordIndex())
	assert.Empty(t, empty.Pages())
}

func TestAyahWords(t *testing.T) {
	s := newStore(t)

	words := s.AyahWords(1, 2)
	require.Len(t, words, 3)
	assert.Equal(t, []int{5, 6, 7}, globalIndices(words))
	assert.True(t, words[2].IsAyahMarker)
	assert.Nil(t, s.AyahWords(1, 3))
}

func TestLayoutQueries(t *testing.T) {
	s := newStore(t)

	assert.Equal(t, []int{1, 2, 3}, s.Pages())

	lines := s.Lines(2)
	require.Len(t, lines, 3)
	assert.Equal(t, domain.LineAyah, lines[0].Type)
	assert.Equal(t, domain.LineSurahName, lines[1].Type)
	assert.Equal(t, 2, *lines[1].RangeStart)
	assert.Equal(t, domain.LineBasmalah, lines[2].Type)
	assert.Empty(t, s.Lines(9))

	assert.Equal(t, []int{1, 2}, s.PagesOverlapping(1, 7))
	assert.Equal(t, []int{3}, s.PagesOverlapping(8, 10))
	assert.Equal(t, []int{1, 2, 3}, s.PagesOverlapping(6, 8))
	assert.Empty(t, s.PagesOverlapping(11, 12))
}

func TestNewIgnoresInputOrder(t *testing.T) {
	words := testutil.Words(testutil.Uniform(1, 3, 4, 5)...)
	lines := testutil.Layout(words, 4, 5)
	ordered := memstore.New(words, lines)

	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	rng.Shuffle(len(lines), func(i, j int) { lines[i], lines[j] = lines[j], lines[i] })
	shuffled := memstore.New(words, lines)

	assert.Equal(t, ordered.Pages(), shuffled.Pages())
	for _, page := range ordered.Pages() {
		assert.Equal(t, ordered.Lines(page), shuffled.Lines(page))
	}
	assert.Equal(t, ordered.RangeLookup(1, ordered.MaxWordIndex()), shuffled.RangeLookup(1, shuffled.MaxWordIndex()))
}
