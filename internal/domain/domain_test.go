package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundaryTables(t *testing.T) {
	juz := JuzBoundaries()
	hizb := HizbBoundaries()

	require.Len(t, juz, 30)
	require.Len(t, hizb, 60)

	for i, b := range juz {
		assert.Equal(t, i+1, b.Index)
		// every juz opens on an odd hizb
		h := hizb[2*i]
		assert.Equal(t, b.Surah, h.Surah, "juz %d", b.Index)
		assert.Equal(t, b.Ayah, h.Ayah, "juz %d", b.Index)
	}

	for i := 1; i < len(hizb); i++ {
		prev, cur := hizb[i-1], hizb[i]
		assert.True(t, cur.Surah > prev.Surah || (cur.Surah == prev.Surah && cur.Ayah > prev.Ayah),
			"hizb %d does not follow hizb %d", cur.Index, prev.Index)
	}
}

func TestBoundaryTablesReturnCopies(t *testing.T) {
	juz := JuzBoundaries()
	juz[0].Surah = 99

	assert.Equal(t, 1, JuzBoundaries()[0].Surah)
}

func TestGetAllSurahs(t *testing.T) {
	surahs := GetAllSurahs()
	require.Len(t, surahs, TotalSurahs)

	total := 0
	for i, s := range surahs {
		assert.Equal(t, i+1, s.Number)
		total += s.Ayahs
	}
	assert.Equal(t, 6236, total)

	s, ok := GetSurah(2)
	require.True(t, ok)
	assert.Equal(t, 286, s.Ayahs)

	_, ok = GetSurah(115)
	assert.False(t, ok)
	_, ok = GetSurah(0)
	assert.False(t, ok)
}

func TestReciterAyahAudioURL(t *testing.T) {
	r := Reciter{AudioURL: "https://audio.example/alafasy", ReaderType: ReaderAyah}

	assert.Equal(t, "https://audio.example/alafasy/002255.mp3", r.AyahAudioURL(2, 255))
	assert.False(t, r.UsesSegments())

	r.ReaderType = ReaderSurah
	assert.False(t, r.UsesSegments(), "surah readers need a folder")
	r.ReaderFolder = "alafasy"
	assert.True(t, r.UsesSegments())
}

func TestLayoutLineHasRange(t *testing.T) {
	start, end := 1, 5

	assert.True(t, LayoutLine{RangeStart: &start, RangeEnd: &end}.HasRange())
	assert.False(t, LayoutLine{RangeStart: &start}.HasRange())
	assert.False(t, LayoutLine{}.HasRange())
}

func TestMemorizationStatusValid(t *testing.T) {
	for _, s := range []MemorizationStatus{StatusNew, StatusLearning, StatusMemorized, StatusMastered} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, MemorizationStatus("forgotten").Valid())
}

func TestAyahKey(t *testing.T) {
	assert.Equal(t, "2:255", AyahKey(2, 255))
	assert.Equal(t, "1:7", Ayah{SurahNumber: 1, AyahNumber: 7}.Key())
}
