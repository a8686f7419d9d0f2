package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidSurah = errors.New("invalid surah number")
)

// WordStore translates between the global word index, surah/ayah numbering
// and the page layout. Implementations are read-only after construction.
type WordStore interface {
	// RangeLookup returns the words with start <= GlobalIndex <= end ordered by GlobalIndex
	RangeLookup(start, end int) []Word

	// AyahStartAtOrBefore finds the last ayah start with WordIndex <= index
	AyahStartAtOrBefore(index int) (AyahStart, bool)

	// AyahStartAtOrAfter finds the first ayah start with WordIndex >= index
	AyahStartAtOrAfter(index int) (AyahStart, bool)

	// WordIndexForAyahStart resolves the global index of word 1 of an ayah
	WordIndexForAyahStart(surahNumber, ayahNumber int) (int, bool)

	// PageContaining returns the page of the ayah line whose range holds index
	PageContaining(index int) (int, bool)

	// MaxWordIndex returns the highest global index, 0 for an empty store
	MaxWordIndex() int

	// SurahBounds returns the lowest and highest global index of a surah
	SurahBounds(surahNumber int) (min, max int, ok bool)

	// AyahWords returns all words of an ayah, marker included
	AyahWords(surahNumber, ayahNumber int) []Word
}

// LayoutStore exposes the page layout table
type LayoutStore interface {
	// Lines returns the rows of a page ordered by line
	Lines(page int) []LayoutLine

	// Pages returns every distinct page in ascending order
	Pages() []int

	// PagesOverlapping returns the pages having an ayah line whose range
	// overlaps [start, end], ascending
	PagesOverlapping(start, end int) []int
}

// ProgressStore persists memorization progress records
type ProgressStore interface {
	// Get returns the record for a surah, or nil when none exists
	Get(ctx context.Context, surahNumber int) (*MemorizationProgress, error)

	// Save creates or replaces the record for p.SurahNumber
	Save(ctx context.Context, p *MemorizationProgress) error

	// List returns all records ordered by surah number
	List(ctx context.Context) ([]MemorizationProgress, error)
}

// TimingSource provides word timings for a reciter
type TimingSource interface {
	AyahTimings(ctx context.Context, reciter Reciter, surahNumber, ayahNumber int) (*AyahTiming, error)
	SurahTimings(ctx context.Context, reciter Reciter, surahNumber int) ([]AyahTiming, error)
}

// SurahAudio resolves the full-surah track of a reciter
type SurahAudio interface {
	SurahAudioURL(ctx context.Context, reciter Reciter, surahNumber int) (string, error)
}

// PlaybackClock is the audio position seen by the synchronizer
type PlaybackClock interface {
	Position() time.Duration
	Paused() bool
}

// I18nPort defines the interface for internationalization
type I18nPort interface {
	// Get retrieves a translated message
	Get(lang Language, key string, args ...interface{}) string

	// GetSurahName retrieves the localized name of a Surah
	GetSurahName(lang Language, surahNumber int) string
}
