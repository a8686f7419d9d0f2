package domain

import (
	"fmt"
	"time"
)

// Surah represents a chapter in the Quran
type Surah struct {
	Number int
	Ayahs  int
}

// Ayah represents a verse in the Quran
type Ayah struct {
	SurahNumber int
	AyahNumber  int
	Text        string
}

// Key returns the "surah:ayah" key used by reader segment files.
func (a Ayah) Key() string {
	return AyahKey(a.SurahNumber, a.AyahNumber)
}

func AyahKey(surahNumber, ayahNumber int) string {
	return fmt.Sprintf("%d:%d", surahNumber, ayahNumber)
}

// Word is a single entry of the word table. GlobalIndex is the coordinate all
// derived indices resolve through.
type Word struct {
	SurahNumber  int
	AyahNumber   int
	WordNumber   int
	GlobalIndex  int
	Text         string
	Uthmani      string
	IsAyahMarker bool
}

// IsAyahStart reports whether the word opens its ayah.
func (w Word) IsAyahStart() bool {
	return w.WordNumber == 1
}

// AyahStart is the resolved start position of an ayah.
type AyahStart struct {
	SurahNumber int
	AyahNumber  int
	WordIndex   int
}

type LineType string

const (
	LineAyah      LineType = "ayah"
	LineSurahName LineType = "surah_name"
	LineBasmalah  LineType = "basmalah"
	LineSajdah    LineType = "sajdah"
	LineJuz       LineType = "juz"
	LineHizb      LineType = "hizb"
)

// LayoutLine is one row of the page layout table. For surah_name rows
// RangeStart holds the surah number.
type LayoutLine struct {
	Page       int
	Line       int
	Type       LineType
	IsCentered bool
	RangeStart *int
	RangeEnd   *int
}

// HasRange reports whether both range bounds are present.
func (l LayoutLine) HasRange() bool {
	return l.RangeStart != nil && l.RangeEnd != nil
}

// MushafLine is a layout line resolved against the word store.
type MushafLine struct {
	LayoutLine
	Words          []Word
	SurahReference int
}

// MushafPage is a renderable page.
type MushafPage struct {
	PageNumber int
	Lines      []MushafLine
}

type ReferenceType string

const (
	ReferencePage ReferenceType = "page"
	ReferenceJuz  ReferenceType = "juz"
	ReferenceHizb ReferenceType = "hizb"
	ReferenceRub  ReferenceType = "rub"
)

// ReferencePoint marks where a page, juz, hizb or rub starts.
// Page is 0 when the word index is not covered by any layout line.
type ReferencePoint struct {
	Type        ReferenceType `json:"type"`
	Index       int           `json:"index"`
	Page        int           `json:"page"`
	SurahNumber int           `json:"surah_number"`
	AyahNumber  int           `json:"ayah_number"`
	WordIndex   int           `json:"word_index"`
}

// ReferenceIndex holds the navigation lists, each ordered by word index.
type ReferenceIndex struct {
	Pages []ReferencePoint `json:"pages"`
	Juz   []ReferencePoint `json:"juz"`
	Hizb  []ReferencePoint `json:"hizb"`
	Rub   []ReferencePoint `json:"rub"`
}

// WordTiming is the spoken interval of one word in an audio track.
type WordTiming struct {
	WordNumber int
	Start      time.Duration
	End        time.Duration
}

// AyahTiming groups the word timings of one ayah for one reciter.
// TimestampFrom is the ayah offset inside a full-surah track.
type AyahTiming struct {
	Reciter       int
	SurahNumber   int
	AyahNumber    int
	Timings       []WordTiming
	TimestampFrom time.Duration
}

type ReaderType string

const (
	ReaderAyah  ReaderType = "ayah"
	ReaderSurah ReaderType = "surah"
)

// Reciter describes an audio source
type Reciter struct {
	ID           int        `json:"id" yaml:"id"`
	Name         string     `json:"name" yaml:"name"`
	ArabicName   string     `json:"arabicName" yaml:"arabic_name"`
	Style        string     `json:"style" yaml:"style"`
	Country      string     `json:"country" yaml:"country"`
	AudioURL     string     `json:"audioUrl" yaml:"audio_url"`
	ReaderFolder string     `json:"readerFolder,omitempty" yaml:"reader_folder"`
	ReaderType   ReaderType `json:"readerType" yaml:"reader_type"`
}

// UsesSegments reports whether the reciter is served as full-surah tracks
// with a segments file.
func (r Reciter) UsesSegments() bool {
	return r.ReaderType == ReaderSurah && r.ReaderFolder != ""
}

// AyahAudioURL returns the per-ayah audio URL (SSSAAA.mp3).
func (r Reciter) AyahAudioURL(surahNumber, ayahNumber int) string {
	return fmt.Sprintf("%s/%03d%03d.mp3", r.AudioURL, surahNumber, ayahNumber)
}

type MemorizationStatus string

const (
	StatusNew       MemorizationStatus = "new"
	StatusLearning  MemorizationStatus = "learning"
	StatusMemorized MemorizationStatus = "memorized"
	StatusMastered  MemorizationStatus = "mastered"
)

// Valid reports whether s is one of the known statuses.
func (s MemorizationStatus) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusMemorized, StatusMastered:
		return true
	}
	return false
}

// MemorizationProgress is the per-surah memorization record. NextReviewDate
// is derived and may be absent.
type MemorizationProgress struct {
	ID             string             `json:"id"`
	SurahNumber    int                `json:"surah_number"`
	Status         MemorizationStatus `json:"status"`
	StartDate      *time.Time         `json:"start_date,omitempty"`
	LastReviewDate *time.Time         `json:"last_review_date,omitempty"`
	LastStudyDate  *time.Time         `json:"last_study_date,omitempty"`
	NextReviewDate *time.Time         `json:"next_review_date,omitempty"`
	ReviewCount    int                `json:"review_count"`
	MasteryScore   float64            `json:"mastery_score"`
	Notes          string             `json:"notes,omitempty"`
	Difficulties   []int              `json:"difficulties"`
	TotalStudyTime time.Duration      `json:"total_study_time"`
	TestResults    []TestResult       `json:"test_results"`
}

// TestResult is the outcome of one recitation test
type TestResult struct {
	ID         string        `json:"id"`
	Date       time.Time     `json:"date"`
	AyahNumber int           `json:"ayah_number"`
	Passed     bool          `json:"passed"`
	Accuracy   float64       `json:"accuracy"`
	Mistakes   []int         `json:"mistakes"`
	TimeSpent  time.Duration `json:"time_spent"`
}

// MemorizationStats summarises all progress records
type MemorizationStats struct {
	TotalSurahs     int
	MemorizedSurahs int
	LearningSurahs  int
	MasteredSurahs  int
	TotalProgress   int // percent
	TotalStudyTime  time.Duration
	CurrentStreak   int // days
	LongestStreak   int
	LastStudyDate   *time.Time
	TotalTests      int
	AverageAccuracy int
}

type RecitationErrorType string

const (
	RecitationMissing RecitationErrorType = "missing"
	RecitationWrong   RecitationErrorType = "wrong"
	RecitationExtra   RecitationErrorType = "extra"
)

// RecitationError is a word-level mismatch between the reference ayah and
// the recited transcript.
type RecitationError struct {
	WordNumber int
	Expected   string
	Received   string
	Type       RecitationErrorType
}

// RecitationResult represents the analysis result of a recitation
type RecitationResult struct {
	Success     bool
	Accuracy    float64
	Errors      []RecitationError
	Suggestions []string
}

// Language represents supported languages
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)
