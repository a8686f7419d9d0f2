package application

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/logger"
)

// passAccuracy is the accuracy from which a test counts as passed
const passAccuracy = 80

// TestInput is a finished memorization test
type TestInput struct {
	AyahNumber int
	Passed     bool
	Accuracy   float64
	Mistakes   []int
	TimeSpent  time.Duration
}

// MemorizationService handles the per-surah memorization records
type MemorizationService struct {
	store     domain.ProgressStore
	layout    *LayoutService
	scheduler Scheduler
	log       *logger.Logger
	now       func() time.Time
}

func NewMemorizationService(store domain.ProgressStore, layout *LayoutService, log *logger.Logger) *MemorizationService {
	return &MemorizationService{
		store:  store,
		layout: layout,
		log:    log,
		now:    time.Now,
	}
}

// Progress returns the record of a surah, or nil if it was never studied
func (s *MemorizationService) Progress(ctx context.Context, surahNumber int) (*domain.MemorizationProgress, error) {
	if !domain.ValidSurah(surahNumber) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidSurah, surahNumber)
	}
	p, err := s.store.Get(ctx, surahNumber)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return p, nil
}

// List returns all records ordered by surah
func (s *MemorizationService) List(ctx context.Context) ([]domain.MemorizationProgress, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return items, nil
}

// load returns the record of a surah, creating an unsaved one when missing
func (s *MemorizationService) load(ctx context.Context, surahNumber int) (*domain.MemorizationProgress, error) {
	p, err := s.Progress(ctx, surahNumber)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	return newProgress(surahNumber), nil
}

func newProgress(surahNumber int) *domain.MemorizationProgress {
	return &domain.MemorizationProgress{
		ID:           uuid.NewString(),
		SurahNumber:  surahNumber,
		Status:       domain.StatusNew,
		Difficulties: []int{},
		TestResults:  []domain.TestResult{},
	}
}

func (s *MemorizationService) save(ctx context.Context, p *domain.MemorizationProgress) error {
	if err := s.store.Save(ctx, p); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// SetStatus moves a surah to any status. Going back to new clears the start
// date and the mastery score.
func (s *MemorizationService) SetStatus(ctx context.Context, surahNumber int, status domain.MemorizationStatus) (*domain.MemorizationProgress, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status: %q", status)
	}
	p, err := s.load(ctx, surahNumber)
	if err != nil {
		return nil, err
	}

	s.applyStatus(p, status)
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *MemorizationService) applyStatus(p *domain.MemorizationProgress, status domain.MemorizationStatus) {
	now := s.now()
	p.Status = status
	p.LastStudyDate = &now

	switch status {
	case domain.StatusNew:
		p.StartDate = nil
		p.MasteryScore = 0
	case domain.StatusLearning:
		if p.StartDate == nil {
			p.StartDate = &now
		}
	}
}

// AddTestResult records a test, recomputes the mastery score as the mean
// accuracy of all tests and schedules the next review. A failed test moves a
// stored new record to learning; a first test without a record keeps it new.
func (s *MemorizationService) AddTestResult(ctx context.Context, surahNumber int, in TestInput) (*domain.MemorizationProgress, error) {
	existing, err := s.Progress(ctx, surahNumber)
	if err != nil {
		return nil, err
	}
	p := existing
	if p == nil {
		p = newProgress(surahNumber)
	}

	now := s.now()
	p.TestResults = append(p.TestResults, domain.TestResult{
		ID:         uuid.NewString(),
		Date:       now,
		AyahNumber: in.AyahNumber,
		Passed:     in.Passed,
		Accuracy:   in.Accuracy,
		Mistakes:   slices.Clone(in.Mistakes),
		TimeSpent:  in.TimeSpent,
	})
	p.LastReviewDate = &now
	previousReviews := p.ReviewCount
	p.ReviewCount++

	total := 0.0
	for _, r := range p.TestResults {
		total += r.Accuracy
	}
	p.MasteryScore = math.Min(100, math.Round(total/float64(len(p.TestResults))))

	switch {
	case in.Passed && in.Accuracy >= 95:
		s.applyStatus(p, domain.StatusMastered)
	case in.Passed && in.Accuracy >= 80:
		s.applyStatus(p, domain.StatusMemorized)
	case existing != nil && p.Status == domain.StatusNew:
		s.applyStatus(p, domain.StatusLearning)
	}

	next := NextReviewDate(now, p.MasteryScore, previousReviews)
	p.NextReviewDate = &next

	if err := s.save(ctx, p); err != nil {
		return nil, err
	}

	s.log.Debug("test recorded",
		"surah", surahNumber,
		"accuracy", in.Accuracy,
		"mastery", p.MasteryScore,
		"status", p.Status,
		"next_review", next,
	)
	return p, nil
}

// TestRecitation compares a transcript with the text of an ayah and records
// the outcome as a test. A failed ayah is marked as a difficulty.
func (s *MemorizationService) TestRecitation(ctx context.Context, surahNumber, ayahNumber int, transcript string, spent time.Duration) (domain.RecitationResult, *domain.MemorizationProgress, error) {
	text, ok := s.layout.AyahText(surahNumber, ayahNumber)
	if !ok {
		return domain.RecitationResult{}, nil, fmt.Errorf("ayah %s: %w", domain.AyahKey(surahNumber, ayahNumber), domain.ErrNotFound)
	}

	result := CompareRecitation(text, transcript)
	in := TestInput{
		AyahNumber: ayahNumber,
		Passed:     result.Accuracy >= passAccuracy,
		Accuracy:   result.Accuracy,
		TimeSpent:  spent,
	}
	if !in.Passed {
		in.Mistakes = []int{ayahNumber}
	}

	p, err := s.AddTestResult(ctx, surahNumber, in)
	if err != nil {
		return result, nil, err
	}
	if !in.Passed {
		if p, err = s.AddDifficulty(ctx, surahNumber, ayahNumber); err != nil {
			return result, nil, err
		}
	}
	return result, p, nil
}

// AddDifficulty marks an ayah as difficult. It is a no-op for surahs
// without a record.
func (s *MemorizationService) AddDifficulty(ctx context.Context, surahNumber, ayahNumber int) (*domain.MemorizationProgress, error) {
	return s.updateExisting(ctx, surahNumber, func(p *domain.MemorizationProgress) bool {
		if slices.Contains(p.Difficulties, ayahNumber) {
			return false
		}
		p.Difficulties = append(p.Difficulties, ayahNumber)
		return true
	})
}

// RemoveDifficulty unmarks an ayah
func (s *MemorizationService) RemoveDifficulty(ctx context.Context, surahNumber, ayahNumber int) (*domain.MemorizationProgress, error) {
	return s.updateExisting(ctx, surahNumber, func(p *domain.MemorizationProgress) bool {
		i := slices.Index(p.Difficulties, ayahNumber)
		if i < 0 {
			return false
		}
		p.Difficulties = slices.Delete(p.Difficulties, i, i+1)
		return true
	})
}

func (s *MemorizationService) updateExisting(ctx context.Context, surahNumber int, update func(*domain.MemorizationProgress) bool) (*domain.MemorizationProgress, error) {
	p, err := s.Progress(ctx, surahNumber)
	if err != nil || p == nil {
		return p, err
	}
	if !update(p) {
		return p, nil
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddStudyTime adds to the total study time of a surah
func (s *MemorizationService) AddStudyTime(ctx context.Context, surahNumber int, d time.Duration) (*domain.MemorizationProgress, error) {
	p, err := s.load(ctx, surahNumber)
	if err != nil {
		return nil, err
	}
	now := s.now()
	p.TotalStudyTime += d
	p.LastStudyDate = &now
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *MemorizationService) UpdateNotes(ctx context.Context, surahNumber int, notes string) (*domain.MemorizationProgress, error) {
	p, err := s.load(ctx, surahNumber)
	if err != nil {
		return nil, err
	}
	p.Notes = notes
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DueReviews lists the surahs to review within the next day
func (s *MemorizationService) DueReviews(ctx context.Context) ([]domain.MemorizationProgress, ReviewStats, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, ReviewStats{}, err
	}
	now := s.now()
	return s.scheduler.DueReviews(items, now), s.scheduler.Stats(items, now), nil
}

// Stats summarises all records
func (s *MemorizationService) Stats(ctx context.Context) (domain.MemorizationStats, error) {
	items, err := s.List(ctx)
	if err != nil {
		return domain.MemorizationStats{}, err
	}
	return ComputeStats(items, s.now()), nil
}

// ComputeStats aggregates progress records. Streaks count calendar days with
// at least one study session, in the location of now.
func ComputeStats(items []domain.MemorizationProgress, now time.Time) domain.MemorizationStats {
	stats := domain.MemorizationStats{TotalSurahs: domain.TotalSurahs}

	var accuracy float64
	days := map[time.Time]struct{}{}
	for _, p := range items {
		switch p.Status {
		case domain.StatusLearning:
			stats.LearningSurahs++
		case domain.StatusMemorized:
			stats.MemorizedSurahs++
		case domain.StatusMastered:
			stats.MasteredSurahs++
		}
		stats.TotalStudyTime += p.TotalStudyTime
		for _, r := range p.TestResults {
			stats.TotalTests++
			accuracy += r.Accuracy
		}
		if p.LastStudyDate != nil {
			days[truncateDay(*p.LastStudyDate, now.Location())] = struct{}{}
		}
	}

	stats.TotalProgress = int(math.Round(float64(stats.MemorizedSurahs+stats.MasteredSurahs) / domain.TotalSurahs * 100))
	if stats.TotalTests > 0 {
		stats.AverageAccuracy = int(math.Round(accuracy / float64(stats.TotalTests)))
	}
	if len(days) == 0 {
		return stats
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	last := sorted[0]
	stats.LastStudyDate = &last

	for d := truncateDay(now, now.Location()); ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[d]; !ok {
			break
		}
		stats.CurrentStreak++
	}

	run := 1
	stats.LongestStreak = 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].AddDate(0, 0, 1).Equal(sorted[i-1]) {
			run++
		} else {
			run = 1
		}
		stats.LongestStreak = max(stats.LongestStreak, run)
	}
	stats.LongestStreak = max(stats.LongestStreak, stats.CurrentStreak)
	return stats
}

func truncateDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
