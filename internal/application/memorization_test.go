package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-mushaf/internal/adapter/memstore"
	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/logger"
)

var testNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func newMemorization(t *testing.T) (*MemorizationService, *fakeNow) {
	t.Helper()
	store := smallStore()
	clock := &fakeNow{t: testNow}
	svc := NewMemorizationService(memstore.NewProgressStore(), NewLayoutService(store, store), logger.Nop())
	svc.now = clock.now
	return svc, clock
}

func TestMemorizationProgress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemorization(t)

	_, err := svc.Progress(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidSurah)
	_, err = svc.Progress(ctx, 115)
	assert.ErrorIs(t, err, domain.ErrInvalidSurah)

	p, err := svc.Progress(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMemorizationSetStatus(t *testing.T) {
	ctx := context.Background()
	svc, clock := newMemorization(t)

	p, err := svc.SetStatus(ctx, 2, domain.StatusLearning)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	require.NotNil(t, p.StartDate)
	assert.Equal(t, testNow, *p.StartDate)

	clock.advance(day)
	p, err = svc.SetStatus(ctx, 2, domain.StatusLearning)
	require.NoError(t, err)
	assert.Equal(t, testNow, *p.StartDate)
	assert.Equal(t, testNow.Add(day), *p.LastStudyDate)

	p, err = svc.SetStatus(ctx, 2, domain.StatusMastered)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMastered, p.Status)

	p, err = svc.SetStatus(ctx, 2, domain.StatusNew)
	require.NoError(t, err)
	assert.Nil(t, p.StartDate)
	assert.Zero(t, p.MasteryScore)

	_, err = svc.SetStatus(ctx, 2, domain.MemorizationStatus("forgotten"))
	assert.Error(t, err)

	stored, err := svc.Progress(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, stored.Status)
}

func TestMemorizationAddTestResult(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemorization(t)

	p, err := svc.AddTestResult(ctx, 3, TestInput{AyahNumber: 1, Passed: false, Accuracy: 40, Mistakes: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, p.Status)
	assert.Nil(t, p.StartDate)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, 40.0, p.MasteryScore)
	assert.Equal(t, testNow.Add(day), *p.NextReviewDate)

	p, err = svc.AddTestResult(ctx, 3, TestInput{AyahNumber: 2, Passed: true, Accuracy: 100})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMastered, p.Status)
	assert.Equal(t, 70.0, p.MasteryScore)
	assert.Equal(t, 2, p.ReviewCount)
	assert.WithinDuration(t, testNow.Add(time.Duration(7*1.5*float64(day))), *p.NextReviewDate, time.Second)

	p, err = svc.AddTestResult(ctx, 3, TestInput{AyahNumber: 2, Passed: true, Accuracy: 85})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMemorized, p.Status)
	assert.Equal(t, 75.0, p.MasteryScore)
	require.Len(t, p.TestResults, 3)
	assert.Equal(t, testNow, p.TestResults[0].Date)
	assert.NotEqual(t, p.TestResults[0].ID, p.TestResults[1].ID)
	assert.Equal(t, []int{1}, p.TestResults[0].Mistakes)
}

func TestMemorizationFailedTestStartsLearning(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemorization(t)

	_, err := svc.SetStatus(ctx, 5, domain.StatusNew)
	require.NoError(t, err)

	p, err := svc.AddTestResult(ctx, 5, TestInput{AyahNumber: 1, Passed: false, Accuracy: 30})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLearning, p.Status)
	assert.NotNil(t, p.StartDate)

	p, err = svc.AddTestResult(ctx, 5, TestInput{AyahNumber: 1, Passed: false, Accuracy: 50})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusLearning, p.Status)
}

func TestMemorizationTestRecitation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemorization(t)

	result, p, err := svc.TestRecitation(ctx, 1, 1, "w1:1:1 w1:1:2 w1:1:3", time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.StatusMastered, p.Status)
	assert.Empty(t, p.Difficulties)

	result, p, err = svc.TestRecitation(ctx, 1, 2, "w1:2:1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.Accuracy)
	assert.Equal(t, []int{2}, p.Difficulties)
	last := p.TestResults[len(p.TestResults)-1]
	assert.False(t, last.Passed)
	assert.Equal(t, []int{2}, last.Mistakes)
	assert.Equal(t, time.Minute, last.TimeSpent)

	_, _, err = svc.TestRecitation(ctx, 1, 9, "", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemorizationDifficulties(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemorization(t)

	p, err := svc.AddDifficulty(ctx, 4, 3)
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = svc.SetStatus(ctx, 4, domain.StatusLearning)
	require.NoError(t, err)

	_, err = svc.AddDifficulty(ctx, 4, 3)
	require.NoError(t, err)
	_, err = svc.AddDifficulty(ctx, 4, 5)
	require.NoError(t, err)
	p, err = svc.AddDifficulty(ctx, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, p.Difficulties)

	p, err = svc.RemoveDifficulty(ctx, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, p.Difficulties)
}

func TestMemorizationStudyTimeAndNotes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newMemorization(t)

	_, err := svc.AddStudyTime(ctx, 5, 10*time.Minute)
	require.NoError(t, err)
	p, err := svc.AddStudyTime(ctx, 5, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, p.TotalStudyTime)
	assert.Equal(t, testNow, *p.LastStudyDate)

	p, err = svc.UpdateNotes(ctx, 5, "focus on ayah 3")
	require.NoError(t, err)
	assert.Equal(t, "focus on ayah 3", p.Notes)
	assert.Equal(t, 15*time.Minute, p.TotalStudyTime)
}

func TestMemorizationDueReviews(t *testing.T) {
	ctx := context.Background()
	svc, clock := newMemorization(t)

	_, err := svc.AddTestResult(ctx, 1, TestInput{Passed: true, Accuracy: 96})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, 2, domain.StatusMemorized)
	require.NoError(t, err)

	due, stats, err := svc.DueReviews(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, 2, due[0].SurahNumber)
	assert.Equal(t, ReviewStats{TotalDue: 1, Today: 1}, stats)

	clock.advance(31 * day)
	_, stats, err = svc.DueReviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReviewStats{TotalDue: 2, Today: 1, Overdue: 1}, stats)
}

func TestComputeStats(t *testing.T) {
	daysAgo := func(n int) *time.Time {
		d := testNow.Add(-time.Duration(n) * day)
		return &d
	}

	items := []domain.MemorizationProgress{
		{SurahNumber: 1, Status: domain.StatusMastered, LastStudyDate: daysAgo(0),
			TestResults: []domain.TestResult{{Accuracy: 100}, {Accuracy: 90}}},
		{SurahNumber: 2, Status: domain.StatusMemorized, LastStudyDate: daysAgo(1),
			TestResults: []domain.TestResult{{Accuracy: 80}}},
		{SurahNumber: 3, Status: domain.StatusLearning, LastStudyDate: daysAgo(2), TotalStudyTime: 10 * time.Minute},
		{SurahNumber: 4, Status: domain.StatusNew, LastStudyDate: daysAgo(5), TotalStudyTime: 5 * time.Minute},
		{SurahNumber: 5, Status: domain.StatusLearning, LastStudyDate: daysAgo(6)},
		{SurahNumber: 6, Status: domain.StatusLearning},
	}

	stats := ComputeStats(items, testNow)
	assert.Equal(t, 114, stats.TotalSurahs)
	assert.Equal(t, 1, stats.MasteredSurahs)
	assert.Equal(t, 1, stats.MemorizedSurahs)
	assert.Equal(t, 3, stats.LearningSurahs)
	assert.Equal(t, 2, stats.TotalProgress)
	assert.Equal(t, 15*time.Minute, stats.TotalStudyTime)
	assert.Equal(t, 3, stats.TotalTests)
	assert.Equal(t, 90, stats.AverageAccuracy)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	require.NotNil(t, stats.LastStudyDate)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *stats.LastStudyDate)

	stale := ComputeStats(items[3:], testNow)
	assert.Zero(t, stale.CurrentStreak)
	assert.Equal(t, 2, stale.LongestStreak)

	empty := ComputeStats(nil, testNow)
	assert.Zero(t, empty.LongestStreak)
	assert.Nil(t, empty.LastStudyDate)
}
