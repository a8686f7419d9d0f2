package application

import (
	"math"
	"time"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

const day = 24 * time.Hour

// NextReviewDate schedules the next review with a backoff chosen by mastery
// band. Only the lowest band is capped.
func NextReviewDate(lastReview time.Time, masteryScore float64, reviewCount int) time.Time {
	n := float64(reviewCount)

	var days float64
	switch {
	case masteryScore >= 95:
		days = 30 * math.Pow(2, n)
	case masteryScore >= 80:
		days = 15 * math.Pow(1.8, n)
	case masteryScore >= 60:
		days = 7 * math.Pow(1.5, n)
	default:
		days = math.Min(3, math.Pow(1.2, n))
	}

	return lastReview.Add(time.Duration(days * float64(day)))
}

// ReviewStats counts due reviews
type ReviewStats struct {
	TotalDue int
	Today    int
	Overdue  int
}

// Scheduler classifies progress records into review buckets. All methods are
// pure.
type Scheduler struct{}

// dueAt returns the stored next review date, or computes it when absent.
// The second result is false for items never reviewed.
func (Scheduler) dueAt(p domain.MemorizationProgress) (time.Time, bool) {
	if p.NextReviewDate != nil {
		return *p.NextReviewDate, true
	}
	if p.LastReviewDate == nil {
		return time.Time{}, false
	}
	return NextReviewDate(*p.LastReviewDate, p.MasteryScore, p.ReviewCount), true
}

// IsDue reports whether a memorized or mastered item needs review within the
// next 24 hours. Items never reviewed are always due.
func (s Scheduler) IsDue(p domain.MemorizationProgress, now time.Time) bool {
	if p.Status != domain.StatusMemorized && p.Status != domain.StatusMastered {
		return false
	}
	if p.LastReviewDate == nil {
		return true
	}
	due, _ := s.dueAt(p)
	return !due.After(now.Add(day))
}

// DueReviews returns the due items in their original order
func (s Scheduler) DueReviews(items []domain.MemorizationProgress, now time.Time) []domain.MemorizationProgress {
	due := []domain.MemorizationProgress{}
	for _, p := range items {
		if s.IsDue(p, now) {
			due = append(due, p)
		}
	}
	return due
}

// Overdue returns the due items whose stored review date is in the past and
// not today.
func (s Scheduler) Overdue(items []domain.MemorizationProgress, now time.Time) []domain.MemorizationProgress {
	overdue := []domain.MemorizationProgress{}
	for _, p := range s.DueReviews(items, now) {
		if p.NextReviewDate == nil {
			continue
		}
		next := *p.NextReviewDate
		if next.Before(now) && !sameDay(next, now) {
			overdue = append(overdue, p)
		}
	}
	return overdue
}

// Stats counts the due items, the ones scheduled for today (or without a
// stored date) and the overdue ones.
func (s Scheduler) Stats(items []domain.MemorizationProgress, now time.Time) ReviewStats {
	due := s.DueReviews(items, now)

	stats := ReviewStats{TotalDue: len(due)}
	for _, p := range due {
		if p.NextReviewDate == nil || sameDay(*p.NextReviewDate, now) {
			stats.Today++
		}
	}
	stats.Overdue = len(s.Overdue(items, now))
	return stats
}

// sameDay compares calendar days in the location of b
func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
