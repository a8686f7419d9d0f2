package application

import (
	"context"
	"time"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

// Synchronizer maps a playback position to the word being recited. It keeps
// the last matched position as a hint, so each update only walks as far as
// the clock moved since the previous one. It is not safe for concurrent use.
type Synchronizer struct {
	timings []domain.WordTiming
	hint    int
	word    int
	active  bool
}

func NewSynchronizer(timings []domain.WordTiming) *Synchronizer {
	s := &Synchronizer{}
	s.SetTimings(timings)
	return s
}

// SetTimings swaps the timing table, e.g. when moving to another ayah, and
// forgets the hint and the active word.
func (s *Synchronizer) SetTimings(timings []domain.WordTiming) {
	s.timings = timings
	s.hint = 0
	s.word = 0
	s.active = false
}

// Active returns the last emitted word number
func (s *Synchronizer) Active() (int, bool) {
	return s.word, s.active
}

// Update resolves the word at pos. Outside every interval it reports no word
// while playing and keeps the previous one while paused.
func (s *Synchronizer) Update(pos time.Duration, paused bool) (int, bool) {
	if len(s.timings) == 0 {
		s.word, s.active = 0, false
		return s.word, s.active
	}

	i := min(s.hint, len(s.timings)-1)
	for pos > s.timings[i].End && i < len(s.timings)-1 {
		i++
	}
	for pos < s.timings[i].Start && i > 0 {
		i--
	}

	t := s.timings[i]
	switch {
	case pos >= t.Start && pos <= t.End:
		s.hint = i
		s.word, s.active = t.WordNumber, true
	case !paused:
		s.word, s.active = 0, false
	}
	return s.word, s.active
}

// Run polls clock on every tick and calls emit whenever the active word
// changes. It returns when ctx is done or ticks is closed.
func (s *Synchronizer) Run(ctx context.Context, ticks <-chan time.Time, clock domain.PlaybackClock, emit func(word int, ok bool)) {
	lastWord, lastOK := s.Active()

	for {
		select {
		case <-ctx.Done():
			return
		case _, open := <-ticks:
			if !open {
				return
			}
			word, ok := s.Update(clock.Position(), clock.Paused())
			if word != lastWord || ok != lastOK {
				lastWord, lastOK = word, ok
				emit(word, ok)
			}
		}
	}
}
