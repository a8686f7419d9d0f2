package application

import (
	"context"
	"fmt"
	"time"

	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/logger"
)

// Track is what a player needs to follow one ayah: where to start and stop
// inside the audio file and the word timings in between.
type Track struct {
	AudioURL string
	Start    time.Duration
	End      time.Duration
	Timings  []domain.WordTiming
}

// TimingService picks the timing source of a reciter. Full-surah reciters
// are served by segments files, per-ayah reciters by the timing database.
type TimingService struct {
	segments domain.TimingSource
	audio    domain.SurahAudio
	perAyah  domain.TimingSource
	log      *logger.Logger
}

// NewTimingService wires the sources. Either source may be nil when it is not
// configured.
func NewTimingService(segments domain.TimingSource, audio domain.SurahAudio, perAyah domain.TimingSource, log *logger.Logger) *TimingService {
	return &TimingService{
		segments: segments,
		audio:    audio,
		perAyah:  perAyah,
		log:      log,
	}
}

func (s *TimingService) source(reciter domain.Reciter) (domain.TimingSource, error) {
	src := s.perAyah
	if reciter.UsesSegments() {
		src = s.segments
	}
	if src == nil {
		return nil, fmt.Errorf("no timing source for reciter %d", reciter.ID)
	}
	return src, nil
}

// AyahTimings returns nil when the reciter has no timings for the ayah
func (s *TimingService) AyahTimings(ctx context.Context, reciter domain.Reciter, surahNumber, ayahNumber int) (*domain.AyahTiming, error) {
	src, err := s.source(reciter)
	if err != nil {
		return nil, err
	}
	timing, err := src.AyahTimings(ctx, reciter, surahNumber, ayahNumber)
	if err != nil {
		return nil, fmt.Errorf("get ayah timings: %w", err)
	}
	return timing, nil
}

func (s *TimingService) SurahTimings(ctx context.Context, reciter domain.Reciter, surahNumber int) ([]domain.AyahTiming, error) {
	src, err := s.source(reciter)
	if err != nil {
		return nil, err
	}
	timings, err := src.SurahTimings(ctx, reciter, surahNumber)
	if err != nil {
		return nil, fmt.Errorf("get surah timings: %w", err)
	}
	return timings, nil
}

// AyahTrack resolves the audio and the word timings of an ayah. Full-surah
// tracks start at the ayah offset, per-ayah files at zero. It fails with
// domain.ErrNotFound when the reciter has no timings for the ayah.
func (s *TimingService) AyahTrack(ctx context.Context, reciter domain.Reciter, surahNumber, ayahNumber int) (Track, error) {
	timing, err := s.AyahTimings(ctx, reciter, surahNumber, ayahNumber)
	if err != nil {
		return Track{}, err
	}
	if timing == nil || len(timing.Timings) == 0 {
		return Track{}, fmt.Errorf("timings of %s: %w", domain.AyahKey(surahNumber, ayahNumber), domain.ErrNotFound)
	}

	track := Track{
		Start:   timing.TimestampFrom,
		End:     timing.Timings[len(timing.Timings)-1].End,
		Timings: timing.Timings,
	}

	switch {
	case !reciter.UsesSegments():
		track.AudioURL = reciter.AyahAudioURL(surahNumber, ayahNumber)
	case s.audio != nil:
		url, err := s.audio.SurahAudioURL(ctx, reciter, surahNumber)
		if err != nil {
			return Track{}, fmt.Errorf("get surah audio: %w", err)
		}
		track.AudioURL = url
	}

	s.log.Debug("ayah track resolved",
		"reciter", reciter.ID,
		"ayah", domain.AyahKey(surahNumber, ayahNumber),
		"words", len(track.Timings),
		"start", track.Start,
		"end", track.End,
	)
	return track, nil
}
