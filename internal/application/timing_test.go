package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escalopa/quran-mushaf/internal/domain"
	"github.com/escalopa/quran-mushaf/internal/logger"
)

type stubSource struct {
	name    string
	timings map[string]*domain.AyahTiming
	err     error
}

func (s *stubSource) AyahTimings(_ context.Context, _ domain.Reciter, surahNumber, ayahNumber int) (*domain.AyahTiming, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.timings[domain.AyahKey(surahNumber, ayahNumber)], nil
}

func (s *stubSource) SurahTimings(_ context.Context, _ domain.Reciter, _ int) ([]domain.AyahTiming, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []domain.AyahTiming{}
	for _, t := range s.timings {
		out = append(out, *t)
	}
	return out, nil
}

func (s *stubSource) SurahAudioURL(_ context.Context, _ domain.Reciter, surahNumber int) (string, error) {
	return "https://cdn.example/" + s.name + "/001.mp3", nil
}

var (
	ayahReciter  = domain.Reciter{ID: 1, AudioURL: "https://everyayah.com/data/Alafasy_128kbps", ReaderType: domain.ReaderAyah}
	surahReciter = domain.Reciter{ID: 7, ReaderFolder: "husary", ReaderType: domain.ReaderSurah}
)

func TestTimingServiceSource(t *testing.T) {
	segments := &stubSource{name: "segments", timings: map[string]*domain.AyahTiming{
		"1:2": {SurahNumber: 1, AyahNumber: 2, TimestampFrom: 6 * time.Second, Timings: []domain.WordTiming{
			{WordNumber: 1, Start: 6 * time.Second, End: 7 * time.Second},
			{WordNumber: 2, Start: 7 * time.Second, End: 8500 * time.Millisecond},
		}},
	}}
	perAyah := &stubSource{name: "db", timings: map[string]*domain.AyahTiming{
		"1:2": {SurahNumber: 1, AyahNumber: 2, Timings: []domain.WordTiming{
			{WordNumber: 1, Start: 0, End: time.Second},
		}},
	}}
	svc := NewTimingService(segments, segments, perAyah, logger.Nop())
	ctx := context.Background()

	track, err := svc.AyahTrack(ctx, surahReciter, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/segments/001.mp3", track.AudioURL)
	assert.Equal(t, 6*time.Second, track.Start)
	assert.Equal(t, 8500*time.Millisecond, track.End)
	assert.Len(t, track.Timings, 2)

	track, err = svc.AyahTrack(ctx, ayahReciter, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "https://everyayah.com/data/Alafasy_128kbps/001002.mp3", track.AudioURL)
	assert.Zero(t, track.Start)
	assert.Equal(t, time.Second, track.End)

	_, err = svc.AyahTrack(ctx, ayahReciter, 1, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	timings, err := svc.SurahTimings(ctx, surahReciter, 1)
	require.NoError(t, err)
	assert.Len(t, timings, 1)
}

func TestTimingServiceErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewTimingService(nil, nil, &stubSource{err: boom}, logger.Nop())
	ctx := context.Background()

	_, err := svc.AyahTimings(ctx, surahReciter, 1, 1)
	assert.ErrorContains(t, err, "no timing source for reciter 7")

	_, err = svc.AyahTimings(ctx, ayahReciter, 1, 1)
	assert.ErrorIs(t, err, boom)

	_, err = svc.SurahTimings(ctx, ayahReciter, 1)
	assert.ErrorIs(t, err, boom)
}
