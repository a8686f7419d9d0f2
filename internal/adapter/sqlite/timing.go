package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/escalopa/quran-mushaf/internal/domain"
)

type ayahTimingRow struct {
	Reciter     int            `gorm:"column:reciter;primaryKey"`
	SurahNumber int            `gorm:"column:surah_number;primaryKey"`
	AyahNumber  int            `gorm:"column:ayah_number;primaryKey"`
	Timings     datatypes.JSON `gorm:"column:timings"`
}

func (ayahTimingRow) TableName() string { return "ayah_timing" }

// TimingStore serves per-ayah word timings of the ayah_timing table. Each row
// holds a JSON array of [word, start_ms, end_ms] triples.
type TimingStore struct {
	db *gorm.DB
}

func NewTimingStore(db *gorm.DB) *TimingStore {
	return &TimingStore{db: db}
}

// AyahTimings returns nil when the reciter has no timings for the ayah
func (s *TimingStore) AyahTimings(ctx context.Context, reciter domain.Reciter, surahNumber, ayahNumber int) (*domain.AyahTiming, error) {
	var row ayahTimingRow
	err := s.db.WithContext(ctx).
		Where("reciter = ? AND surah_number = ? AND ayah_number = ?", reciter.ID, surahNumber, ayahNumber).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ayah timing: %w", err)
	}

	timing, err := mapTiming(row)
	if err != nil {
		return nil, err
	}
	return &timing, nil
}

func (s *TimingStore) SurahTimings(ctx context.Context, reciter domain.Reciter, surahNumber int) ([]domain.AyahTiming, error) {
	var rows []ayahTimingRow
	err := s.db.WithContext(ctx).
		Where("reciter = ? AND surah_number = ?", reciter.ID, surahNumber).
		Order("ayah_number").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list surah timings: %w", err)
	}

	timings := make([]domain.AyahTiming, 0, len(rows))
	for _, row := range rows {
		timing, err := mapTiming(row)
		if err != nil {
			return nil, err
		}
		timings = append(timings, timing)
	}
	return timings, nil
}

// Save stores the timings of one ayah, replacing existing ones
func (s *TimingStore) Save(ctx context.Context, timing domain.AyahTiming) error {
	triples := make([][3]float64, len(timing.Timings))
	for i, t := range timing.Timings {
		triples[i] = [3]float64{float64(t.WordNumber), toMillis(t.Start), toMillis(t.End)}
	}
	raw, err := json.Marshal(triples)
	if err != nil {
		return fmt.Errorf("marshal timings: %w", err)
	}

	row := ayahTimingRow{
		Reciter:     timing.Reciter,
		SurahNumber: timing.SurahNumber,
		AyahNumber:  timing.AyahNumber,
		Timings:     datatypes.JSON(raw),
	}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save ayah timing: %w", err)
	}
	return nil
}

func mapTiming(row ayahTimingRow) (domain.AyahTiming, error) {
	var triples [][]float64
	if err := json.Unmarshal(row.Timings, &triples); err != nil {
		return domain.AyahTiming{}, fmt.Errorf("decode timings of %s: %w", domain.AyahKey(row.SurahNumber, row.AyahNumber), err)
	}

	timing := domain.AyahTiming{
		Reciter:     row.Reciter,
		SurahNumber: row.SurahNumber,
		AyahNumber:  row.AyahNumber,
		Timings:     make([]domain.WordTiming, 0, len(triples)),
	}
	for _, t := range triples {
		if len(t) < 3 {
			continue
		}
		timing.Timings = append(timing.Timings, domain.WordTiming{
			WordNumber: int(t[0]),
			Start:      fromMillis(t[1]),
			End:        fromMillis(t[2]),
		})
	}
	return timing, nil
}

func fromMillis(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
